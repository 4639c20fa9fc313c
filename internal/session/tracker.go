// Package session — состояние сохранений в рамках одной пользовательской
// сессии. Не глобальное: у каждого пользователя свой трекер.
package session

import "sync"

type fieldKey struct {
	RequirementID string
	Field         string
}

type fieldState struct {
	dirty  bool
	saving bool
}

// SaveTracker сериализует сохранения по ключу (требование, поле):
// пока предыдущее сохранение поля не завершилось, новое не начинается —
// медленный ранний запрос не перезапишет поздний ввод. Флаг dirty
// снимается только успешным сохранением; после ошибки поле остаётся
// грязным и его можно сохранить повторно.
type SaveTracker struct {
	mu     sync.Mutex
	fields map[fieldKey]*fieldState
}

func NewSaveTracker() *SaveTracker {
	return &SaveTracker{fields: make(map[fieldKey]*fieldState)}
}

func (t *SaveTracker) state(id, field string) *fieldState {
	key := fieldKey{RequirementID: id, Field: field}
	st := t.fields[key]
	if st == nil {
		st = &fieldState{}
		t.fields[key] = st
	}
	return st
}

// MarkDirty — у поля есть несохранённое изменение.
func (t *SaveTracker) MarkDirty(id, field string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state(id, field).dirty = true
}

// Begin пытается начать сохранение поля. false — предыдущее сохранение
// этого же поля ещё в полёте, повторить позже.
func (t *SaveTracker) Begin(id, field string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.state(id, field)
	if st.saving {
		return false
	}
	st.saving = true
	st.dirty = true
	return true
}

// Succeed — сохранение прошло, поле чистое.
func (t *SaveTracker) Succeed(id, field string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.fields, fieldKey{RequirementID: id, Field: field})
}

// Fail — сохранение сорвалось: полёт окончен, dirty остаётся.
func (t *SaveTracker) Fail(id, field string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state(id, field).saving = false
}

func (t *SaveTracker) Dirty(id, field string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.fields[fieldKey{RequirementID: id, Field: field}]
	return st != nil && st.dirty
}

func (t *SaveTracker) Saving(id, field string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.fields[fieldKey{RequirementID: id, Field: field}]
	return st != nil && st.saving
}
