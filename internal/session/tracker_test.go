package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeginBlocksConcurrentSave(t *testing.T) {
	tr := NewSaveTracker()

	assert.True(t, tr.Begin("req-1", "comment"))
	// второе сохранение того же поля не начинается, пока первое в полёте
	assert.False(t, tr.Begin("req-1", "comment"))
	// другое поле того же требования — независимый ключ
	assert.True(t, tr.Begin("req-1", "status"))
	// то же поле другого требования — тоже
	assert.True(t, tr.Begin("req-2", "comment"))
}

func TestSucceedClearsDirty(t *testing.T) {
	tr := NewSaveTracker()

	tr.MarkDirty("req-1", "comment")
	assert.True(t, tr.Begin("req-1", "comment"))
	assert.True(t, tr.Saving("req-1", "comment"))

	tr.Succeed("req-1", "comment")
	assert.False(t, tr.Dirty("req-1", "comment"))
	assert.False(t, tr.Saving("req-1", "comment"))

	// после успеха можно сохранять снова
	assert.True(t, tr.Begin("req-1", "comment"))
}

func TestFailKeepsDirty(t *testing.T) {
	tr := NewSaveTracker()

	assert.True(t, tr.Begin("req-1", "comment"))
	tr.Fail("req-1", "comment")

	// полёт окончен, но изменение не потеряно — можно повторить
	assert.True(t, tr.Dirty("req-1", "comment"))
	assert.False(t, tr.Saving("req-1", "comment"))
	assert.True(t, tr.Begin("req-1", "comment"))
}

func TestDirtyOnUnknownFieldIsFalse(t *testing.T) {
	tr := NewSaveTracker()
	assert.False(t, tr.Dirty("req-1", "comment"))
	assert.False(t, tr.Saving("req-1", "comment"))
}
