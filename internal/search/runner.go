package search

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultDebounce — пауза после последнего ввода перед запуском поиска.
const DefaultDebounce = 300 * time.Millisecond

// ErrSuperseded — запрос вытеснен более новым вводом; его результат
// выбрасывается, не ошибка для пользователя.
var ErrSuperseded = errors.New("search superseded by newer input")

// Runner сериализует быстрый поиск одной сессии: каждый ввод получает
// новый номер поколения, выполнение стартует только после паузы debounce,
// и только если за паузу не появилось поколение новее. Результат
// устаревшего поколения никогда не перекроет более поздний.
type Runner struct {
	mu    sync.Mutex
	gen   uint64
	delay time.Duration
}

func NewRunner(delay time.Duration) *Runner {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Runner{delay: delay}
}

func (r *Runner) bump() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	return r.gen
}

func (r *Runner) latest(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen == r.gen
}

// Run регистрирует новый ввод и после паузы debounce выполняет do.
// Проверка поколения идёт и до, и после do: даже успевший выполниться
// запрос не применяется, если его уже вытеснили.
func (r *Runner) Run(ctx context.Context, do func() error) error {
	gen := r.bump()

	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}

	if !r.latest(gen) {
		return ErrSuperseded
	}
	if err := do(); err != nil {
		return err
	}
	if !r.latest(gen) {
		return ErrSuperseded
	}
	return nil
}
