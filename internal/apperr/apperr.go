// Package apperr — общая классификация ошибок приложения.
// Хендлеры сопоставляют эти ошибки с HTTP-статусами, ничего не зная
// про устройство хранилища.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation — некорректный ввод (пустой раздел, неизвестное поле).
	ErrValidation = errors.New("validation error")
	// ErrNotFound — мутация по несуществующей или чужой записи.
	ErrNotFound = errors.New("not found")
	// ErrInvariant — нарушение целостности данных (висячая ссылка на раздел).
	ErrInvariant = errors.New("invariant violation")
	// ErrTransientIO — хранилище недоступно, операцию можно повторить.
	ErrTransientIO = errors.New("transient io error")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

func TransientIO(err error) error {
	return fmt.Errorf("%w: %v", ErrTransientIO, err)
}
