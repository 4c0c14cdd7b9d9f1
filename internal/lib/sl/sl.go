// Package sl содержит вспомогательные функции для логгера slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки. Для nil пишется пустая строка,
// чтобы вызов в ветке логирования не мог уронить обработчик.
//
//	log.Error("failed to accept invitation", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
