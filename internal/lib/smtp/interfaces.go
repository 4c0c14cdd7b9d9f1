// Package smtp отправляет письма через SMTP-сервер.
package smtp

import (
	"context"
	"io"
)

// Client — SMTP-сессия, готовая к MAIL FROM. *smtp.Client из стандартной библиотеки подходит без обёрток.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer открывает аутентифицированную сессию и знает адрес отправителя.
type Dialer interface {
	Connect(ctx context.Context) (Client, error)
	From() string
}
