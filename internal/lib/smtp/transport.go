package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/magabrotheeeer/streamflix/internal/config"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
)

// ErrNoStartTLS — сервер не предлагает STARTTLS, отправлять пароль открытым текстом нельзя.
var ErrNoStartTLS = errors.New("smtp server does not support STARTTLS")

// Transport открывает сессии с почтовым сервером из config.SMTP.
type Transport struct {
	cfg    config.SMTP
	log    *slog.Logger
	dialer net.Dialer
}

// NewTransport создает новый экземпляр Transport.
// Таймаут установки TCP-соединения берётся из cfg.DialTimeout.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{
		cfg:    cfg,
		log:    log.With(slog.String("smtp_host", cfg.SMTPHost)),
		dialer: net.Dialer{Timeout: cfg.DialTimeout},
	}
}

// From возвращает адрес отправителя для заголовка и MAIL FROM.
func (t *Transport) From() string {
	if t.cfg.From != "" {
		return t.cfg.From
	}
	return t.cfg.SMTPUser
}

// Connect подключается к серверу, поднимает STARTTLS и проходит PLAIN-аутентификацию.
// При ошибке на любом шаге соединение закрывается.
func (t *Transport) Connect(ctx context.Context) (Client, error) {
	const op = "smtp.Connect"

	conn, err := t.dialer.DialContext(ctx, "tcp", net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort))
	if err != nil {
		t.log.Error("dial failed", sl.Err(err))
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		t.log.Error("greeting failed", sl.Err(err))
		return nil, fmt.Errorf("%s: greeting: %w", op, err)
	}

	if err := t.secure(client); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			t.log.Warn("close after failed handshake", sl.Err(closeErr))
		}
		t.log.Error("handshake failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, nil
}

func (t *Transport) secure(client *smtp.Client) error {
	if ok, _ := client.Extension("STARTTLS"); !ok {
		return ErrNoStartTLS
	}
	if err := client.StartTLS(&tls.Config{ServerName: t.cfg.SMTPHost, MinVersion: tls.VersionTLS12}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}
	if t.cfg.SMTPUser == "" {
		return nil
	}
	if err := client.Auth(smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}
