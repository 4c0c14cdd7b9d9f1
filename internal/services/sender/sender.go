// Package services содержит воркер, который превращает уведомления из очереди в письма.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/magabrotheeeer/streamflix/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/streamflix/internal/lib/sl"
	"github.com/magabrotheeeer/streamflix/internal/lib/smtp"
	"github.com/magabrotheeeer/streamflix/internal/models"
)

// Transport открывает соединение с почтовым сервером.
type Transport interface {
	Connect(ctx context.Context) (smtp.Client, error)
	From() string
}

// SenderService отправляет письма по сообщениям из очередей уведомлений.
type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport Transport, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// Handlers возвращает обработчики для каждого ключа маршрутизации.
func (s *SenderService) Handlers() map[string]rabbitmq.Handler {
	return map[string]rabbitmq.Handler{
		rabbitmq.RoutingVerification:  s.SendVerification,
		rabbitmq.RoutingPasswordReset: s.SendPasswordReset,
		rabbitmq.RoutingTrial:         s.SendTrialEnding,
		rabbitmq.RoutingReferral:      s.SendReferralAccepted,
	}
}

// SendVerification отправляет токен подтверждения почты.
func (s *SenderService) SendVerification(ctx context.Context, body []byte) error {
	var message models.AccountTokenEvent
	if err := s.decode(body, &message); err != nil {
		return err
	}
	bodyText := fmt.Sprintf("Здравствуйте!\n\nВаш код подтверждения Streamflix: %s\nКод действует до %s (UTC).",
		message.Token, message.ExpiresAt.UTC().Format("02.01.2006 15:04"))
	return s.sendEmail(ctx, []string{message.Email}, "Подтверждение почты Streamflix", bodyText)
}

// SendPasswordReset отправляет токен сброса пароля.
func (s *SenderService) SendPasswordReset(ctx context.Context, body []byte) error {
	var message models.AccountTokenEvent
	if err := s.decode(body, &message); err != nil {
		return err
	}
	bodyText := fmt.Sprintf("Здравствуйте!\n\nКод для сброса пароля: %s\nКод действует до %s (UTC).\n\nЕсли вы не запрашивали сброс, просто проигнорируйте это письмо.",
		message.Token, message.ExpiresAt.UTC().Format("02.01.2006 15:04"))
	return s.sendEmail(ctx, []string{message.Email}, "Сброс пароля Streamflix", bodyText)
}

// SendTrialEnding предупреждает о скором окончании пробного периода.
func (s *SenderService) SendTrialEnding(ctx context.Context, body []byte) error {
	var message models.TrialEndingEvent
	if err := s.decode(body, &message); err != nil {
		return err
	}
	bodyText := fmt.Sprintf("Здравствуйте!\n\nПробный период вашей подписки %s заканчивается %s (UTC).\nПосле этого подписка продолжится по обычной цене тарифа.",
		message.Plan, message.TrialEnd.UTC().Format("02.01.2006 15:04"))
	return s.sendEmail(ctx, []string{message.Email}, "Пробный период Streamflix заканчивается", bodyText)
}

// SendReferralAccepted сообщает обоим участникам о принятом приглашении.
func (s *SenderService) SendReferralAccepted(ctx context.Context, body []byte) error {
	var message models.ReferralAcceptedEvent
	if err := s.decode(body, &message); err != nil {
		return err
	}
	bodyText := "Здравствуйте!\n\nПриглашение в Streamflix принято."
	if message.DiscountApplied {
		bodyText += fmt.Sprintf("\nНа вашу подписку начислена скидка %s.", message.DiscountAmount.StringFixed(2))
	}

	to := make([]string, 0, 2)
	for _, addr := range []string{message.ReferrerEmail, message.ReferredEmail} {
		if addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		s.log.Warn("referral notification without recipients", slog.Int64("referral_id", message.ReferralID))
		return nil
	}
	return s.sendEmail(ctx, to, "Реферальная программа Streamflix", bodyText)
}

func (s *SenderService) decode(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	return nil
}

func (s *SenderService) sendEmail(ctx context.Context, to []string, subject, bodyText string) error {
	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(envelopeAddress(from)); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}

// envelopeAddress извлекает адрес из "Имя <addr>" для MAIL FROM.
func envelopeAddress(from string) string {
	if addr, err := mail.ParseAddress(from); err == nil {
		return addr.Address
	}
	return from
}
