package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Wassit-app/backend/internal/email/types"
	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// EmailService 生产级邮件服务
type EmailService struct {
	config *types.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *types.EmailConfig) (*EmailService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("email config is required")
	}

	// 设置默认值
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 2 * time.Second
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 30 * time.Second
	}

	return &EmailService{config: cfg}, nil
}

// SendEmail 发送邮件（带重试）
func (s *EmailService) SendEmail(ctx context.Context, email *types.Email) (*types.EmailStatus, error) {
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if err := s.validateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	client, err := s.createClient()
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	defer client.Close()

	msg, err := s.buildMessage(email)
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, s.config.SendTimeout)
		err := client.DialAndSendWithContext(sendCtx, msg)
		cancel()

		if err == nil {
			return &types.EmailStatus{
				MessageID: msg.GetGenHeader(mail.HeaderMessageID)[0],
				SentAt:    time.Now(),
				Attempts:  attempt,
			}, nil
		}
		lastErr = err

		if attempt < s.config.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.config.RetryInterval):
			}
		}
	}

	return nil, fmt.Errorf("send email after %d attempts: %w", s.config.MaxRetries, lastErr)
}

func (s *EmailService) validateEmail(email *types.Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if email.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if email.HTMLBody == "" && email.TextBody == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

func (s *EmailService) createClient() (*mail.Client, error) {
	return mail.NewClient(s.config.Host,
		mail.WithPort(s.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.config.Username),
		mail.WithPassword(s.config.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(s.config.ConnectTimeout),
	)
}

func (s *EmailService) buildMessage(email *types.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.FromFormat(s.config.FromName, s.config.FromAddr); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("set recipients: %w", err)
	}

	msg.Subject(email.Subject)
	msg.SetMessageIDWithValue(uuid.NewString())

	if email.HTMLBody != "" {
		msg.SetBodyString(mail.TypeTextHTML, email.HTMLBody)
		if email.TextBody != "" {
			msg.AddAlternativeString(mail.TypeTextPlain, email.TextBody)
		}
	} else {
		msg.SetBodyString(mail.TypeTextPlain, email.TextBody)
	}

	return msg, nil
}
