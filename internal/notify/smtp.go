package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"chrono-union/backend/config"
)

// 收件地址从 metadata["email"] 取得
var ErrNoRecipientAddress = errors.New("缺少收件邮箱地址")

// SMTPSender 邮件通知发送器
type SMTPSender struct {
	cfg    *config.MailConfig
	logger *zap.Logger
	// 便于测试替换，默认 smtp.SendMail
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender 创建邮件通知发送器
func NewSMTPSender(cfg *config.MailConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger, sendMail: smtp.SendMail}
}

func (s *SMTPSender) Send(ctx context.Context, userID int64, title, message string, metadata map[string]interface{}) error {
	email, _ := metadata["email"].(string)
	if email == "" {
		return ErrNoRecipientAddress
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n",
		s.cfg.From, email, title, message)

	if err := s.sendMail(addr, auth, s.cfg.From, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("邮件发送失败: %w", err)
	}
	s.logger.Debug("提醒邮件已发送",
		zap.Int64("user_id", userID),
		zap.String("to", email))
	return nil
}
