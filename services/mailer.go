package services

import (
	"context"
	"fmt"
	"net/smtp"

	"salescheck/services/logger"
)

// Mailer gửi mã đặt lại mật khẩu
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, code string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, code string) error {
	to := []string{email}
	subject := "Subject: Your password reset code\n"
	body := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<title>Password reset</title>
		</head>
		<body>
			<p>Hello %s,</p>
			<p>We received a request to reset the password of your sales check-in account.</p>
			<p>Your reset code is: <strong>%s</strong></p>
			<p>The code is valid for 15 minutes. If you did not request it you can safely ignore this email.</p>
		</body>
		</html>
	`, email, code)

	msg := []byte("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n" + subject + "\n" + body)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, to, msg)
}

// LogMailer chỉ ghi log, dùng khi chưa cấu hình SMTP
type LogMailer struct {
	Logger logger.Logger
}

func (m LogMailer) SendPasswordReset(ctx context.Context, email, code string) error {
	if m.Logger != nil {
		m.Logger.Info("SMTP not configured, password reset code for %s not sent", email)
	}
	return nil
}
