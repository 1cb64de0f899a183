package types

import "time"

// EmailConfig 邮件服务配置
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromAddr string
	FromName string

	MaxRetries     int
	RetryInterval  time.Duration
	ConnectTimeout time.Duration
	SendTimeout    time.Duration
}

// Email 待发送邮件
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailStatus 发送结果
type EmailStatus struct {
	MessageID string
	SentAt    time.Time
	Attempts  int
}
