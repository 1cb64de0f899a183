package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/Wassit-app/backend/internal/email/types"
)

// OTP 邮件模板。验证码有效期须与认证模块保持一致（10 分钟）。
const (
	verificationSubject  = "Verify your Wassit account"
	passwordResetSubject = "Reset your Wassit password"
)

// otpTemplate 用 html/template 渲染，用户提供的姓名会被自动转义
var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f6f6f6; padding: 24px;">
  <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h2 style="color: #e8590c; margin-top: 0;">Wassit</h2>
    <p>Hi {{.FullName}},</p>
    <p>{{.Intro}}</p>
    <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px; text-align: center; margin: 24px 0;">{{.OTP}}</p>
    <p style="color: #888;">This code expires in 10 minutes. If you did not request it, you can safely ignore this email.</p>
  </div>
</body>
</html>`))

type otpTemplateData struct {
	FullName string
	Intro    string
	OTP      string
}

func renderOTPHTML(data otpTemplateData) (string, error) {
	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render otp template: %w", err)
	}
	return buf.String(), nil
}

// SendVerificationOTP 发送注册验证码
func (s *EmailService) SendVerificationOTP(ctx context.Context, to, fullName, otp string) error {
	htmlBody, err := renderOTPHTML(otpTemplateData{
		FullName: fullName,
		Intro:    "Use this code to verify your account:",
		OTP:      otp,
	})
	if err != nil {
		return err
	}

	_, err = s.SendEmail(ctx, &types.Email{
		To:       []string{to},
		Subject:  verificationSubject,
		HTMLBody: htmlBody,
		TextBody: fmt.Sprintf("Hi %s, your Wassit verification code is %s. It expires in 10 minutes.", fullName, otp),
	})
	return err
}

// SendPasswordResetOTP 发送密码重置验证码
func (s *EmailService) SendPasswordResetOTP(ctx context.Context, to, fullName, otp string) error {
	htmlBody, err := renderOTPHTML(otpTemplateData{
		FullName: fullName,
		Intro:    "Use this code to reset your password:",
		OTP:      otp,
	})
	if err != nil {
		return err
	}

	_, err = s.SendEmail(ctx, &types.Email{
		To:       []string{to},
		Subject:  passwordResetSubject,
		HTMLBody: htmlBody,
		TextBody: fmt.Sprintf("Hi %s, your Wassit password reset code is %s. It expires in 10 minutes.", fullName, otp),
	})
	return err
}
