package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTP 配置
const (
	OTPLength = 4                // 验证码长度
	OTPTTL    = 10 * time.Minute // 验证码有效期
)

// GenerateOTP 生成指定长度的纯数字验证码
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = OTPLength
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}

	return string(digits), nil
}
