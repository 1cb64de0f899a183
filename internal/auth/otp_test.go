package auth

import "testing"

// TestGenerateOTP 测试验证码生成
func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP(OTPLength)
	if err != nil {
		t.Fatalf("GenerateOTP() error = %v", err)
	}

	if len(otp) != OTPLength {
		t.Errorf("otp length = %d, want %d", len(otp), OTPLength)
	}

	for _, c := range otp {
		if c < '0' || c > '9' {
			t.Errorf("otp contains non-digit %q", c)
		}
	}
}

// TestGenerateOTPInvalidLength 非法长度回退到默认长度
func TestGenerateOTPInvalidLength(t *testing.T) {
	otp, err := GenerateOTP(0)
	if err != nil {
		t.Fatalf("GenerateOTP(0) error = %v", err)
	}
	if len(otp) != OTPLength {
		t.Errorf("otp length = %d, want default %d", len(otp), OTPLength)
	}
}
