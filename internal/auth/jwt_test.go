package auth

import (
	"testing"
	"time"
)

// TestGenerateAndVerifyToken 测试令牌签发与验证往返
func TestGenerateAndVerifyToken(t *testing.T) {
	m := NewJWTManager("test-secret", "wassit-test")

	token, err := m.GenerateAccessToken("user-1", "chef@example.com", RoleChef)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", claims.UserID)
	}
	if claims.Email != "chef@example.com" {
		t.Errorf("Email = %s, want chef@example.com", claims.Email)
	}
	// 角色声明为类型化的 Role
	if claims.Role != RoleChef {
		t.Errorf("Role = %s, want %s", claims.Role, RoleChef)
	}
}

// TestVerifyTokenWrongSecret 测试错误密钥验证失败
func TestVerifyTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", "")
	token, err := m.GenerateAccessToken("user-1", "a@b.com", RoleCustomer)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	other := NewJWTManager("secret-b", "")
	if _, err := other.VerifyToken(token); err == nil {
		t.Error("VerifyToken() with wrong secret should fail")
	}
}

// TestVerifyExpiredToken 测试过期令牌验证失败
func TestVerifyExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", "")
	token, err := m.GenerateToken("user-1", "a@b.com", RoleCustomer, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := m.VerifyToken(token); err == nil {
		t.Error("VerifyToken() with expired token should fail")
	}
}

// TestRefreshTokenLongerThanAccess 刷新令牌有效期远长于访问令牌
func TestRefreshTokenLongerThanAccess(t *testing.T) {
	if RefreshTokenDuration <= AccessTokenDuration {
		t.Errorf("RefreshTokenDuration = %v, should exceed AccessTokenDuration %v",
			RefreshTokenDuration, AccessTokenDuration)
	}
}

// TestExtractTokenFromHeader 测试 Authorization 头解析
func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("ExtractTokenFromHeader() error = %v", err)
	}
	if token != "abc.def.ghi" {
		t.Errorf("token = %s, want abc.def.ghi", token)
	}

	invalid := []string{"", "abc.def.ghi", "Basic abc", "Bearer"}
	for _, header := range invalid {
		if _, err := ExtractTokenFromHeader(header); err == nil {
			t.Errorf("ExtractTokenFromHeader(%q) should fail", header)
		}
	}
}
