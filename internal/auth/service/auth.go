package service

import (
	"net/http"

	"github.com/Wassit-app/backend/internal/auth"
	"github.com/Wassit-app/backend/internal/auth/biz"
	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/Wassit-app/backend/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthService 认证接口
type AuthService struct {
	uc  *biz.AuthUseCase
	log *logger.Logger
}

func NewAuthService(uc *biz.AuthUseCase, log *logger.Logger) *AuthService {
	return &AuthService{uc: uc, log: log}
}

type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=1,max=100"`
	FullName string  `json:"fullName" binding:"required,min=1,max=255"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password" binding:"required,min=6"`
	Role     string  `json:"role" binding:"required"`
	Address  string  `json:"address"`
}

type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=4,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=4,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type OAuthLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

type AccountResponse struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"isVerified"`
}

// Register 注册账号并发送验证码邮件
func (s *AuthService) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role, err := auth.ParseRole(req.Role)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, err := s.uc.Register(c.Request.Context(), &biz.RegisterInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     role,
		Address:  req.Address,
	})
	if err != nil {
		s.log.Warn("registration failed", zap.String("email", req.Email), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Created(c, "Registration successful, verification code sent", gin.H{
		"user": toAccountResponse(account),
	})
}

// Verify 校验验证码并激活账号
func (s *AuthService) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, tokens, err := s.uc.VerifyRegistration(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		s.log.Warn("verification failed", zap.String("email", req.Email), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Account verified successfully", gin.H{
		"user":   toAccountResponse(account),
		"tokens": tokens,
	})
}

// Login 邮箱密码登录
func (s *AuthService) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role, err := auth.ParseRole(req.Role)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, tokens, err := s.uc.Login(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		s.log.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Login successful", gin.H{
		"user":   toAccountResponse(account),
		"tokens": tokens,
	})
}

// ForgotPassword 发起密码重置
func (s *AuthService) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := s.uc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		s.log.Warn("password reset request failed", zap.String("email", req.Email), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Password reset code sent", nil)
}

// ResetPassword 校验验证码并重置密码
func (s *AuthService) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := s.uc.ConfirmPasswordReset(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		s.log.Warn("password reset failed", zap.String("email", req.Email), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Password reset successfully", nil)
}

// Refresh 刷新令牌
func (s *AuthService) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := s.uc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Token refreshed", gin.H{"tokens": tokens})
}

// GoogleAuthURL 跳转到 Google 授权页
func (s *AuthService) GoogleAuthURL(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, s.uc.OAuthAuthURL())
}

// GoogleLogin Google 授权码登录
func (s *AuthService) GoogleLogin(c *gin.Context) {
	var req OAuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s.googleLogin(c, req.Code)
}

// GoogleCallback Google 授权回调，授权码在 query 中
func (s *AuthService) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "code is required")
		return
	}

	s.googleLogin(c, code)
}

func (s *AuthService) googleLogin(c *gin.Context, code string) {
	account, tokens, err := s.uc.OAuthLogin(c.Request.Context(), code)
	if err != nil {
		s.log.Warn("google login failed", zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Login successful", gin.H{
		"user":   toAccountResponse(account),
		"tokens": tokens,
	})
}

func toAccountResponse(account *biz.Account) *AccountResponse {
	return &AccountResponse{
		ID:         account.ID,
		Username:   account.Username,
		FullName:   account.FullName,
		Email:      account.Email,
		Phone:      account.Phone,
		Role:       account.Role.String(),
		IsVerified: account.IsVerified,
	}
}

// RegisterRoutes 注册认证路由，限流在路由层挂载
func (s *AuthService) RegisterRoutes(r *gin.RouterGroup, loginLimiter, registerLimiter gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", registerLimiter, s.Register)
		authGroup.POST("/verify", s.Verify)
		authGroup.POST("/login", loginLimiter, s.Login)
		authGroup.POST("/forgot-password", s.ForgotPassword)
		authGroup.POST("/reset-password", s.ResetPassword)
		authGroup.POST("/refresh", s.Refresh)
		authGroup.GET("/google/url", s.GoogleAuthURL)
		authGroup.GET("/google/callback", s.GoogleCallback)
		authGroup.POST("/google", s.GoogleLogin)
	}
}
