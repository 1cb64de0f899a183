package biz

import (
	"context"
	"time"

	"github.com/Wassit-app/backend/internal/auth"
	apperrors "github.com/Wassit-app/backend/internal/pkg/errors"
	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Account 认证视角下的用户账号
type Account struct {
	ID           string
	Username     string
	FullName     string
	Email        string
	Phone        *string
	Role         auth.Role
	IsVerified   bool
	PasswordHash string
	OTP          *string
	OTPExpiresAt *time.Time
}

// RegisterInput 注册请求参数
type RegisterInput struct {
	Username string
	FullName string
	Email    string
	Phone    *string
	Password string
	Role     auth.Role
	// Address 填入角色对应的地址字段：厨师为厨房地址，顾客为配送地址
	Address string
}

// TokenPair 访问令牌与刷新令牌
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthRepo 认证数据访问接口
type AuthRepo interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	// CreateWithProfile 在一个事务中创建账号及其角色档案
	CreateWithProfile(ctx context.Context, account *Account, address string) error
	// ReplaceUnverified 覆盖未验证账号的注册信息并重置 OTP
	ReplaceUnverified(ctx context.Context, account *Account, address string) error
	SetOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	GetByOAuth(ctx context.Context, provider, oauthID string) (*Account, error)
	// CreateOAuthAccount 创建已验证的 OAuth 顾客账号
	CreateOAuthAccount(ctx context.Context, account *Account, provider, oauthID string) error
	IsNotFound(err error) bool
}

// PasswordHasher 密码哈希接口
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) bool
}

// TokenIssuer 签发带角色声明的令牌
type TokenIssuer interface {
	GenerateAccessToken(userID, email string, role auth.Role) (string, error)
	GenerateRefreshToken(userID, email string, role auth.Role) (string, error)
	VerifyToken(tokenString string) (*auth.JWTClaims, error)
}

// OTPSender 发送验证码邮件
type OTPSender interface {
	SendVerificationOTP(ctx context.Context, to, fullName, otp string) error
	SendPasswordResetOTP(ctx context.Context, to, fullName, otp string) error
}

// OAuthExchanger 第三方授权登录：生成授权页地址、用授权码换取账号信息
type OAuthExchanger interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// OAuthUserInfo 第三方账号信息
type OAuthUserInfo struct {
	ID    string
	Email string
	Name  string
}

// AuthUseCase 认证业务逻辑
type AuthUseCase struct {
	repo   AuthRepo
	hasher PasswordHasher
	tokens TokenIssuer
	sender OTPSender
	oauth  OAuthExchanger
	log    *logger.Logger
}

func NewAuthUseCase(repo AuthRepo, hasher PasswordHasher, tokens TokenIssuer, sender OTPSender, oauth OAuthExchanger, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		sender: sender,
		oauth:  oauth,
		log:    log,
	}
}

// Register 注册新账号并发送验证码。
// 已存在但未验证的账号允许重新注册：覆盖旧信息并重发验证码。
func (uc *AuthUseCase) Register(ctx context.Context, input *RegisterInput) (*Account, error) {
	if !input.Role.Valid() {
		return nil, apperrors.New(apperrors.ErrAuthInvalidRole)
	}

	passwordHash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	otp, err := auth.GenerateOTP(auth.OTPLength)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	expiresAt := time.Now().Add(auth.OTPTTL)

	existing, err := uc.repo.GetByEmail(ctx, input.Email)
	switch {
	case err == nil && existing.IsVerified:
		return nil, apperrors.New(apperrors.ErrAuthEmailExists)
	case err == nil:
		// 未验证账号：整体覆盖，视为一次新注册
		account := &Account{
			ID:           existing.ID,
			Username:     input.Username,
			FullName:     input.FullName,
			Email:        input.Email,
			Phone:        input.Phone,
			Role:         input.Role,
			PasswordHash: passwordHash,
			OTP:          &otp,
			OTPExpiresAt: &expiresAt,
		}
		if err := uc.repo.ReplaceUnverified(ctx, account, input.Address); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
		}
		uc.sendOTP(ctx, account, otp, false)
		return account, nil
	case uc.repo.IsNotFound(err):
		account := &Account{
			ID:           uuid.Must(uuid.NewV7()).String(),
			Username:     input.Username,
			FullName:     input.FullName,
			Email:        input.Email,
			Phone:        input.Phone,
			Role:         input.Role,
			PasswordHash: passwordHash,
			OTP:          &otp,
			OTPExpiresAt: &expiresAt,
		}
		if err := uc.repo.CreateWithProfile(ctx, account, input.Address); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
		}
		uc.sendOTP(ctx, account, otp, false)
		return account, nil
	default:
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
}

// VerifyRegistration 校验注册验证码并激活账号
func (uc *AuthUseCase) VerifyRegistration(ctx context.Context, email, otp string) (*Account, *TokenPair, error) {
	account, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		if uc.repo.IsNotFound(err) {
			return nil, nil, apperrors.New(apperrors.ErrAuthUserNotFound)
		}
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	if account.IsVerified {
		return nil, nil, apperrors.New(apperrors.ErrAuthAlreadyVerified)
	}
	if err := checkOTP(account, otp); err != nil {
		return nil, nil, err
	}

	if err := uc.repo.MarkVerified(ctx, account.ID); err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	account.IsVerified = true

	tokens, err := uc.issueTokens(account)
	if err != nil {
		return nil, nil, err
	}
	return account, tokens, nil
}

// Login 邮箱密码登录。角色不匹配与密码错误返回同一错误，避免探测。
func (uc *AuthUseCase) Login(ctx context.Context, email, password string, role auth.Role) (*Account, *TokenPair, error) {
	if !role.Valid() {
		return nil, nil, apperrors.New(apperrors.ErrAuthInvalidRole)
	}

	account, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		if uc.repo.IsNotFound(err) {
			return nil, nil, apperrors.New(apperrors.ErrAuthInvalidCredentials)
		}
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	if account.Role != role || !uc.hasher.Compare(account.PasswordHash, password) {
		return nil, nil, apperrors.New(apperrors.ErrAuthInvalidCredentials)
	}
	if !account.IsVerified {
		return nil, nil, apperrors.New(apperrors.ErrAuthNotVerified)
	}

	tokens, err := uc.issueTokens(account)
	if err != nil {
		return nil, nil, err
	}
	return account, tokens, nil
}

// RequestPasswordReset 发起密码重置，向已验证账号发送验证码
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		if uc.repo.IsNotFound(err) {
			return apperrors.New(apperrors.ErrAuthUserNotFound)
		}
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	otp, err := auth.GenerateOTP(auth.OTPLength)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	if err := uc.repo.SetOTP(ctx, account.ID, otp, time.Now().Add(auth.OTPTTL)); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	uc.sendOTP(ctx, account, otp, true)
	return nil
}

// ConfirmPasswordReset 校验验证码并设置新密码
func (uc *AuthUseCase) ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) error {
	account, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		if uc.repo.IsNotFound(err) {
			return apperrors.New(apperrors.ErrAuthUserNotFound)
		}
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	if err := checkOTP(account, otp); err != nil {
		return err
	}

	passwordHash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	if err := uc.repo.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return nil
}

// Refresh 用刷新令牌换取新令牌对
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := uc.tokens.VerifyToken(refreshToken)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrAuthInvalidToken)
	}

	// 账号可能已被删除或角色已变化，以数据库为准
	account, err := uc.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if uc.repo.IsNotFound(err) {
			return nil, apperrors.New(apperrors.ErrAuthInvalidToken)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	return uc.issueTokens(account)
}

// OAuthAuthURL 生成 Google 授权页跳转地址，state 用随机值防 CSRF
func (uc *AuthUseCase) OAuthAuthURL() string {
	return uc.oauth.AuthURL(uuid.NewString())
}

// OAuthLogin 用 Google 授权码登录，首次登录自动创建已验证的顾客账号
func (uc *AuthUseCase) OAuthLogin(ctx context.Context, code string) (*Account, *TokenPair, error) {
	info, err := uc.oauth.Exchange(ctx, code)
	if err != nil {
		uc.log.Warn("oauth code exchange failed", zap.Error(err))
		return nil, nil, apperrors.New(apperrors.ErrAuthInvalidCredentials, "oauth exchange failed")
	}

	account, err := uc.repo.GetByOAuth(ctx, "google", info.ID)
	if err == nil {
		tokens, err := uc.issueTokens(account)
		if err != nil {
			return nil, nil, err
		}
		return account, tokens, nil
	}
	if !uc.repo.IsNotFound(err) {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	// 同邮箱已有密码账号时直接绑定会绕过密码校验，拒绝之
	if existing, err := uc.repo.GetByEmail(ctx, info.Email); err == nil && existing != nil {
		return nil, nil, apperrors.New(apperrors.ErrAuthEmailExists, "email already registered with password login")
	} else if err != nil && !uc.repo.IsNotFound(err) {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	account = &Account{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Username:   info.Email,
		FullName:   info.Name,
		Email:      info.Email,
		Role:       auth.RoleCustomer,
		IsVerified: true,
	}
	if err := uc.repo.CreateOAuthAccount(ctx, account, "google", info.ID); err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	tokens, err := uc.issueTokens(account)
	if err != nil {
		return nil, nil, err
	}
	return account, tokens, nil
}

func (uc *AuthUseCase) issueTokens(account *Account) (*TokenPair, error) {
	accessToken, err := uc.tokens.GenerateAccessToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	refreshToken, err := uc.tokens.GenerateRefreshToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// sendOTP 发送验证码邮件。发送失败不回滚注册，记录日志由用户重试。
func (uc *AuthUseCase) sendOTP(ctx context.Context, account *Account, otp string, reset bool) {
	var err error
	if reset {
		err = uc.sender.SendPasswordResetOTP(ctx, account.Email, account.FullName, otp)
	} else {
		err = uc.sender.SendVerificationOTP(ctx, account.Email, account.FullName, otp)
	}
	if err != nil {
		uc.log.Error("failed to send otp email",
			zap.String("user_id", account.ID),
			zap.Bool("reset", reset),
			zap.Error(err))
	}
}

func checkOTP(account *Account, otp string) error {
	if account.OTP == nil || account.OTPExpiresAt == nil || *account.OTP != otp {
		return apperrors.New(apperrors.ErrAuthOTPIncorrect)
	}
	if time.Now().After(*account.OTPExpiresAt) {
		return apperrors.New(apperrors.ErrAuthOTPExpired)
	}
	return nil
}
