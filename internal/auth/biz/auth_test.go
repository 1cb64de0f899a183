package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Wassit-app/backend/internal/auth"
	apperrors "github.com/Wassit-app/backend/internal/pkg/errors"
	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("record not found")

type fakeAuthRepo struct {
	byEmail map[string]*Account
	byOAuth map[string]*Account
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		byEmail: make(map[string]*Account),
		byOAuth: make(map[string]*Account),
	}
}

func (f *fakeAuthRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	if a, ok := f.byEmail[email]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, errNotFound
}

func (f *fakeAuthRepo) GetByID(ctx context.Context, id string) (*Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeAuthRepo) CreateWithProfile(ctx context.Context, account *Account, address string) error {
	copied := *account
	f.byEmail[account.Email] = &copied
	return nil
}

func (f *fakeAuthRepo) ReplaceUnverified(ctx context.Context, account *Account, address string) error {
	copied := *account
	f.byEmail[account.Email] = &copied
	return nil
}

func (f *fakeAuthRepo) SetOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error {
	for _, a := range f.byEmail {
		if a.ID == userID {
			a.OTP = &otp
			a.OTPExpiresAt = &expiresAt
			return nil
		}
	}
	return errNotFound
}

func (f *fakeAuthRepo) MarkVerified(ctx context.Context, userID string) error {
	for _, a := range f.byEmail {
		if a.ID == userID {
			a.IsVerified = true
			a.OTP = nil
			a.OTPExpiresAt = nil
			return nil
		}
	}
	return errNotFound
}

func (f *fakeAuthRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	for _, a := range f.byEmail {
		if a.ID == userID {
			a.PasswordHash = passwordHash
			a.OTP = nil
			a.OTPExpiresAt = nil
			return nil
		}
	}
	return errNotFound
}

func (f *fakeAuthRepo) GetByOAuth(ctx context.Context, provider, oauthID string) (*Account, error) {
	if a, ok := f.byOAuth[provider+":"+oauthID]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, errNotFound
}

func (f *fakeAuthRepo) CreateOAuthAccount(ctx context.Context, account *Account, provider, oauthID string) error {
	copied := *account
	f.byEmail[account.Email] = &copied
	f.byOAuth[provider+":"+oauthID] = &copied
	return nil
}

func (f *fakeAuthRepo) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// fakeHasher 可逆明文哈希，仅供测试
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }
func (fakeHasher) Compare(hashed, password string) bool { return hashed == "hash:"+password }

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID, email string, role auth.Role) (string, error) {
	return "access:" + userID, nil
}

func (fakeTokens) GenerateRefreshToken(userID, email string, role auth.Role) (string, error) {
	return "refresh:" + userID, nil
}

func (fakeTokens) VerifyToken(tokenString string) (*auth.JWTClaims, error) {
	if len(tokenString) > 8 && tokenString[:8] == "refresh:" {
		return &auth.JWTClaims{UserID: tokenString[8:]}, nil
	}
	return nil, errors.New("invalid token")
}

type fakeSender struct {
	verifications []string
	resets        []string
	lastOTP       string
}

func (f *fakeSender) SendVerificationOTP(ctx context.Context, to, fullName, otp string) error {
	f.verifications = append(f.verifications, to)
	f.lastOTP = otp
	return nil
}

func (f *fakeSender) SendPasswordResetOTP(ctx context.Context, to, fullName, otp string) error {
	f.resets = append(f.resets, to)
	f.lastOTP = otp
	return nil
}

type fakeOAuth struct {
	info *OAuthUserInfo
	err  error
}

func (f *fakeOAuth) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (f *fakeOAuth) Exchange(ctx context.Context, code string) (*OAuthUserInfo, error) {
	return f.info, f.err
}

func newTestUseCase(t *testing.T) (*AuthUseCase, *fakeAuthRepo, *fakeSender) {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "console"})
	require.NoError(t, err)

	repo := newFakeAuthRepo()
	sender := &fakeSender{}
	uc := NewAuthUseCase(repo, fakeHasher{}, fakeTokens{}, sender, &fakeOAuth{}, log)
	return uc, repo, sender
}

func registerInput() *RegisterInput {
	return &RegisterInput{
		Username: "amina",
		FullName: "Amina B",
		Email:    "amina@example.com",
		Password: "secret123",
		Role:     auth.RoleCustomer,
		Address:  "Algiers",
	}
}

func TestRegisterNewAccount(t *testing.T) {
	uc, repo, sender := newTestUseCase(t)

	account, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.NotEmpty(t, account.ID)
	assert.False(t, account.IsVerified)
	require.NotNil(t, account.OTP)
	assert.Len(t, *account.OTP, auth.OTPLength)

	stored := repo.byEmail["amina@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, "hash:secret123", stored.PasswordHash)
	assert.Equal(t, []string{"amina@example.com"}, sender.verifications)
}

func TestRegisterVerifiedEmailConflicts(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	_, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	repo.byEmail["amina@example.com"].IsVerified = true

	_, err = uc.Register(context.Background(), registerInput())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAuthEmailExists, apperrors.ExtractCode(err))
}

func TestRegisterUnverifiedIsOverwritten(t *testing.T) {
	uc, repo, sender := newTestUseCase(t)
	first, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.Username = "amina2"
	input.Password = "other456"
	second, err := uc.Register(context.Background(), input)
	require.NoError(t, err)

	// 账号 ID 保留，资料与密码被覆盖
	assert.Equal(t, first.ID, second.ID)
	stored := repo.byEmail["amina@example.com"]
	assert.Equal(t, "amina2", stored.Username)
	assert.Equal(t, "hash:other456", stored.PasswordHash)
	assert.Len(t, sender.verifications, 2)
}

func TestVerifyRegistration(t *testing.T) {
	uc, _, sender := newTestUseCase(t)
	_, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	account, tokens, err := uc.VerifyRegistration(context.Background(), "amina@example.com", sender.lastOTP)
	require.NoError(t, err)
	assert.True(t, account.IsVerified)
	assert.Equal(t, "access:"+account.ID, tokens.AccessToken)
	assert.Equal(t, "refresh:"+account.ID, tokens.RefreshToken)
}

func TestVerifyRegistrationWrongOTP(t *testing.T) {
	uc, _, sender := newTestUseCase(t)
	_, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	wrong := "0000"
	if sender.lastOTP == wrong {
		wrong = "1111"
	}
	_, _, err = uc.VerifyRegistration(context.Background(), "amina@example.com", wrong)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAuthOTPIncorrect, apperrors.ExtractCode(err))
}

func TestVerifyRegistrationExpiredOTP(t *testing.T) {
	uc, repo, sender := newTestUseCase(t)
	_, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	repo.byEmail["amina@example.com"].OTPExpiresAt = &expired

	_, _, err = uc.VerifyRegistration(context.Background(), "amina@example.com", sender.lastOTP)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAuthOTPExpired, apperrors.ExtractCode(err))
}

func TestVerifyRegistrationAlreadyVerified(t *testing.T) {
	uc, repo, sender := newTestUseCase(t)
	_, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	repo.byEmail["amina@example.com"].IsVerified = true

	_, _, err = uc.VerifyRegistration(context.Background(), "amina@example.com", sender.lastOTP)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAuthAlreadyVerified, apperrors.ExtractCode(err))
}

func setupVerifiedAccount(t *testing.T, uc *AuthUseCase, repo *fakeAuthRepo) *Account {
	t.Helper()
	_, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	stored := repo.byEmail["amina@example.com"]
	stored.IsVerified = true
	return stored
}

func TestLogin(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	setupVerifiedAccount(t, uc, repo)

	account, tokens, err := uc.Login(context.Background(), "amina@example.com", "secret123", auth.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", account.Email)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	setupVerifiedAccount(t, uc, repo)

	_, _, err := uc.Login(context.Background(), "amina@example.com", "wrong", auth.RoleCustomer)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAuthInvalidCredentials, apperrors.ExtractCode(err))
}

func TestLoginRoleMismatch(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	setupVerifiedAccount(t, uc, repo)

	// 角色不匹配与密码错误不可区分
	_, _, err := uc.Login(context.Background(), "amina@example.com", "secret123", auth.RoleChef)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAuthInvalidCredentials, apperrors.ExtractCode(err))
}

func TestLoginUnverified(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	_, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, err = uc.Login(context.Background(), "amina@example.com", "secret123", auth.RoleCustomer)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAuthNotVerified, apperrors.ExtractCode(err))
}

func TestPasswordResetFlow(t *testing.T) {
	uc, repo, sender := newTestUseCase(t)
	setupVerifiedAccount(t, uc, repo)

	require.NoError(t, uc.RequestPasswordReset(context.Background(), "amina@example.com"))
	assert.Equal(t, []string{"amina@example.com"}, sender.resets)

	err := uc.ConfirmPasswordReset(context.Background(), "amina@example.com", sender.lastOTP, "newpass789")
	require.NoError(t, err)

	_, _, err = uc.Login(context.Background(), "amina@example.com", "newpass789", auth.RoleCustomer)
	require.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	account := setupVerifiedAccount(t, uc, repo)

	tokens, err := uc.Refresh(context.Background(), "refresh:"+account.ID)
	require.NoError(t, err)
	assert.Equal(t, "access:"+account.ID, tokens.AccessToken)

	_, err = uc.Refresh(context.Background(), "garbage")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAuthInvalidToken, apperrors.ExtractCode(err))
}

func TestOAuthLoginProvisionsCustomer(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	uc.oauth = &fakeOAuth{info: &OAuthUserInfo{ID: "g-1", Email: "g@example.com", Name: "G User"}}

	account, tokens, err := uc.OAuthLogin(context.Background(), "code")
	require.NoError(t, err)
	assert.True(t, account.IsVerified)
	assert.Equal(t, auth.RoleCustomer, account.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotNil(t, repo.byOAuth["google:g-1"])

	// 二次登录命中既有账号
	again, _, err := uc.OAuthLogin(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, account.ID, again.ID)
}

func TestOAuthLoginRejectsExistingPasswordAccount(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	setupVerifiedAccount(t, uc, repo)
	uc.oauth = &fakeOAuth{info: &OAuthUserInfo{ID: "g-2", Email: "amina@example.com", Name: "Amina"}}

	_, _, err := uc.OAuthLogin(context.Background(), "code")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAuthEmailExists, apperrors.ExtractCode(err))
}

func TestOAuthAuthURL(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	url := uc.OAuthAuthURL()
	assert.Contains(t, url, "https://accounts.example.com/authorize?state=")

	// state 每次随机，地址不可预测
	assert.NotEqual(t, url, uc.OAuthAuthURL())
}
