package service_test // 测试包

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/identity"
	"giveaway-rooms/internal/repository"
	"giveaway-rooms/internal/repository/mocks"
	"giveaway-rooms/internal/service"
)

// stubIssuer 是测试用的凭证签发器，记录签发次数
type stubIssuer struct {
	proof     *identity.Proof
	issueErr  error
	revokeErr error
	issued    int
}

func (s *stubIssuer) Issue(ctx context.Context, user *domain.User) (*identity.Proof, error) {
	s.issued++
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	return s.proof, nil
}

func (s *stubIssuer) Resolve(ctx context.Context, r *http.Request) (*identity.Identity, error) {
	return nil, identity.ErrAnonymous
}

func (s *stubIssuer) Revoke(ctx context.Context, r *http.Request) error {
	return s.revokeErr
}

// --- 测试 Register 方法 ---

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange: 准备 Mock 对象, Service 实例, 和测试数据
	mockUserRepo := new(mocks.UserRepository)
	issuer := &stubIssuer{}
	authService := service.NewAuthService(mockUserRepo, issuer)

	ctx := context.Background()
	username := "newbie"
	password := "StrongPass123"

	// 设置 Mock 预期:
	// 1. 当 FindByUsername 被调用时，模拟用户不存在
	mockUserRepo.On("FindByUsername", mock.Anything, username).
		Return(nil, repository.ErrUserNotFound).
		Once()

	// 2. 当 Save 被调用时，模拟保存成功，并填充 ID/时间戳
	// 在 Run 回调里（仅在调用时执行一次）记录保存时的密码哈希并断言；
	// 不能放在 MatchedBy 里，因为 AssertExpectations 会在 Register
	// 清空密码后重新执行匹配器，导致对空串做 bcrypt 校验而误报失败
	mockUserRepo.On("Save", mock.Anything, mock.MatchedBy(func(user *domain.User) bool {
		return user.Username == username
	})).
		Run(func(args mock.Arguments) { // 模拟数据库填充字段
			userArg := args.Get(1).(*domain.User)
			// 验证密码已被哈希
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(userArg.Password), []byte(password)), "密码应被正确哈希")
			userArg.ID = 5
			userArg.CreatedAt = time.Now().Add(-time.Second)
			userArg.UpdatedAt = time.Now().Add(-time.Second)
		}).
		Return(nil).
		Once()

	// Act
	registeredUser, err := authService.Register(ctx, username, password)

	// Assert
	assert.NoError(t, err, "成功注册时不应有错误")
	require.NotNil(t, registeredUser, "成功注册时应返回用户对象")
	assert.Equal(t, uint(5), registeredUser.ID)
	assert.Equal(t, username, registeredUser.Username)
	assert.Empty(t, registeredUser.Password, "返回的用户密码应为空")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, &stubIssuer{})
	ctx := context.Background()
	username := "existingUser"

	// 设置 Mock 预期: FindByUsername 找到一个已存在的用户
	existingUser := &domain.User{ID: 10, Username: username}
	mockUserRepo.On("FindByUsername", mock.Anything, username).Return(existingUser, nil).Once()

	// Act
	_, err := authService.Register(ctx, username, "password")

	// Assert
	require.Error(t, err, "用户名已存在时应返回错误")
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed), "错误类型应为 ErrRegistrationFailed")

	mockUserRepo.AssertExpectations(t)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_SaveFails_DuplicateEntry(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, &stubIssuer{})
	ctx := context.Background()
	username := "anotherNewUser"

	// 设置 Mock 预期: 预查没找到，Save 时撞上唯一约束 (并发注册竞争)
	mockUserRepo.On("FindByUsername", mock.Anything, username).Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicateEntry).Once()

	// Act
	_, err := authService.Register(ctx, username, "password")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed), "保存冲突时应返回 ErrRegistrationFailed")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_BlankInput(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, &stubIssuer{})

	_, err := authService.Register(context.Background(), "   ", "password")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation))
	mockUserRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- 测试 Login 方法 ---

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	issuer := &stubIssuer{proof: &identity.Proof{Value: "opaque-handle", MaxAge: 3600}}
	authService := service.NewAuthService(mockUserRepo, issuer)
	ctx := context.Background()
	username := "testuser"
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Username: username, Password: string(hashedPassword)}

	mockUserRepo.On("FindByUsername", mock.Anything, username).Return(userInDb, nil).Once()

	// Act
	proof, user, err := authService.Login(ctx, username, password)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, proof)
	assert.Equal(t, "opaque-handle", proof.Value)
	require.NotNil(t, user)
	assert.Empty(t, user.Password, "返回的用户密码应被清除")
	assert.Equal(t, 1, issuer.issued, "每次成功登录应恰好签发一个凭证")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	issuer := &stubIssuer{proof: &identity.Proof{Value: "unused"}}
	authService := service.NewAuthService(mockUserRepo, issuer)
	ctx := context.Background()
	username := "testuser"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Username: username, Password: string(hashedPassword)}

	mockUserRepo.On("FindByUsername", mock.Anything, username).Return(userInDb, nil).Once()

	// Act
	proof, _, err := authService.Login(ctx, username, "wrong-password")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
	assert.Nil(t, proof)
	assert.Zero(t, issuer.issued, "密码错误时不应签发凭证")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, &stubIssuer{})
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound).Once()

	// Act
	_, _, err := authService.Login(ctx, "ghost", "whatever")

	// Assert: 用户不存在和密码错误对外不可区分
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))

	mockUserRepo.AssertExpectations(t)
}

// --- 测试 Logout 方法 ---

func TestAuthService_Logout_TokenModeNotRevocable(t *testing.T) {
	// Arrange: 令牌变体的吊销语义要原样透传给调用方
	mockUserRepo := new(mocks.UserRepository)
	issuer := &stubIssuer{revokeErr: identity.ErrNotRevocable}
	authService := service.NewAuthService(mockUserRepo, issuer)

	req, _ := http.NewRequest(http.MethodPost, "/api/auth/logout", nil)

	// Act
	err := authService.Logout(context.Background(), req)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, identity.ErrNotRevocable))
}
