package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/identity"
	"giveaway-rooms/internal/repository"
)

// AuthService 负责注册、登录和登出的业务逻辑。
// 凭证的签发与吊销委托给配置选定的 identity.Issuer 变体。
type AuthService struct {
	userRepo repository.UserRepository
	issuer   identity.Issuer
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(userRepo repository.UserRepository, issuer identity.Issuer) *AuthService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if issuer == nil {
		panic("identity.Issuer cannot be nil for AuthService")
	}
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

// Register 处理用户注册。用户名冲突返回 ErrRegistrationFailed。
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	logCtx := logrus.WithField("username", username)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrValidation
	}

	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	// 先查一次用户名，让冲突尽早失败；Save 的唯一约束兜底并发竞争
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		logCtx.Warn("Registration failed: username already taken")
		return nil, ErrRegistrationFailed
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error checking username availability")
		return nil, ErrInternalServer
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		Username: username,
		Password: hashedPassword,
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: username already exists")
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = "" // 清除密码哈希再返回
	return user, nil
}

// Login 处理用户登录。成功时恰好签发一个身份凭证。
// 用户不存在和密码错误对外不作区分，一律返回 ErrAuthenticationFailed。
func (s *AuthService) Login(ctx context.Context, username, password string) (*identity.Proof, *domain.User, error) {
	logCtx := logrus.WithField("username", username)

	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: error finding user")
		}
		return nil, nil, ErrAuthenticationFailed
	}
	if user == nil {
		logCtx.Warn("Login attempt failed: repository returned nil user without error")
		return nil, nil, ErrAuthenticationFailed
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return nil, nil, ErrAuthenticationFailed
	}

	proof, err := s.issuer.Issue(ctx, user)
	if err != nil {
		logCtx.WithError(err).Error("Failed to issue identity proof during login")
		return nil, nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	user.Password = ""
	return proof, user, nil
}

// Logout 吊销请求携带的凭证。
// 令牌变体返回 identity.ErrNotRevocable，由调用方决定如何呈现。
func (s *AuthService) Logout(ctx context.Context, r *http.Request) error {
	return s.issuer.Revoke(ctx, r)
}

// --- 私有辅助函数 ---

// hashPassword 使用 bcrypt 对密码进行哈希处理，每次调用生成独立的随机盐
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配。
// 格式损坏的哈希直接判负，绝不放行。
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
