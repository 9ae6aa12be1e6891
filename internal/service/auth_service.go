package service

import (
	"context"
	"regexp"
	"time"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/config"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"
	"foodgram-go/pkg/utils"

	"go.uber.org/zap"
)

// TokenBlacklist 已注销 Token 的存储，为空时注销只在客户端生效
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthService struct {
	userRepo  *repository.UserRepository
	blacklist TokenBlacklist
}

func NewAuthService(userRepo *repository.UserRepository, blacklist TokenBlacklist) *AuthService {
	return &AuthService{userRepo: userRepo, blacklist: blacklist}
}

// usernamePattern 用户名允许的字符：Unicode 字母、数字以及 . @ + - _
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// Register 用户注册
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.UserInfo, error) {
	if !usernamePattern.MatchString(req.Username) {
		return nil, validationError("username", "用户名只能包含字母、数字和 . @ + - _")
	}

	if err := s.registrationConflict(req.Email, req.Username); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hashedPassword,
		UserRole:  model.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		if repository.IsUniqueViolation(err) {
			// 并发注册抢先写入，重新查询冲突字段
			if conflict := s.registrationConflict(req.Email, req.Username); conflict != nil {
				return nil, conflict
			}
			return nil, ErrAccountExists
		}
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

// registrationConflict 邮箱优先于用户名报告冲突，无冲突返回 nil
func (s *AuthService) registrationConflict(email, username string) error {
	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailExists
	}

	exists, err = s.userRepo.ExistsByUsername(username)
	if err != nil {
		return err
	}
	if exists {
		return ErrUsernameExists
	}
	return nil
}

// Login 邮箱 + 密码登录，返回 token 数据
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	expireSeconds := config.GetJWT().ExpireHours * 3600

	return &dto.TokenData{
		AuthToken: token,
		TokenType: "bearer",
		ExpiresIn: expireSeconds,
	}, nil
}

// Logout 注销 Token，黑名单保留到 Token 自然过期
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if s.blacklist == nil {
		logger.Warn("Token blacklist not configured, logout is client side only",
			zap.Int64("user_id", claims.UserID))
		return nil
	}

	ttl := claims.Remaining(time.Now())
	if ttl <= 0 || claims.ID == "" {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, ttl)
}

// IsRevoked 检查 Token 是否已注销
func (s *AuthService) IsRevoked(ctx context.Context, claims *utils.Claims) (bool, error) {
	if s.blacklist == nil || claims.ID == "" {
		return false, nil
	}
	return s.blacklist.IsRevoked(ctx, claims.ID)
}

// SetPassword 修改密码，需要校验当前密码
func (s *AuthService) SetPassword(userID int64, req *dto.SetPasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	if !utils.VerifyPassword(req.CurrentPassword, user.Password) {
		return ErrWrongPassword
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(userID, hashed)
}
