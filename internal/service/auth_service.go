package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/repository"
	pkgerrors "github.com/shiven424/hostel-system/pkg/errors"
	"github.com/shiven424/hostel-system/pkg/jwt"
	"github.com/shiven424/hostel-system/pkg/password"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserExists         = errors.New("用户已存在")
	ErrPasswordTooLong    = errors.New("密码长度超过 72 字节")
)

// TokenBlacklist 登出 Token 黑名单，由 Redis 客户端实现
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
}

type authService struct {
	repo      *repository.Repository
	hasher    password.HashVerifier
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例，blacklist 可为 nil
func NewAuthService(
	repo *repository.Repository,
	hasher password.HashVerifier,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		hasher:    hasher,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	// 1. 唯一性预检：用户名 / 邮箱 / BITS ID
	checks := []func(context.Context, string) (*model.User, error){
		s.repo.User.GetByUsername,
		s.repo.User.GetByEmail,
		s.repo.User.GetByBitsID,
	}
	values := []string{req.Name, req.Email, req.BitsID}
	for i, get := range checks {
		_, err := get(ctx, values[i])
		if err == nil {
			return nil, ErrUserExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("注册唯一性检查失败", zap.Error(err))
			return nil, err
		}
	}

	// 2. 哈希密码
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, ErrPasswordTooLong
		}
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	// 3. 写入，并发注册由唯一索引兜底
	user := &model.User{
		BitsID:        req.BitsID,
		Username:      req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		ContactNumber: req.ContactNumber,
		Role:          req.Role,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrUserExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户注册成功", zap.String("bits_id", user.BitsID), zap.String("role", user.Role))

	return &dto.RegisterResponse{
		ID:     user.UserID,
		BitsID: user.BitsID,
		Email:  user.Email,
	}, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码
	if err := s.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Access Token
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.BitsID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		User: dto.LoginUser{
			ID:     user.UserID,
			BitsID: user.BitsID,
			Email:  user.Email,
			Role:   user.Role,
		},
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
	}, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, claims.RemainingTTL(time.Now())); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("user_id", claims.UserID), zap.Error(err))
		return err
	}
	return nil
}
