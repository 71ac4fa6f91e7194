package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	autherrors "github.com/irisida/leave-management/internal/auth/errors"
	"github.com/irisida/leave-management/internal/employee"
	employeeerrors "github.com/irisida/leave-management/internal/employee/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	GetMe(ctx context.Context, employeeID string) (AuthResponse, error)
}

type service struct {
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{employees: employees, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	emp, err := s.employees.FindByEmail(ctx, email)
	if err != nil {
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.Password), []byte(password)); err != nil {
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	if !emp.IsActive {
		return TokenResponse{}, autherrors.ErrAccountInactive
	}

	access, err := s.generateToken(emp.ID.String(), emp.Role, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}
	refresh, err := s.generateToken(emp.ID.String(), emp.Role, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	s.logger.Info("login success", zap.String("employee_id", emp.ID.String()))

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Employee:     mapToAuthResponse(*emp),
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return TokenResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenResponse{}, autherrors.ErrInvalidRefreshToken
	}
	employeeID, _ := claims["employee_id"].(string)
	if employeeID == "" {
		return TokenResponse{}, autherrors.ErrInvalidRefreshToken
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return TokenResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if !emp.IsActive {
		return TokenResponse{}, autherrors.ErrAccountInactive
	}

	access, err := s.generateToken(emp.ID.String(), emp.Role, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}
	refresh, err := s.generateToken(emp.ID.String(), emp.Role, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Employee:     mapToAuthResponse(*emp),
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	emp := &employee.Employee{
		FullName: req.FullName,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hash),
		Role:     req.Role,
		IsActive: true,
	}

	if err := s.employees.Create(ctx, emp); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
			return AuthResponse{}, employeeerrors.ErrEmailTaken
		}
		s.logger.Error("register persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("employee registered",
		zap.String("employee_id", emp.ID.String()),
		zap.String("role", emp.Role),
	)

	return mapToAuthResponse(*emp), nil
}

func (s *service) GetMe(ctx context.Context, employeeID string) (AuthResponse, error) {
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return AuthResponse{}, err
	}
	return mapToAuthResponse(*emp), nil
}

func (s *service) generateToken(employeeID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"employee_id": employeeID,
		"role":        role,
		"exp":         time.Now().Add(ttl).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(emp employee.Employee) AuthResponse {
	return AuthResponse{
		EmployeeID: emp.ID.String(),
		FullName:   emp.FullName,
		Email:      emp.Email,
		Role:       emp.Role,
	}
}
