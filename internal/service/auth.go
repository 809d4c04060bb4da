package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidCredentials は認証失敗エラー
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountExists is returned when registering an already-taken username.
	ErrAccountExists = errors.New("account already exists")

	// ErrInvalidToken は無効なトークンエラー
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService issues and verifies identity tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.AuthResponse, error)
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	ValidateToken(tokenString string) (*model.User, error)
}

// authServiceImpl は認証サービスの実装
type authServiceImpl struct {
	users  UserService
	secret []byte
}

// NewAuthService creates the authentication service. The signing secret
// comes from the JWT_SECRET environment variable.
func NewAuthService(users UserService) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret" // fallback for local development
	}

	return &authServiceImpl{
		users:  users,
		secret: []byte(secret),
	}
}

// Login はユーザー認証とJWTトークン生成を行う
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*model.AuthResponse, error) {
	user, err := s.users.ValidatePassword(ctx, username, password)
	if err != nil {
		// Unknown username and wrong password collapse into the same
		// error so the response never reveals which one it was.
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.AuthResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}

// Register creates a new customer account and signs them in.
func (s *authServiceImpl) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if _, err := s.users.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, &CreateUserRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
		Role:      model.RoleCustomer,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.AuthResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}

// ValidateToken はJWTトークンを検証してユーザー情報を返す
func (s *authServiceImpl) ValidateToken(tokenString string) (*model.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	user := &model.User{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}

	return user, nil
}

// generateJWT はJWTトークンを生成
func (s *authServiceImpl) generateJWT(user *model.User) (string, error) {
	claims := &model.JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
