package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User はユーザー情報を表すモデル
type User struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	FirstName string    `json:"firstname" gorm:"type:varchar(100);not null"`
	LastName  string    `json:"lastname" gorm:"type:varchar(100);not null"`
	Username  string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Role      string    `json:"role" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Roles form a closed set.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// PublicProfile is the sanitized projection of a user that is safe to
// return to clients. The type has no password field, so the hash cannot
// leak through serialization.
type PublicProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// Public builds the sanitized projection for the user.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Name:      u.FirstName + " " + u.LastName,
		Username:  u.Username,
		Role:      u.Role,
	}
}

// JWTClaims はJWTトークンのクレーム
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest はログインリクエスト
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest holds the registration form fields.
type RegisterRequest struct {
	FirstName string `json:"firstname" binding:"required"`
	LastName  string `json:"lastname" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

// AuthResponse is the shared success shape of login and register.
type AuthResponse struct {
	Token string        `json:"token"`
	User  PublicProfile `json:"user"`
}

// ProfileResponse pairs a sanitized user with their partitioned orders.
type ProfileResponse struct {
	Orders OrderBuckets  `json:"orders"`
	User   PublicProfile `json:"user"`
}
