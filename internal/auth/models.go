package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleAgent Role = "AGENT"
)

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleAdmin, RoleAgent:
		return true
	}
	return false
}

// User belongs to one organization; org_id in the token scopes every request
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrgID     uuid.UUID `json:"org_id" gorm:"type:uuid;not null;index"`
	FirstName string    `json:"first_name" gorm:"not null;size:100"`
	LastName  string    `json:"last_name" gorm:"not null;size:100"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex;size:255"`
	Password  string    `json:"-" gorm:"not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'AGENT'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// JWTClaims represents JWT token claims
type JWTClaims struct {
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (User) TableName() string {
	return "users"
}
