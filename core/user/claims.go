package user

import (
	"errors"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	NowFunc = time.Now // mockable

	ErrInvalidToken = errors.New("invalid token")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username     string   `json:"username,omitempty"`
	IsStudent    bool     `json:"is_student,omitempty"`
	IsProfessor  bool     `json:"is_professor,omitempty"`
	IsUniAdmin   bool     `json:"is_uni_admin,omitempty"`
	IsRoot       bool     `json:"is_root,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	UniversityID int      `json:"university_id,omitempty"`
}

// DecodeClaims parses a bearer token WITHOUT verifying its signature.
// The client holds no signing secret; verification is the backend's job.
// The claims are only used to know who we are and when the token lapses.
func DecodeClaims(token string) (*Claims, error) {
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Expired reports whether the token's ExpiresAt has passed.
// Tokens without an expiry are treated as live.
func (c *Claims) Expired() bool {
	if c.ExpiresAt == 0 {
		return false
	}
	return NowFunc().Unix() >= c.ExpiresAt
}

// UserID returns the Subject claim as an int, 0 when absent or malformed.
func (c *Claims) UserID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}
