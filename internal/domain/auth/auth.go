package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAuditor  = "auditor"
	RoleWorksite = "worksite"
)

// Actor is the authenticated caller. The auditor operates on any worksite;
// a worksite user is scoped to exactly one.
type Actor struct {
	Role         string
	WorksiteID   int64
	WorksiteName string
}

func (a Actor) IsAuditor() bool {
	return a.Role == RoleAuditor
}

// LogName is the identifier written to the audit log.
func (a Actor) LogName() string {
	if a.IsAuditor() {
		return "admin"
	}
	return RoleWorksite + ":" + a.WorksiteName
}

type Claims struct {
	Role         string `json:"role"`
	WorksiteID   int64  `json:"wid,omitempty"`
	WorksiteName string `json:"wname,omitempty"`
	jwt.RegisteredClaims
}

func HashCode(code string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckCode(hash, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
}

func GenerateToken(secret string, actor Actor, ttl time.Duration) (string, error) {
	claims := Claims{
		Role:         actor.Role,
		WorksiteID:   actor.WorksiteID,
		WorksiteName: actor.WorksiteName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
