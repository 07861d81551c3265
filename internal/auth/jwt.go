package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	PurposeSession  = "session"
	PurposeRegister = "register"
)

var (
	jwtSecret []byte

	ErrWrongTokenPurpose = errors.New("token purpose mismatch")
)

type Claims struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func Init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET must be set")
	}
	jwtSecret = []byte(secret)
}

func sign(claims Claims, duration time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateJWT issues a session token for an authenticated user.
func GenerateJWT(userID, role string, duration time.Duration) (string, error) {
	return sign(Claims{UserID: userID, Role: role, Purpose: PurposeSession}, duration)
}

func ValidateJWT(tokenStr string) (*Claims, error) {
	claims, err := parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeSession {
		return nil, ErrWrongTokenPurpose
	}
	return claims, nil
}

// GenerateClaimToken issues the short-lived token that links registration step one
// (NIK verified) to step two (password set).
func GenerateClaimToken(userID string, duration time.Duration) (string, error) {
	return sign(Claims{UserID: userID, Purpose: PurposeRegister}, duration)
}

func ValidateClaimToken(tokenStr string) (*Claims, error) {
	claims, err := parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeRegister {
		return nil, ErrWrongTokenPurpose
	}
	return claims, nil
}
