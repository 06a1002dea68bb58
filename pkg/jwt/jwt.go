package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret el secret de firma no puede estar vacío.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// Claims claims estándar más los de la aplicación. Role viaja en el token
// para que el RBAC del middleware no tenga que ir a la DB en cada request.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"` // "admin" | "bodeguero" | "vendedor"
}

// Generate firma un token HS256 con identidad, empresa y rol del usuario.
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	exp := now.Add(time.Duration(expMinutes) * time.Minute)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	})
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve (userID, companyID, role).
func Parse(secret, tokenString string) (userID, companyID, role string, err error) {
	if secret == "" {
		return "", "", "", ErrEmptySecret
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, hmacKeyFunc(secret))
	if err != nil {
		return "", "", "", err
	}
	if !token.Valid {
		return "", "", "", errors.New("jwt: token inválido")
	}
	return claims.UserID, claims.CompanyID, claims.Role, nil
}

// hmacKeyFunc entrega la llave sólo para tokens firmados con HMAC; cualquier
// otro algoritmo (incluido "none") se rechaza.
func hmacKeyFunc(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}
