package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims que emite el proveedor de identidad. Este servicio solo consume
// {id, email, role, companyId, canViewAllCompanyProjects}.
type Claims struct {
	jwt.RegisteredClaims
	UserID                    string `json:"user_id"`
	Email                     string `json:"email"`
	CompanyID                 string `json:"company_id"`
	Role                      string `json:"role"` // "admin" | "company_user"
	CanViewAllCompanyProjects bool   `json:"can_view_all_company_projects"`
}

// Identity datos del usuario autenticado extraídos del token.
type Identity struct {
	UserID                    string
	Email                     string
	CompanyID                 string
	Role                      string
	CanViewAllCompanyProjects bool
}

// Generate firma un token HS256 con la identidad indicada.
// Lo usa el proveedor de identidad; aquí sirve para desarrollo y tests.
func Generate(secret, issuer string, id Identity, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:                    id.UserID,
		Email:                     id.Email,
		CompanyID:                 id.CompanyID,
		Role:                      id.Role,
		CanViewAllCompanyProjects: id.CanViewAllCompanyProjects,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	return Identity{
		UserID:                    userID,
		Email:                     claims.Email,
		CompanyID:                 claims.CompanyID,
		Role:                      claims.Role,
		CanViewAllCompanyProjects: claims.CanViewAllCompanyProjects,
	}, nil
}
