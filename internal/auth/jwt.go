package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims はアクセストークンに埋め込むクレームを表す。
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// JWTIssuer は共有シークレット（HMAC-SHA256）による自己発行トークンの発行器。
type JWTIssuer struct {
	secretKey string
	ttl       time.Duration
}

// NewJWTIssuer はJWTIssuerを生成する。
func NewJWTIssuer(secretKey string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secretKey: secretKey, ttl: ttl}
}

// Issue はemail claimと有効期限を持つ署名済みトークンを発行する。
func (i *JWTIssuer) Issue(email, name string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email: email,
		Name:  name,
	})

	tokenString, err := token.SignedString([]byte(i.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// JWTVerifier は共有シークレットによる自己発行トークンの検証器。
type JWTVerifier struct {
	secretKey string
}

// NewJWTVerifier はJWTVerifierを生成する。
func NewJWTVerifier(secretKey string) *JWTVerifier {
	return &JWTVerifier{secretKey: secretKey}
}

// Verify は署名と有効期限を検証し、email claimを抽出する。
func (v *JWTVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(v.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("token has no email claim")
	}

	return &Identity{Email: claims.Email}, nil
}

// compile-time interface check
var _ TokenVerifier = (*JWTVerifier)(nil)
