package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// idTokenVerifier はgo-oidcのIDTokenVerifierの部分集合。
// テスト用に差し替え可能にする。
type idTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// OIDCVerifier は外部IdPが発行したIDトークンの検証器。
// 署名検証はIdPの公開鍵（ディスカバリ経由で取得）に委譲する。
type OIDCVerifier struct {
	verifier idTokenVerifier
}

// NewOIDCVerifier は指定issuerのディスカバリドキュメントを取得し、
// audienceを検証するOIDCVerifierを生成する。
// issuerへの到達に失敗した場合はエラーを返す。
func NewOIDCVerifier(ctx context.Context, issuer, audience string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: audience}),
	}, nil
}

// Verify はIDトークンをIdPの公開鍵で検証し、email claimを抽出する。
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to extract claims: %w", err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("ID token has no email claim")
	}

	return &Identity{Email: claims.Email}, nil
}

// compile-time interface check
var _ TokenVerifier = (*OIDCVerifier)(nil)
