// Package auth はベアラートークンの発行と検証を提供する。
package auth

import "context"

// Identity は検証済みトークンから抽出した認証済みアイデンティティを表す。
type Identity struct {
	Email string
}

// TokenVerifier はベアラートークン検証のインターフェース。
// 自己発行JWT検証と外部IdP委譲検証（OIDC）を同一の契約で差し替え可能にする。
type TokenVerifier interface {
	// Verify はトークン文字列を検証し、抽出したアイデンティティを返す。
	// 署名不正・期限切れ・email claim欠落の場合はエラーを返す。
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}
