// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/smartdeals/internal/auth"
)

const bearerPrefix = "Bearer "

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// emailContextKey はリクエストコンテキストに検証済みemailを格納するためのキー。
var emailContextKey = contextKey("verified_email")

// NewAuthMiddleware はAuthorizationヘッダーからベアラートークンを取り出し、
// verifierで検証するミドルウェアを返す。
// 検証済みemailをリクエストコンテキストに注入する。
// ヘッダー欠落・形式不正・検証失敗のリクエストには401を返す。
func NewAuthMiddleware(verifier auth.TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Authorizationヘッダーからトークンを取得
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				WriteUnauthorized(w)
				return
			}
			rawToken := strings.TrimPrefix(header, bearerPrefix)
			if rawToken == "" {
				WriteUnauthorized(w)
				return
			}

			// 2. トークンを検証
			identity, err := verifier.Verify(r.Context(), rawToken)
			if err != nil {
				slog.Warn("token verification failed",
					slog.String("error", err.Error()),
				)
				WriteUnauthorized(w)
				return
			}

			// 3. 検証済みemailをコンテキストに注入
			ctx := ContextWithEmail(r.Context(), identity.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailFromContext はリクエストコンテキストから検証済みemailを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func EmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(emailContextKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("verified email not found in context")
	}
	return email, nil
}

// ContextWithEmail はコンテキストに検証済みemailを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailContextKey, email)
}
