package middleware

import "net/http"

// NewOwnerGuard はクエリパラメータemailとトークンの検証済みemailを比較する
// ミドルウェアを返す。不一致の場合は403を返す。
// クエリパラメータが未指定の場合は比較をスキップし、絞り込みなしの
// クエリとして後段に通す（リソースの所有者フィールドとは比較しない）。
// 認証ミドルウェアの後段に配置すること。
func NewOwnerGuard() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verifiedEmail, err := EmailFromContext(r.Context())
			if err != nil {
				WriteUnauthorized(w)
				return
			}

			queryEmail := r.URL.Query().Get("email")
			if queryEmail != "" && queryEmail != verifiedEmail {
				WriteForbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
