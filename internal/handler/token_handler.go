package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/smartdeals/internal/model"
)

// TokenIssuerInterface はトークン発行器のインターフェース。
// auth.JWTIssuerの部分集合として定義する。
type TokenIssuerInterface interface {
	// Issue はemail claimと有効期限を持つ署名済みトークンを発行する。
	Issue(email, name string) (string, error)
}

// TokenHandler はトークン発行のHTTPハンドラー。
type TokenHandler struct {
	issuer TokenIssuerInterface
}

// NewTokenHandler はTokenHandlerを生成する。
func NewTokenHandler(issuer TokenIssuerInterface) *TokenHandler {
	return &TokenHandler{issuer: issuer}
}

// tokenRequest はトークン発行リクエストのボディ。
type tokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// tokenResponse はトークン発行のレスポンス。
type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken はリクエストボディのemail claimから署名済みトークンを発行する。
// POST /getToken
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if req.Email == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("email"))
		return
	}

	token, err := h.issuer.Issue(req.Email, req.Name)
	if err != nil {
		slog.Error("failed to issue token", slog.String("error", err.Error()))
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
