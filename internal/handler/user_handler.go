package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/smartdeals/internal/model"
	"github.com/hitoshi/smartdeals/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register はユーザーを登録する。同一emailが既に存在する場合は
	// AlreadyExists=trueの結果を返し、重複レコードは作成しない。
	Register(ctx context.Context, input user.RegisterInput) (*user.RegisterResult, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// registerUserRequest はユーザー登録リクエストのボディ。
type registerUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

// userExistsResponse は既存ユーザー検出時のレスポンス。
// 旧実装とのワイヤ互換のため固定メッセージを返す。
type userExistsResponse struct {
	Message string `json:"message"`
}

// Register はユーザーを登録する。
// POST /users
// 同一emailのユーザーが既に存在する場合は200でセンチネルメッセージを返す。
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	result, err := h.service.Register(r.Context(), user.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if result.AlreadyExists {
		writeJSON(w, http.StatusOK, userExistsResponse{Message: "User already exists"})
		return
	}

	writeJSON(w, http.StatusCreated, result.User)
}
