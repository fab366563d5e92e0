// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/smartdeals/internal/middleware"
	"github.com/hitoshi/smartdeals/internal/model"
	"github.com/hitoshi/smartdeals/internal/product"
)

// ProductServiceInterface は商品ハンドラーが必要とするサービスインターフェース。
type ProductServiceInterface interface {
	// Create は商品を作成して返す。
	Create(ctx context.Context, input product.CreateInput) (*model.Product, error)
	// List は商品一覧を返す。ownerEmailが空の場合は全件を返す。
	List(ctx context.Context, ownerEmail string) ([]model.Product, error)
	// Latest はcreated_at降順で最新の商品を最大6件返す。
	Latest(ctx context.Context) ([]model.Product, error)
	// Get は指定IDの商品を返す。見つからない場合はnilを返す。
	Get(ctx context.Context, id string) (*model.Product, error)
	// Update はnameとpriceのみを部分更新する。
	Update(ctx context.Context, id string, name *string, price *float64) (matched, modified int64, err error)
	// Delete は指定IDの商品を削除し、削除件数を返す。
	Delete(ctx context.Context, id string) (int64, error)
}

// ProductHandler は商品管理のHTTPハンドラー。
type ProductHandler struct {
	service ProductServiceInterface
}

// NewProductHandler はProductHandlerを生成する。
func NewProductHandler(service ProductServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// createProductRequest は商品作成リクエストのボディ。
// 定義外のフィールドは無視され、永続化されない。
type createProductRequest struct {
	OwnerEmail  string  `json:"owner_email"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// updateProductRequest は商品更新リクエストのボディ。
// nameとprice以外のフィールドはホワイトリスト外であり受け付けない。
type updateProductRequest struct {
	Name  *string  `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

// updateResultResponse は部分更新結果のレスポンス。
type updateResultResponse struct {
	MatchedCount  int64 `json:"matched_count"`
	ModifiedCount int64 `json:"modified_count"`
}

// deleteResultResponse は削除結果のレスポンス。
type deleteResultResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// ListProducts は商品一覧を取得する。
// GET /products?email=xxx
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ownerEmail := r.URL.Query().Get("email")

	products, err := h.service.List(r.Context(), ownerEmail)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// ListLatest は最新の商品一覧を取得する。
// GET /latest-products
func (h *ProductHandler) ListLatest(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Latest(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetProduct は商品詳細を取得する。
// GET /products/:id
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if p == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewProductNotFoundError(id))
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// CreateProduct は商品を作成する。
// POST /products（要認証）
// owner_emailが未指定の場合はトークンの検証済みemailを補完する。
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if req.OwnerEmail == "" {
		if email, err := middleware.EmailFromContext(r.Context()); err == nil {
			req.OwnerEmail = email
		}
	}

	p, err := h.service.Create(r.Context(), product.CreateInput{
		OwnerEmail:  req.OwnerEmail,
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct は商品のnameとpriceを部分更新する。
// PATCH /products/:id
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	// nameとpriceの両方がnilの場合はバリデーションエラー
	if req.Name == nil && req.Price == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidRequest,
			Message:  "nameまたはpriceのいずれかを指定してください。",
			Category: "validation",
			Action:   "更新するフィールドを指定してください。",
		})
		return
	}

	matched, modified, err := h.service.Update(r.Context(), id, req.Name, req.Price)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updateResultResponse{
		MatchedCount:  matched,
		ModifiedCount: modified,
	})
}

// DeleteProduct は商品を削除する。
// DELETE /products/:id
// 存在しないIDの場合も削除件数0の成功レスポンスを返す。
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResultResponse{DeletedCount: deleted})
}

// --- ヘルパー関数 ---

// apiErrorResponse は統一エラーフォーマットのレスポンスボディ。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidRequest, model.ErrCodeInvalidID,
		model.ErrCodeMissingField, model.ErrCodeInvalidPrice:
		return http.StatusBadRequest
	case model.ErrCodeProductNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
