package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/smartdeals/internal/bid"
	"github.com/hitoshi/smartdeals/internal/model"
)

// BidServiceInterface は入札ハンドラーが必要とするサービスインターフェース。
type BidServiceInterface interface {
	// Create は入札を作成して返す。
	Create(ctx context.Context, input bid.CreateInput) (*model.Bid, error)
	// ListByBuyer は入札一覧を返す。buyerEmailが空の場合は全件を返す。
	ListByBuyer(ctx context.Context, buyerEmail string) ([]model.Bid, error)
	// ListByProduct は指定商品への入札一覧をbid_price降順で返す。
	ListByProduct(ctx context.Context, productID string) ([]model.Bid, error)
	// Delete は指定IDの入札を削除し、削除件数を返す。
	Delete(ctx context.Context, id string) (int64, error)
}

// BidHandler は入札管理のHTTPハンドラー。
type BidHandler struct {
	service BidServiceInterface
}

// NewBidHandler はBidHandlerを生成する。
func NewBidHandler(service BidServiceInterface) *BidHandler {
	return &BidHandler{service: service}
}

// createBidRequest は入札作成リクエストのボディ。
type createBidRequest struct {
	ProductID  string  `json:"product_id"`
	BuyerEmail string  `json:"buyer_email"`
	BuyerName  string  `json:"buyer_name"`
	BidPrice   float64 `json:"bid_price"`
}

// ListBids は入札一覧を取得する。
// GET /bids?email=xxx（要認証・所有者ガード通過後）
// emailクエリが未指定の場合は絞り込みなしの全件を返す。
func (h *BidHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	buyerEmail := r.URL.Query().Get("email")

	bids, err := h.service.ListByBuyer(r.Context(), buyerEmail)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bids)
}

// ListBidsForProduct は指定商品への入札一覧を取得する。
// GET /products/bids/:productId（要認証）
func (h *BidHandler) ListBidsForProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	bids, err := h.service.ListByProduct(r.Context(), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bids)
}

// CreateBid は入札を作成する。
// POST /bids
func (h *BidHandler) CreateBid(w http.ResponseWriter, r *http.Request) {
	var req createBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	b, err := h.service.Create(r.Context(), bid.CreateInput{
		ProductID:  req.ProductID,
		BuyerEmail: req.BuyerEmail,
		BuyerName:  req.BuyerName,
		BidPrice:   req.BidPrice,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// DeleteBid は入札を削除する。
// DELETE /bids/:id
// 存在しないIDの場合も削除件数0の成功レスポンスを返す。
func (h *BidHandler) DeleteBid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResultResponse{DeletedCount: deleted})
}
