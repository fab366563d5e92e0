package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/smartdeals/internal/bid"
	"github.com/hitoshi/smartdeals/internal/model"
)

// mockBidService はテスト用の入札サービスモック。
type mockBidService struct {
	createFn        func(ctx context.Context, input bid.CreateInput) (*model.Bid, error)
	listByBuyerFn   func(ctx context.Context, buyerEmail string) ([]model.Bid, error)
	listByProductFn func(ctx context.Context, productID string) ([]model.Bid, error)
	deleteFn        func(ctx context.Context, id string) (int64, error)
}

func (m *mockBidService) Create(ctx context.Context, input bid.CreateInput) (*model.Bid, error) {
	return m.createFn(ctx, input)
}

func (m *mockBidService) ListByBuyer(ctx context.Context, buyerEmail string) ([]model.Bid, error) {
	return m.listByBuyerFn(ctx, buyerEmail)
}

func (m *mockBidService) ListByProduct(ctx context.Context, productID string) ([]model.Bid, error) {
	return m.listByProductFn(ctx, productID)
}

func (m *mockBidService) Delete(ctx context.Context, id string) (int64, error) {
	return m.deleteFn(ctx, id)
}

func newBidTestRouter(h *BidHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/bids", h.ListBids)
	r.Get("/products/bids/{productId}", h.ListBidsForProduct)
	r.Post("/bids", h.CreateBid)
	r.Delete("/bids/{id}", h.DeleteBid)
	return r
}

func TestBidHandler_ListBids_PassesEmailFilter(t *testing.T) {
	var gotEmail string
	service := &mockBidService{
		listByBuyerFn: func(ctx context.Context, buyerEmail string) ([]model.Bid, error) {
			gotEmail = buyerEmail
			return []model.Bid{{BuyerEmail: buyerEmail, BidPrice: 150}}, nil
		},
	}
	router := newBidTestRouter(NewBidHandler(service))

	req := httptest.NewRequest(http.MethodGet, "/bids?email=buyer@example.com", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotEmail != "buyer@example.com" {
		t.Errorf("buyerEmail = %q, want %q", gotEmail, "buyer@example.com")
	}
}

func TestBidHandler_ListBidsForProduct_PassesProductID(t *testing.T) {
	productID := primitive.NewObjectID()
	var gotProductID string
	service := &mockBidService{
		listByProductFn: func(ctx context.Context, id string) ([]model.Bid, error) {
			gotProductID = id
			return []model.Bid{
				{ProductID: productID, BidPrice: 200},
				{ProductID: productID, BidPrice: 150},
			}, nil
		},
	}
	router := newBidTestRouter(NewBidHandler(service))

	req := httptest.NewRequest(http.MethodGet, "/products/bids/"+productID.Hex(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotProductID != productID.Hex() {
		t.Errorf("productID = %q, want %q", gotProductID, productID.Hex())
	}
}

func TestBidHandler_ListBidsForProduct_MalformedID_Returns400(t *testing.T) {
	service := &mockBidService{
		listByProductFn: func(ctx context.Context, id string) ([]model.Bid, error) {
			return nil, model.NewInvalidIDError(id)
		},
	}
	router := newBidTestRouter(NewBidHandler(service))

	req := httptest.NewRequest(http.MethodGet, "/products/bids/not-a-hex-id", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestBidHandler_CreateBid_Returns201(t *testing.T) {
	productID := primitive.NewObjectID()
	service := &mockBidService{
		createFn: func(ctx context.Context, input bid.CreateInput) (*model.Bid, error) {
			if input.ProductID != productID.Hex() {
				t.Errorf("ProductID = %q, want %q", input.ProductID, productID.Hex())
			}
			if input.BidPrice != 150 {
				t.Errorf("BidPrice = %v, want %v", input.BidPrice, 150.0)
			}
			return &model.Bid{
				ID:         primitive.NewObjectID(),
				ProductID:  productID,
				BuyerEmail: input.BuyerEmail,
				BidPrice:   input.BidPrice,
			}, nil
		},
	}
	router := newBidTestRouter(NewBidHandler(service))

	body := `{"product_id":"` + productID.Hex() + `","buyer_email":"buyer@example.com","buyer_name":"Test Buyer","bid_price":150}`
	req := httptest.NewRequest(http.MethodPost, "/bids", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestBidHandler_CreateBid_InvalidBody_Returns400(t *testing.T) {
	service := &mockBidService{
		createFn: func(ctx context.Context, input bid.CreateInput) (*model.Bid, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	router := newBidTestRouter(NewBidHandler(service))

	req := httptest.NewRequest(http.MethodPost, "/bids", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestBidHandler_DeleteBid_Nonexistent_ReturnsZeroCount(t *testing.T) {
	service := &mockBidService{
		deleteFn: func(ctx context.Context, id string) (int64, error) {
			return 0, nil
		},
	}
	router := newBidTestRouter(NewBidHandler(service))

	req := httptest.NewRequest(http.MethodDelete, "/bids/"+primitive.NewObjectID().Hex(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp deleteResultResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.DeletedCount != 0 {
		t.Errorf("DeletedCount = %d, want %d", resp.DeletedCount, 0)
	}
}
