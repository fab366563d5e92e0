package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/smartdeals/internal/model"
	"github.com/hitoshi/smartdeals/internal/user"
)

// mockUserService はテスト用のユーザーサービスモック。
type mockUserService struct {
	registerFn func(ctx context.Context, input user.RegisterInput) (*user.RegisterResult, error)
}

func (m *mockUserService) Register(ctx context.Context, input user.RegisterInput) (*user.RegisterResult, error) {
	return m.registerFn(ctx, input)
}

func TestUserHandler_Register_NewUser_Returns201(t *testing.T) {
	service := &mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*user.RegisterResult, error) {
			if input.Email != "buyer@example.com" {
				t.Errorf("Email = %q, want %q", input.Email, "buyer@example.com")
			}
			return &user.RegisterResult{
				User: &model.User{
					ID:    primitive.NewObjectID(),
					Email: input.Email,
					Name:  input.Name,
				},
			}, nil
		},
	}
	handler := NewUserHandler(service)

	body := `{"email":"buyer@example.com","name":"Test Buyer","photo_url":"https://example.com/p.png"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var created model.User
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if created.Email != "buyer@example.com" {
		t.Errorf("Email = %q, want %q", created.Email, "buyer@example.com")
	}
}

func TestUserHandler_Register_ExistingUser_ReturnsSentinelMessage(t *testing.T) {
	service := &mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*user.RegisterResult, error) {
			return &user.RegisterResult{AlreadyExists: true}, nil
		},
	}
	handler := NewUserHandler(service)

	body := `{"email":"buyer@example.com","name":"Test Buyer"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	// 旧実装互換のセンチネルメッセージ
	if resp["message"] != "User already exists" {
		t.Errorf("message = %q, want %q", resp["message"], "User already exists")
	}
}

func TestUserHandler_Register_InvalidBody_Returns400(t *testing.T) {
	service := &mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*user.RegisterResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUserHandler_Register_MissingEmail_Returns400(t *testing.T) {
	service := &mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*user.RegisterResult, error) {
			return nil, model.NewMissingFieldError("email")
		},
	}
	handler := NewUserHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"No Email"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUserHandler_Register_ServiceError_Returns500(t *testing.T) {
	service := &mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*user.RegisterResult, error) {
			return nil, errors.New("store unavailable")
		},
	}
	handler := NewUserHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"email":"buyer@example.com"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
