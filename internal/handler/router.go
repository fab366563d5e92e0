package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/smartdeals/internal/auth"
	"github.com/hitoshi/smartdeals/internal/metrics"
	"github.com/hitoshi/smartdeals/internal/middleware"
)

// livenessMessage はGET /が返す稼働確認メッセージ。
const livenessMessage = "smart deals server is running"

// HealthChecker はヘルスチェックに必要なインターフェース。
// database.Pingerの部分集合として定義する。
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	Verifier          auth.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス
	MetricsRecorder middleware.HTTPMetricsRecorder
	MetricsGatherer prometheus.Gatherer

	// トークン発行
	TokenIssuer TokenIssuerInterface

	// リソース
	UserService    UserServiceInterface
	ProductService ProductServiceInterface
	BidService     BidServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → Recovery → SecurityHeaders → Logging → Metrics
//
// 認証が必要なルートにはさらに Auth → RateLimit が積まれ、
// GET /bids には所有者ガードが追加される。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	tokenHandler := NewTokenHandler(deps.TokenIssuer)
	userHandler := NewUserHandler(deps.UserService)
	productHandler := NewProductHandler(deps.ProductService)
	bidHandler := NewBidHandler(deps.BidService)

	// --- 認証不要のルート ---

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(livenessMessage))
	})

	r.Get("/health", newHealthHandler(deps.HealthChecker))

	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	r.Post("/getToken", tokenHandler.IssueToken)
	r.Post("/users", userHandler.Register)

	r.Get("/products", productHandler.ListProducts)
	r.Get("/latest-products", productHandler.ListLatest)
	r.Get("/products/{id}", productHandler.GetProduct)
	r.Patch("/products/{id}", productHandler.UpdateProduct)
	r.Delete("/products/{id}", productHandler.DeleteProduct)

	r.Post("/bids", bidHandler.CreateBid)
	r.Delete("/bids/{id}", bidHandler.DeleteBid)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.Verifier))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Post("/products", productHandler.CreateProduct)

		// GET /bids - 購入者絞り込みに所有者ガードを適用
		r.With(middleware.NewOwnerGuard()).Get("/bids", bidHandler.ListBids)

		// GET /products/bids/:productId - 商品ごとの入札一覧
		r.Get("/products/bids/{productId}", bidHandler.ListBidsForProduct)
	})

	return r
}

// newHealthHandler はストア到達性を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.Ping(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
