// Package app はアプリケーションの初期化と起動を提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/smartdeals/internal/auth"
	"github.com/hitoshi/smartdeals/internal/bid"
	"github.com/hitoshi/smartdeals/internal/config"
	"github.com/hitoshi/smartdeals/internal/database"
	"github.com/hitoshi/smartdeals/internal/handler"
	"github.com/hitoshi/smartdeals/internal/logger"
	"github.com/hitoshi/smartdeals/internal/metrics"
	"github.com/hitoshi/smartdeals/internal/middleware"
	"github.com/hitoshi/smartdeals/internal/product"
	"github.com/hitoshi/smartdeals/internal/repository"
	"github.com/hitoshi/smartdeals/internal/user"
)

// startupTimeout は起動時のストア接続・インデックス作成に許容する時間。
const startupTimeout = 10 * time.Second

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルで再セットアップ
	logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("auth_backend", string(cfg.AuthBackend)),
	)

	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// ストア接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. ストア接続（起動時に1回確立し、シャットダウン時に解放する）
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	client, err := database.Connect(startupCtx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("failed to connect to store: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			slog.Error("failed to disconnect from store", slog.String("error", err.Error()))
		}
	}()

	pinger := database.NewPinger(client)
	if err := pinger.Ping(startupCtx); err != nil {
		return fmt.Errorf("failed to reach store: %w", err)
	}

	slog.Info("store connection established")

	db := client.Database(cfg.DatabaseName)

	if err := database.EnsureIndexes(startupCtx, db); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	// 2. リポジトリの初期化
	userRepo := repository.NewMongoUserRepo(db)
	productRepo := repository.NewMongoProductRepo(db)
	bidRepo := repository.NewMongoBidRepo(db)

	// 3. ドメインサービスの初期化
	userService := user.NewService(userRepo)
	productService := product.NewService(productRepo)
	bidService := bid.NewService(bidRepo)

	// 4. 認証バックエンドの初期化
	verifier, err := buildVerifier(startupCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build token verifier: %w", err)
	}
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// 5. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 6. レートリミッターの初期化
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral),
	)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		HealthChecker:     pinger,
		Verifier:          verifier,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,

		MetricsRecorder: collector,
		MetricsGatherer: registry,

		TokenIssuer: issuer,

		UserService:    userService,
		ProductService: productService,
		BidService:     bidService,
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// buildVerifier は設定されたバックエンドに応じたトークン検証器を生成する。
func buildVerifier(ctx context.Context, cfg *config.Config) (auth.TokenVerifier, error) {
	switch cfg.AuthBackend {
	case config.AuthBackendJWT:
		return auth.NewJWTVerifier(cfg.JWTSecret), nil
	case config.AuthBackendOIDC:
		return auth.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCAudience)
	default:
		return nil, fmt.Errorf("unsupported auth backend: %q", cfg.AuthBackend)
	}
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
