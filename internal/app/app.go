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

	"github.com/hitoshi/carbonreg/internal/action"
	"github.com/hitoshi/carbonreg/internal/auth"
	"github.com/hitoshi/carbonreg/internal/config"
	"github.com/hitoshi/carbonreg/internal/database"
	"github.com/hitoshi/carbonreg/internal/eligibility"
	"github.com/hitoshi/carbonreg/internal/geocode"
	"github.com/hitoshi/carbonreg/internal/handler"
	"github.com/hitoshi/carbonreg/internal/logger"
	"github.com/hitoshi/carbonreg/internal/metrics"
	"github.com/hitoshi/carbonreg/internal/middleware"
	"github.com/hitoshi/carbonreg/internal/repository"
	"github.com/hitoshi/carbonreg/internal/security"
	"github.com/hitoshi/carbonreg/internal/seed"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

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
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	sessionRepo := repository.NewPostgresSessionRepo(db)
	actionRepo := repository.NewPostgresActionRepo(db)
	projectRepo := repository.NewPostgresProjectRepo(db)
	resultRepo := repository.NewPostgresEligibilityResultRepo(db)

	// 3. IDトークン検証器の初期化
	// IDプロバイダーが未設定の場合はnilのまま起動し、認証が必要な
	// エンドポイントがリクエスト単位で設定エラーを返す（フェイルクローズド）。
	var verifier auth.TokenVerifier
	if cfg.IdentityConfigured() {
		verifier = auth.NewOIDCVerifier(auth.OIDCVerifierConfig{
			IssuerURL: cfg.OIDCIssuerURL,
			ClientID:  cfg.OIDCClientID,
		})
	} else {
		slog.Warn("identity provider is not configured; authenticated endpoints will fail closed")
	}

	authService := auth.NewService(verifier, sessionRepo, auth.ServiceConfig{
		SessionMaxAge: cfg.SessionMaxAge,
	})

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. ジオコーディングクライアントの初期化
	// 外部プロバイダーへのリクエストはSSRFガード付きHTTPクライアントを経由する。
	outboundGuard := security.NewOutboundGuard()
	var resolver geocode.Resolver
	if cfg.GeocodeConfigured() {
		if err := outboundGuard.ValidateEndpoint(cfg.GeocodeEndpoint); err != nil {
			return fmt.Errorf("invalid geocode endpoint: %w", err)
		}
		resolver = geocode.NewClient(
			outboundGuard.NewSafeClient(cfg.GeocodeTimeout),
			slog.Default(), cfg.GeocodeEndpoint, cfg.GoogleMapsAPIKey,
		)
	} else {
		slog.Warn("geocoding provider key is not configured; geocode requests will fail closed")
	}
	geocodeService := geocode.NewService(resolver, collector)

	// 6. ドメインサービスの初期化
	sanitizer := security.NewTextSanitizer()
	actionService := action.NewService(actionRepo, action.NewValidator(sanitizer))
	eligibilityService := eligibility.NewService(projectRepo, resultRepo)
	seedService := seed.NewService(actionRepo, projectRepo)

	// 7. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitMutation),
	)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		HealthChecker:     db,
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		AllowedOrigin:     cfg.BaseURL,
		TokenVerifier:     verifier,
		SessionFinder:     authService,
		RateLimiter:       rateLimiter,
		MetricsRecorder:   collector,
		MetricsHandler:    metrics.SetupMetricsRoute(registry),

		SessionService: authService,
		SessionConfig: handler.SessionHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},
		SessionCounter: collector,

		ActionService: actionService,
		ActionCounter: collector,

		GeocodeService: geocodeService,

		EligibilityService: eligibilityService,
		EvaluationCounter:  collector,

		SeedService: seedService,
		SeedKey:     cfg.SeedKey,
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

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
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

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
