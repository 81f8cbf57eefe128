package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/carbonreg/internal/auth"
	"github.com/hitoshi/carbonreg/internal/middleware"
)

// HealthChecker はDBの死活確認インターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker // nil許容
	Logger            *slog.Logger
	CORSAllowedOrigin string
	AllowedOrigin     string // Cookieを使う状態変更エンドポイントのOrigin検証に使用
	TokenVerifier     auth.TokenVerifier
	SessionFinder     middleware.SessionFinder
	RateLimiter       *middleware.RateLimiter
	MetricsRecorder   middleware.HTTPMetricsRecorder // nil許容
	MetricsHandler    http.Handler                   // nil許容

	// セッション
	SessionService SessionServiceInterface
	SessionConfig  SessionHandlerConfig
	SessionCounter SessionCounter

	// アクション記録
	ActionService ActionServiceInterface
	ActionCounter ActionCounter

	// ジオコーディング
	GeocodeService GeocodeServiceInterface

	// 適格性評価
	EligibilityService EligibilityServiceInterface
	EvaluationCounter  EvaluationCounter

	// シード
	SeedService SeedServiceInterface
	SeedKey     string
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Recovery → (Metrics)
//
// APIルートはさらにBearerAuth → RateLimit(General)を通過する。
// セッションエンドポイントはCookieを使うため、BearerAuthの代わりにOrigin検証を通す。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	sessionHandler := NewSessionHandler(deps.SessionService, deps.SessionConfig, deps.SessionCounter)
	actionHandler := NewActionHandler(deps.ActionService, deps.ActionCounter)
	geocodeHandler := NewGeocodeHandler(deps.GeocodeService)
	eligibilityHandler := NewEligibilityHandler(deps.EligibilityService, deps.EvaluationCounter)
	seedHandler := NewSeedHandler(deps.SeedService, deps.SeedKey)
	pageHandler := NewPageHandler()

	// --- ページ（セッションCookieによる遷移ガード付き） ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRouteGuardMiddleware(deps.SessionFinder))

		r.Get("/", pageHandler.Home)
		r.Get("/signin", pageHandler.SignIn)
		r.Get("/profile", pageHandler.Profile)

		for path := range staticPages {
			r.Get(path, pageHandler.Static)
		}
	})

	// --- 認証不要のルート ---

	// ヘルスチェック
	r.Get("/health", newHealthHandler(deps.HealthChecker))

	// Prometheusスクレイプ
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// アクション種別定義（フォーム描画用）
	r.Get("/api/action-types", actionHandler.ListActionTypes)

	// ジオコーディング（キー未設定時はサービス層が設定エラーを返す）
	r.Post("/api/geocode", geocodeHandler.Geocode)

	// セッション管理（Cookieを使うためOrigin検証を通す）
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewOriginCheckMiddleware(deps.AllowedOrigin))

		r.Post("/api/session", sessionHandler.CreateSession)
		r.Delete("/api/session", sessionHandler.DestroySession)
	})

	// デモデータ投入（共有シークレットで保護された内部エンドポイント）
	r.Post("/api/internal/seed", seedHandler.Seed)

	// --- Bearer認証が必要なルート ---
	// ミドルウェアスタック: BearerAuth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewBearerAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// アクション記録
		r.Route("/api/actions", func(r chi.Router) {
			r.Get("/", actionHandler.ListActions)
			// 作成・更新・削除には変更操作専用レート制限を追加
			r.With(deps.RateLimiter.MutationMiddleware()).Post("/", actionHandler.CreateAction)

			r.Route("/{id}", func(r chi.Router) {
				r.With(deps.RateLimiter.MutationMiddleware()).Put("/", actionHandler.UpdateAction)
				r.With(deps.RateLimiter.MutationMiddleware()).Delete("/", actionHandler.DeleteAction)
			})
		})

		// 適格性評価
		r.Post("/api/eligibility/evaluate", eligibilityHandler.Evaluate)
	})

	return r
}

// newHealthHandler は死活監視用のエンドポイントを返す。
// checkerが設定されている場合はDBへの到達性も確認する。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
