package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/basicauth/internal/metrics"
	"github.com/hitoshi/basicauth/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionStore  middleware.SessionStore
	SessionConfig middleware.SessionConfig
	CSRFConfig    middleware.CSRFConfig
	RateLimiter   *middleware.RateLimiter
	Logger        *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	Renderer    *Renderer

	// 運用
	HealthChecker  HealthChecker
	StatusRecorder middleware.StatusRecorder // nilの場合は記録しない
	Gatherer       prometheus.Gatherer       // nilの場合は/metricsを公開しない
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → StatusMetrics → Session → Logging → CSRF → RateLimit(POSTのみ)
//
// /health と /metrics はセッションを発行しないようSession以降のチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewStatusMetricsMiddleware(deps.StatusRecorder))
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.Renderer)

	// --- 運用エンドポイント ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- セッションを持つページ ---
	// ミドルウェアスタック: Session → Logging → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionStore, deps.SessionConfig))
		r.Use(middleware.NewLoggingMiddleware(logger))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		r.Get("/", authHandler.Index)

		r.Get("/signup", authHandler.SignupForm)
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/signup", authHandler.Signup)

		r.Get("/login", authHandler.LoginForm)
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/login", authHandler.Login)

		r.Get("/userProfile", authHandler.UserProfile)
	})

	return r
}
