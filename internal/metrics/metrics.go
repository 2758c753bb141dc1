// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 登録結果のラベル値
const (
	SignupCreated        = "created"
	SignupMissingFields  = "missing_fields"
	SignupPasswordPolicy = "password_policy"
	SignupDuplicate      = "duplicate"
	SignupInvalid        = "invalid"
	SignupError          = "error"
)

// ログイン結果のラベル値
const (
	LoginSuccess           = "success"
	LoginMissingFields     = "missing_fields"
	LoginNotRegistered     = "not_registered"
	LoginIncorrectPassword = "incorrect_password"
	LoginError             = "error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 認証サービスやミドルウェアから利用する。
type MetricsCollector interface {
	RecordSignup(result string)
	RecordLogin(result string)
	RecordPasswordHash(duration time.Duration)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signups      *prometheus.CounterVec
	logins       *prometheus.CounterVec
	passwordHash prometheus.Histogram
	httpStatus   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "basicauth_signup_total",
			Help: "結果別のユーザー登録試行数",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "basicauth_login_total",
			Help: "結果別のログイン試行数",
		}, []string{"result"}),
		passwordHash: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "basicauth_password_hash_seconds",
			Help:    "パスワードハッシュ計算の所要時間（秒）",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "basicauth_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.signups,
		c.logins,
		c.passwordHash,
		c.httpStatus,
	)

	return c
}

// RecordSignup は登録試行の結果を記録する。
func (c *Collector) RecordSignup(result string) {
	c.signups.WithLabelValues(result).Inc()
}

// RecordLogin はログイン試行の結果を記録する。
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordPasswordHash はパスワードハッシュ計算の所要時間を記録する。
func (c *Collector) RecordPasswordHash(duration time.Duration) {
	c.passwordHash.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Nop は何も記録しないMetricsCollector。テストやメトリクス無効時に使う。
type Nop struct{}

func (Nop) RecordSignup(string)              {}
func (Nop) RecordLogin(string)               {}
func (Nop) RecordPasswordHash(time.Duration) {}
func (Nop) RecordHTTPStatus(int)             {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// compile-time interface check
var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)
