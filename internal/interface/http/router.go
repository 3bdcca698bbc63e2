package httpadapter

import (
	"net/http"
	"time"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"github.com/hijjiri/todo-api/internal/telemetry"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterOptions struct {
	Logger         *zap.Logger
	Metrics        *telemetry.Metrics
	Pinger         domain_todo.Pinger
	RequestTimeout time.Duration
	AllowedOrigin  string
	RateRPS        float64
	RateBurst      int
	ServiceName    string
}

// NewRouter は API ルートと health を 1 つの http.Handler にまとめる
func NewRouter(todo *TodoHandler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	todo.Register(mux)

	health := NewHealthHandler(opts.Pinger)
	handle(mux, "GET /healthz", health.Liveness)
	handle(mux, "GET /readyz", health.Readiness)

	h := chain(mux,
		RequestID(),
		Metrics(opts.Metrics),
		Logging(logger),
		Recovery(logger),
		CORS(opts.AllowedOrigin),
		RateLimit(opts.RateRPS, opts.RateBurst),
		Timeout(opts.RequestTimeout),
	)

	name := opts.ServiceName
	if name == "" {
		name = "todo-api"
	}
	return otelhttp.NewHandler(h, name)
}
