package grpcadapter

import (
	"context"
	"time"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"

	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// StatusSetter は health.Server の SetServingStatus だけを切り出したもの
type StatusSetter interface {
	SetServingStatus(service string, status healthpb.HealthCheckResponse_ServingStatus)
}

// StoreHealthWatcher は定期的にストアへ Ping し、
// 結果を "" と serviceName の両方の serving status に反映する。
type StoreHealthWatcher struct {
	pinger   domain_todo.Pinger
	setter   StatusSetter
	service  string
	logger   *zap.Logger
	interval time.Duration
	timeout  time.Duration

	last healthpb.HealthCheckResponse_ServingStatus
}

func NewStoreHealthWatcher(p domain_todo.Pinger, s StatusSetter, serviceName string, logger *zap.Logger, interval time.Duration) *StoreHealthWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	timeout := 2 * time.Second
	if interval < timeout {
		timeout = interval
	}
	return &StoreHealthWatcher{
		pinger:   p,
		setter:   s,
		service:  serviceName,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
		last:     healthpb.HealthCheckResponse_UNKNOWN,
	}
}

// Run は ctx が終わるまでブロックする。終了時は NOT_SERVING に落とす
func (w *StoreHealthWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			w.set(healthpb.HealthCheckResponse_NOT_SERVING)
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check は 1 回だけ Ping して status を更新する
func (w *StoreHealthWatcher) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := w.pinger.Ping(pingCtx); err != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
		if w.last != st {
			w.logger.Warn("store became unavailable", zap.Error(err))
		}
	} else if w.last == healthpb.HealthCheckResponse_NOT_SERVING {
		w.logger.Info("store recovered")
	}

	w.set(st)
	return st
}

func (w *StoreHealthWatcher) set(st healthpb.HealthCheckResponse_ServingStatus) {
	w.last = st
	w.setter.SetServingStatus("", st)
	w.setter.SetServingStatus(w.service, st)
}
