package grpcadapter

import (
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// DefaultServiceName は SERVICE_NAME 未設定時に health で使う名前
const DefaultServiceName = "todo-api"

// NewOpsServer は health / reflection だけを載せた運用向け gRPC サーバを組み立てる。
// serviceName は health の service 名（SERVICE_NAME）。
// 返した health.Server を StoreHealthWatcher に渡して状態を切り替える。
func NewOpsServer(logger *zap.Logger, serviceName string, timeout time.Duration) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	unaryInterceptors := []grpc.UnaryServerInterceptor{
		NewRequestIDUnaryInterceptor(),
		NewRecoveryUnaryInterceptor(logger),
		NewTimeoutUnaryInterceptor(logger, timeout),
		NewLoggingUnaryInterceptor(logger),
	}

	streamInterceptors := []grpc.StreamServerInterceptor{
		NewRequestIDStreamInterceptor(),
		NewRecoveryStreamInterceptor(logger),
		NewLoggingStreamInterceptor(logger),
	}

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(unaryInterceptors...),
		grpc.ChainStreamInterceptor(streamInterceptors...),
	)

	// ---- Health & Reflection ----
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	reflection.Register(srv)

	// 起動直後はストア未確認
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return srv, healthSrv
}
