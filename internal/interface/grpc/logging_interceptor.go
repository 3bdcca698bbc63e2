package grpcadapter

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func rpcFields(ctx context.Context, method string, start time.Time, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
		zap.String("code", status.Code(err).String()),
	}
	if rid, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, zap.String("request_id", rid))
	}
	return fields
}

// NewLoggingUnaryInterceptor logs unary RPCs with method, duration, code and request_id(あれば).
func NewLoggingUnaryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		fields := rpcFields(ctx, info.FullMethod, start, err)
		if err != nil {
			logger.Error("gRPC unary request", append(fields, zap.Error(err))...)
		} else {
			// health check は頻繁なので debug に落とす
			logger.Debug("gRPC unary request", fields...)
		}

		return resp, err
	}
}

// NewLoggingStreamInterceptor は Watch などの stream RPC の終了をログに出す
func NewLoggingStreamInterceptor(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()

		err := handler(srv, ss)

		fields := rpcFields(ss.Context(), info.FullMethod, start, err)
		if err != nil {
			logger.Error("gRPC stream request", append(fields, zap.Error(err))...)
		} else {
			logger.Info("gRPC stream request", fields...)
		}

		return err
	}
}
