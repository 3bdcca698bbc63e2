package grpcadapter

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request-id"

	// HTTP 側の X-Request-Id と揃える（metadata key は小文字）
	RequestIDMetadataKey = "x-request-id"
)

// ----- request_id -----

func WithRequestID(ctx context.Context, rid string) context.Context {
	if rid == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(ctxKeyRequestID)
	s, ok := v.(string)
	return s, ok
}

// requestIDFromMetadata は incoming metadata から取り出し、無ければ採番する
func requestIDFromMetadata(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(RequestIDMetadataKey); len(vals) > 0 && vals[0] != "" {
			return vals[0]
		}
	}
	return uuid.NewString()
}

// NewRequestIDUnaryInterceptor は request_id を ctx に載せ、レスポンスヘッダにも返す
func NewRequestIDUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		rid := requestIDFromMetadata(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDMetadataKey, rid))
		return handler(WithRequestID(ctx, rid), req)
	}
}

// wrappedStream は ctx だけ差し替えた ServerStream
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *wrappedStream) Context() context.Context { return s.ctx }

func NewRequestIDStreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		rid := requestIDFromMetadata(ss.Context())
		_ = ss.SetHeader(metadata.Pairs(RequestIDMetadataKey, rid))
		return handler(srv, &wrappedStream{ServerStream: ss, ctx: WithRequestID(ss.Context(), rid)})
	}
}
