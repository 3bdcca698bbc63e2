package httpadapter

import "context"

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request-id"
	ctxKeyRoute     ctxKey = "route"

	RequestIDHeader = "X-Request-Id"
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

// ----- route -----

// routeInfo は外側の middleware（metrics / logging）が
// mux でマッチしたパターンを後から読むための入れ物。
type routeInfo struct {
	pattern string
}

func withRouteInfo(ctx context.Context) (context.Context, *routeInfo) {
	ri := &routeInfo{}
	return context.WithValue(ctx, ctxKeyRoute, ri), ri
}

// ensureRouteInfo は既にあればそれを使う（metrics と logging で共有）
func ensureRouteInfo(ctx context.Context) (context.Context, *routeInfo) {
	if ri, ok := routeInfoFromContext(ctx); ok {
		return ctx, ri
	}
	return withRouteInfo(ctx)
}

func routeInfoFromContext(ctx context.Context) (*routeInfo, bool) {
	ri, ok := ctx.Value(ctxKeyRoute).(*routeInfo)
	return ri, ok
}

func (ri *routeInfo) label() string {
	if ri == nil || ri.pattern == "" {
		return "unmatched"
	}
	return ri.pattern
}
