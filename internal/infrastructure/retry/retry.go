// Package retry は起動時のストア疎通確認用のバックオフ付きリトライ。
// リクエスト経路では使わない（失敗はそのまま呼び出し元に返す）。
package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Policy は「何回・どのくらい待つか」をまとめた設定。
type Policy struct {
	MaxAttempts int           // 例: 20（合計20回試す）
	BaseBackoff time.Duration // 例: 100ms
	MaxBackoff  time.Duration // 例: 3s
}

// DefaultStartup は起動時の Ping 向け。コンテナ起動順のズレを吸収する程度。
var DefaultStartup = Policy{
	MaxAttempts: 20,
	BaseBackoff: 100 * time.Millisecond,
	MaxBackoff:  3 * time.Second,
}

// Do は、retryable なエラーのみをバックオフ付きで再実行する。
// retryable が nil なら IsTransient を使う。ctx の deadline/cancel で即中断する。
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error, retryable func(error) bool) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if policy.BaseBackoff <= 0 {
		policy.BaseBackoff = 10 * time.Millisecond
	}
	if policy.MaxBackoff <= 0 {
		policy.MaxBackoff = 200 * time.Millisecond
	}
	if retryable == nil {
		retryable = IsTransient
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) || attempt == policy.MaxAttempts {
			return err
		}

		if err := sleepWithContext(ctx, Backoff(policy.BaseBackoff, policy.MaxBackoff, attempt)); err != nil {
			return err
		}
	}

	return lastErr
}

// Pinger はストアの疎通確認（domain_todo.Pinger と同じ形）
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingWithRetry は起動時にストアが応答するまで待つ。
// 接続系（IsTransient）だけを再試行し、認証失敗などは即座に返す。
func PingWithRetry(ctx context.Context, p Pinger, logger *zap.Logger, policy Policy) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	attempt := 0
	return Do(ctx, policy, func(ctx context.Context) error {
		attempt++
		err := p.Ping(ctx)
		if err != nil {
			logger.Warn("failed to ping store",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", policy.MaxAttempts),
				zap.Bool("transient", IsTransient(err)),
				zap.Error(err),
			)
		}
		return err
	}, IsTransient)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Backoff は指数バックオフ（ジッタ無し）
// attempt: 1,2,3...
func Backoff(base, max time.Duration, attempt int) time.Duration {
	// base * 2^(attempt-1)
	b := base
	for i := 1; i < attempt; i++ {
		b *= 2
		if b >= max {
			return max
		}
	}
	if b > max {
		return max
	}
	return b
}

// IsTransient は “一時的に起きがちな” 接続/ネットワーク系だけ true。
func IsTransient(err error) bool {
	// ctx 系は retry しない（上位に返す）
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}

	// ドライバ毎のエラー型に依存しないための文字列判定
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return true
	case strings.Contains(msg, "connection reset"):
		return true
	case strings.Contains(msg, "broken pipe"):
		return true
	case strings.Contains(msg, "server selection"):
		return true
	case strings.Contains(msg, "no reachable servers"):
		return true
	case strings.Contains(msg, "no such host"):
		// コンテナ起動直後は DNS がまだ引けないことがある
		return true
	case strings.Contains(msg, "timeout"):
		return true
	default:
		return false
	}
}
