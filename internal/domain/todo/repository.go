package todo

import "context"

// Repository はドキュメントストア上の Todo コレクションへのゲートウェイ。
//
//   - Save: ID が空なら挿入（ストアが ID を採番）、あれば同じ ID のレコードを置き換える
//   - DeleteByID: 存在しない ID でもエラーにしない
//   - FindByID: 見つからない場合は found=false（エラーではない）
//   - FindAll: 全件。順序は保証しない
type Repository interface {
	Save(ctx context.Context, t *Todo) (*Todo, error)
	DeleteByID(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Todo, bool, error)
	FindAll(ctx context.Context) ([]*Todo, error)
}

// Pinger はストアの疎通確認。readyz / gRPC health で使う。
type Pinger interface {
	Ping(ctx context.Context) error
}
