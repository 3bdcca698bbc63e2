package redis

import (
	"context"
	"errors"
	"fmt"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"github.com/hijjiri/todo-api/internal/infrastructure/docjson"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultPrefix = "todo"

// TodoRepository は Redis を KV のドキュメントストアとして使う。
//   - <prefix>:doc:<id> に JSON ドキュメント
//   - <prefix>:index (sorted set) に挿入順のインデックス
//   - <prefix>:seq は挿入順スコアのカウンタ
type TodoRepository struct {
	rdb    goredis.Cmdable
	prefix string
}

type Option func(*TodoRepository)

func WithPrefix(prefix string) Option {
	return func(r *TodoRepository) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

func NewTodoRepository(rdb goredis.Cmdable, opts ...Option) *TodoRepository {
	r := &TodoRepository{rdb: rdb, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TodoRepository) docKey(id string) string { return r.prefix + ":doc:" + id }
func (r *TodoRepository) indexKey() string        { return r.prefix + ":index" }
func (r *TodoRepository) seqKey() string          { return r.prefix + ":seq" }

// Save はドキュメントを SET し、初回だけインデックスに載せる（ZADD NX）
func (r *TodoRepository) Save(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error) {
	saved := t.Clone()
	if saved.IsTransient() {
		saved.ID = uuid.NewString()
	}

	doc, err := docjson.Marshal(saved)
	if err != nil {
		return nil, err
	}

	seq, err := r.rdb.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: next seq: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, r.docKey(saved.ID), doc, 0)
		pipe.ZAddNX(ctx, r.indexKey(), goredis.Z{Score: float64(seq), Member: saved.ID})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis: save todo: %w", err)
	}
	return saved, nil
}

// DeleteByID は存在しなくてもエラーにしない（DEL / ZREM は 0 件でも成功）
func (r *TodoRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, r.docKey(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: delete todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain_todo.Todo, bool, error) {
	b, err := r.rdb.Get(ctx, r.docKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get todo: %w", err)
	}

	t, err := docjson.Unmarshal(b)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// FindAll はインデックス順に MGET する。インデックスだけ残ったキーは読み飛ばす
func (r *TodoRepository) FindAll(ctx context.Context) ([]*domain_todo.Todo, error) {
	ids, err := r.rdb.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: read index: %w", err)
	}

	todos := make([]*domain_todo.Todo, 0, len(ids))
	if len(ids) == 0 {
		return todos, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(id)
	}

	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: mget todos: %w", err)
	}

	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		t, err := docjson.Unmarshal([]byte(s))
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, nil
}

func (r *TodoRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
