package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"github.com/hijjiri/todo-api/internal/infrastructure/docjson"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrIDTooLong は id が主キーの幅を超えるとき（切り詰めて別レコードと衝突させない）
var ErrIDTooLong = errors.New("mysql: id exceeds 255 bytes")

// MySQL の JSON カラムをドキュメントストアとして使う。
// 1 行 = 1 ドキュメント（id が主キー）。
// id は VARBINARY でバイト比較（_ci 照合だと "abc" と "ABC" が同じキーになる）。
const (
	maxIDBytes = 255

	createTableSQL = `CREATE TABLE IF NOT EXISTS todo_documents (
	id VARBINARY(255) NOT NULL PRIMARY KEY,
	doc JSON NOT NULL,
	created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	upsertSQL   = "INSERT INTO todo_documents (id, doc) VALUES (?, ?) ON DUPLICATE KEY UPDATE doc = VALUES(doc)"
	deleteSQL   = "DELETE FROM todo_documents WHERE id = ?"
	findByIDSQL = "SELECT doc FROM todo_documents WHERE id = ?"
	findAllSQL  = "SELECT doc FROM todo_documents ORDER BY created_at, id"
)

type TodoRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewTodoRepository(db *sql.DB, logger *zap.Logger) *TodoRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoRepository{db: db, logger: logger}
}

// EnsureSchema は起動時に一度だけ呼ぶ（マイグレーションの代わりの最小限）
func (r *TodoRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("mysql: create table: %w", err)
	}
	return nil
}

// Save は ID が空なら UUID を採番し、INSERT ... ON DUPLICATE KEY UPDATE で upsert する
func (r *TodoRepository) Save(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error) {
	saved := t.Clone()
	if saved.IsTransient() {
		saved.ID = uuid.NewString()
	}
	if len(saved.ID) > maxIDBytes {
		return nil, ErrIDTooLong
	}

	doc, err := docjson.Marshal(saved)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, upsertSQL, saved.ID, doc); err != nil {
		return nil, fmt.Errorf("mysql: upsert todo: %w", err)
	}
	return saved, nil
}

// DeleteByID は削除件数 0 でもエラーにしない
func (r *TodoRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteSQL, id)
	if err != nil {
		return fmt.Errorf("mysql: delete todo: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		r.logger.Debug("delete matched no rows", zap.String("id", id))
	}
	return nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain_todo.Todo, bool, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, findByIDSQL, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mysql: find todo: %w", err)
	}

	t, err := docjson.Unmarshal(doc)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// FindAll は DB から全件取得し、挿入順で返す
func (r *TodoRepository) FindAll(ctx context.Context) ([]*domain_todo.Todo, error) {
	rows, err := r.db.QueryContext(ctx, findAllSQL)
	if err != nil {
		return nil, fmt.Errorf("mysql: find todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*domain_todo.Todo, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("mysql: scan todo: %w", err)
		}
		t, err := docjson.Unmarshal(doc)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: iterate todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
