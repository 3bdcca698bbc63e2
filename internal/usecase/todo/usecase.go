package todo_usecase

import (
	"context"
	"errors"
	"fmt"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"go.uber.org/zap"
)

// ===== エラー定数（Handler側からも使う） =====

var (
	ErrInvalidID = errors.New("invalid id")
	ErrNotFound  = errors.New("todo not found")
)

// ===== 外部に公開する Usecase インターフェース =====

type Usecase interface {
	Save(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain_todo.Todo, error)
	UpdateCompletion(ctx context.Context, id string, completed bool) (*domain_todo.Todo, error)
}

// ===== 実装 =====

type usecase struct {
	repo   domain_todo.Repository
	logger *zap.Logger
}

func New(repo domain_todo.Repository, logger *zap.Logger) Usecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &usecase{repo: repo, logger: logger}
}

// Save ユースケース（新規作成 / upsert）
func (u *usecase) Save(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error) {
	if t == nil {
		t = domain_todo.NewTodo("", false)
	}

	saved, err := u.repo.Save(ctx, t)
	if err != nil {
		u.logger.Error("failed to save todo", zap.String("id", t.ID), zap.Error(err))
		return nil, fmt.Errorf("save todo: %w", err)
	}
	return saved, nil
}

// Delete ユースケース。存在しない ID でも成功扱い。
func (u *usecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}

	if err := u.repo.DeleteByID(ctx, id); err != nil {
		u.logger.Error("failed to delete todo", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// List ユースケース
func (u *usecase) List(ctx context.Context) ([]*domain_todo.Todo, error) {
	list, err := u.repo.FindAll(ctx)
	if err != nil {
		u.logger.Error("failed to list todos", zap.Error(err))
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if list == nil {
		list = []*domain_todo.Todo{}
	}
	return list, nil
}

// UpdateCompletion は完了フラグだけを更新する。
// 見つからない場合は ErrNotFound を返し、何も書き込まない。
func (u *usecase) UpdateCompletion(ctx context.Context, id string, completed bool) (*domain_todo.Todo, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	t, found, err := u.repo.FindByID(ctx, id)
	if err != nil {
		u.logger.Error("failed to find todo", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("find todo: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	t.SetCompleted(completed)

	saved, err := u.repo.Save(ctx, t)
	if err != nil {
		u.logger.Error("failed to update todo", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return saved, nil
}
