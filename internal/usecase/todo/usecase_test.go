// internal/usecase/todo/usecase_test.go
package todo_usecase

import (
	"context"
	"errors"
	"testing"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"go.uber.org/zap"
)

// テスト用のモック Repository
type mockRepo struct {
	// 挙動を制御するためのフィールド
	saveFn     func(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error)
	deleteFn   func(ctx context.Context, id string) error
	findByIDFn func(ctx context.Context, id string) (*domain_todo.Todo, bool, error)
	findAllFn  func(ctx context.Context) ([]*domain_todo.Todo, error)

	saveCalls int
}

func (m *mockRepo) Save(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error) {
	m.saveCalls++
	if m.saveFn != nil {
		return m.saveFn(ctx, t)
	}
	return t, nil
}

func (m *mockRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*domain_todo.Todo, bool, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, false, nil
}

func (m *mockRepo) FindAll(ctx context.Context) ([]*domain_todo.Todo, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return []*domain_todo.Todo{}, nil
}

var errStore = errors.New("store unavailable")

func TestUsecase_Save_Success(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		saveFn: func(ctx context.Context, td *domain_todo.Todo) (*domain_todo.Todo, error) {
			// 疑似的にIDを付与する
			td.ID = "64b7f0c2a1b2c3d4e5f60718"
			return td, nil
		},
	}

	uc := New(repo, zap.NewNop())

	got, err := uc.Save(context.Background(), domain_todo.NewTodo("buy milk", false))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if got.ID == "" {
		t.Errorf("expected non-empty ID")
	}
	if got.Name != "buy milk" {
		t.Errorf("expected Name=%q, got %q", "buy milk", got.Name)
	}
	if got.Completed {
		t.Errorf("expected Completed=false, got true")
	}
}

func TestUsecase_Save_StoreError(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		saveFn: func(ctx context.Context, td *domain_todo.Todo) (*domain_todo.Todo, error) {
			return nil, errStore
		},
	}
	uc := New(repo, zap.NewNop())

	_, err := uc.Save(context.Background(), domain_todo.NewTodo("x", false))
	if !errors.Is(err, errStore) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestUsecase_List_Success(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		findAllFn: func(ctx context.Context) ([]*domain_todo.Todo, error) {
			return []*domain_todo.Todo{
				{ID: "1", Name: "A", Completed: false},
				{ID: "2", Name: "B", Completed: true},
			}, nil
		},
	}

	uc := New(repo, zap.NewNop())

	list, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(list))
	}
	if list[0].Name != "A" || list[1].Name != "B" {
		t.Errorf("unexpected names: %#v", list)
	}
}

func TestUsecase_List_NilBecomesEmpty(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		findAllFn: func(ctx context.Context) ([]*domain_todo.Todo, error) {
			return nil, nil
		},
	}
	uc := New(repo, nil)

	list, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", list)
	}
}

func TestUsecase_Delete_Success(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "1" {
				t.Errorf("expected id=1, got %s", id)
			}
			return nil
		},
	}

	uc := New(repo, zap.NewNop())

	if err := uc.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}

func TestUsecase_Delete_InvalidID(t *testing.T) {
	t.Parallel()

	uc := New(&mockRepo{}, zap.NewNop())

	err := uc.Delete(context.Background(), "")
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestUsecase_UpdateCompletion_Success(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain_todo.Todo, bool, error) {
			return &domain_todo.Todo{ID: id, Name: "A"}, true, nil
		},
		saveFn: func(ctx context.Context, td *domain_todo.Todo) (*domain_todo.Todo, error) {
			if td.ID != "3" {
				t.Errorf("expected id=3, got %s", td.ID)
			}
			return td, nil
		},
	}

	uc := New(repo, zap.NewNop())

	got, err := uc.UpdateCompletion(context.Background(), "3", true)
	if err != nil {
		t.Fatalf("UpdateCompletion returned error: %v", err)
	}

	if got.ID != "3" || got.Name != "A" || !got.Completed {
		t.Errorf("unexpected updated todo: %#v", got)
	}
}

func TestUsecase_UpdateCompletion_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{} // FindByID は常に absent
	uc := New(repo, zap.NewNop())

	_, err := uc.UpdateCompletion(context.Background(), "missing", true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.saveCalls != 0 {
		t.Errorf("expected no save on not-found, got %d calls", repo.saveCalls)
	}
}

func TestUsecase_UpdateCompletion_FindError(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain_todo.Todo, bool, error) {
			return nil, false, errStore
		},
	}
	uc := New(repo, zap.NewNop())

	_, err := uc.UpdateCompletion(context.Background(), "1", true)
	if !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("store failure must not look like not-found")
	}
}

func TestUsecase_UpdateCompletion_InvalidID(t *testing.T) {
	t.Parallel()

	uc := New(&mockRepo{}, zap.NewNop())

	if _, err := uc.UpdateCompletion(context.Background(), "", false); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}
