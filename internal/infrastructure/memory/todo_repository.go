// internal/infrastructure/memory/todo_repository.go
package memory

import (
	"context"
	"sync"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"

	"github.com/google/uuid"
)

// TodoRepository はプロセス内 map のゲートウェイ。テストとローカル起動用。
type TodoRepository struct {
	mu    sync.Mutex
	order []string
	items map[string]*domain_todo.Todo
}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{
		items: make(map[string]*domain_todo.Todo),
	}
}

// Save は ID が空なら採番して挿入、あれば置き換え（upsert）
func (r *TodoRepository) Save(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := t.Clone()
	if stored.IsTransient() {
		stored.ID = uuid.NewString()
	}

	if _, exists := r.items[stored.ID]; !exists {
		r.order = append(r.order, stored.ID)
	}
	r.items[stored.ID] = stored

	return stored.Clone(), nil
}

func (r *TodoRepository) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return nil
	}
	delete(r.items, id)

	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain_todo.Todo, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok {
		return nil, false, nil
	}
	return t.Clone(), true, nil
}

// FindAll は挿入順で返す
func (r *TodoRepository) FindAll(ctx context.Context) ([]*domain_todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	todos := make([]*domain_todo.Todo, 0, len(r.order))
	for _, id := range r.order {
		todos = append(todos, r.items[id].Clone())
	}
	return todos, nil
}

func (r *TodoRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
