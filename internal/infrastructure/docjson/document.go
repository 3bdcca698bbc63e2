// Package docjson は JSON ドキュメントとして Todo を保存するストア（MySQL / Redis）共通の変換。
package docjson

import (
	"encoding/json"
	"fmt"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
)

type document struct {
	ID        string `json:"_id"`
	TodoName  string `json:"todoName"`
	Completed bool   `json:"completed"`
}

func Marshal(t *domain_todo.Todo) ([]byte, error) {
	b, err := json.Marshal(document{
		ID:        t.ID,
		TodoName:  t.Name,
		Completed: t.Completed,
	})
	if err != nil {
		return nil, fmt.Errorf("docjson: marshal: %w", err)
	}
	return b, nil
}

func Unmarshal(b []byte) (*domain_todo.Todo, error) {
	var d document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("docjson: unmarshal: %w", err)
	}
	if d.ID == "" {
		return nil, fmt.Errorf("docjson: document without _id")
	}
	return &domain_todo.Todo{
		ID:        d.ID,
		Name:      d.TodoName,
		Completed: d.Completed,
	}, nil
}
