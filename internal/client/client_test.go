package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hijjiri/todo-api/internal/infrastructure/memory"
	httpadapter "github.com/hijjiri/todo-api/internal/interface/http"
	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	uc := todo_usecase.New(memory.NewTodoRepository(), zap.NewNop())
	router := httpadapter.NewRouter(httpadapter.NewTodoHandler(uc, zap.NewNop()), httpadapter.RouterOptions{})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return New(ts.URL+"/", WithHTTPClient(ts.Client()))
}

func TestClient_Lifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.Save(ctx, Todo{TodoName: "write report"})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if created.ID == "" || created.TodoName != "write report" || created.Completed {
		t.Fatalf("unexpected created todo: %+v", created)
	}

	updated, err := c.UpdateCompletion(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("UpdateCompletion error: %v", err)
	}
	if !updated.Completed {
		t.Errorf("expected completed=true, got %+v", updated)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 || list[0] != *updated {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	list, err = c.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %+v", list)
	}
}

func TestClient_UpdateMissingIsNotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.UpdateCompletion(context.Background(), "missing", true)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClient_APIErrorMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid payload: /todoName: expected string"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL).Save(context.Background(), Todo{TodoName: "x"})

	ae, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if ae.StatusCode != http.StatusBadRequest || ae.Message == "" {
		t.Errorf("unexpected api error: %+v", ae)
	}
	if IsNotFound(err) {
		t.Error("400 must not be reported as not found")
	}
}
