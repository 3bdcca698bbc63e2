package httpadapter

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"

	"go.uber.org/zap"
)

const BasePath = "/api/v1/todo"

type TodoHandler struct {
	uc     todo_usecase.Usecase
	logger *zap.Logger
}

func NewTodoHandler(uc todo_usecase.Usecase, logger *zap.Logger) *TodoHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoHandler{uc: uc, logger: logger}
}

// Register は 4 つのエンドポイントを mux に載せる
func (h *TodoHandler) Register(mux *http.ServeMux) {
	handle(mux, "POST "+BasePath+"/save", h.SaveTodo)
	handle(mux, "DELETE "+BasePath+"/delete/{id}", h.DeleteTodo)
	handle(mux, "GET "+BasePath+"/getall", h.ListTodos)
	handle(mux, "PUT "+BasePath+"/update/{id}", h.UpdateTodo)
}

// ---- wire 表現 ----

type saveTodoRequest struct {
	ID        *string `json:"id"`
	TodoName  *string `json:"todoName"`
	Completed *bool   `json:"completed"`
}

type todoResponse struct {
	ID        string `json:"id"`
	TodoName  string `json:"todoName"`
	Completed bool   `json:"completed"`
}

// --- Save (create / upsert) ---
func (h *TodoHandler) SaveTodo(w http.ResponseWriter, r *http.Request) {
	var req saveTodoRequest
	if err := decodeValidated(w, r, saveTodoValidator, &req); err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}

	saved, err := h.uc.Save(r.Context(), fromSaveRequest(req))
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoResponse(saved))
}

// --- Delete ---
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	// 存在しなくても 204
	w.WriteHeader(http.StatusNoContent)
}

// --- List ---
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.List(r.Context())
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}

	resp := make([]todoResponse, 0, len(list))
	for _, t := range list {
		resp = append(resp, toTodoResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Update (completed のみ) ---
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	raw, ok := r.URL.Query()["completed"]
	if !ok || len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "query parameter 'completed' is required")
		return
	}
	completed, err := parseBoolParam(raw[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "query parameter 'completed' must be a boolean")
		return
	}

	t, err := h.uc.UpdateCompletion(r.Context(), r.PathValue("id"), completed)
	if err != nil {
		h.writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoResponse(t))
}

// --- converter (wire <-> domain) ---

// completed 省略時は false
func fromSaveRequest(req saveTodoRequest) *domain_todo.Todo {
	t := &domain_todo.Todo{}
	if req.ID != nil {
		t.ID = strings.TrimSpace(*req.ID)
	}
	if req.TodoName != nil {
		t.Name = *req.TodoName
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	return t
}

func toTodoResponse(t *domain_todo.Todo) todoResponse {
	return todoResponse{
		ID:        t.ID,
		TodoName:  t.Name,
		Completed: t.Completed,
	}
}

// parseBoolParam は true/false の他に on/off, yes/no, 1/0 も受け付ける
func parseBoolParam(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1":
		return true, nil
	case "false", "off", "no", "0":
		return false, nil
	default:
		return false, errors.New("not a bool")
	}
}

// --- error mapper ---
func (h *TodoHandler) writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, todo_usecase.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid id")

	case errors.Is(err, todo_usecase.ErrNotFound):
		writeError(w, http.StatusNotFound, "todo not found")

	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request timeout")

	default:
		// Internal詳細はログ側にだけ残す
		rid, _ := RequestIDFromContext(r.Context())
		h.logger.Error("request failed",
			zap.String("request_id", rid),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
