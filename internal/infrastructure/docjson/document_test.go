package docjson

import (
	"strings"
	"testing"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
)

func TestMarshal_FieldNames(t *testing.T) {
	t.Parallel()

	b, err := Marshal(&domain_todo.Todo{ID: "1", Name: "buy milk", Completed: true})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	want := `{"_id":"1","todoName":"buy milk","completed":true}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	got, err := Unmarshal([]byte(`{"_id":"abc","todoName":"A","completed":false,"_class":"x"}`))
	if err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	want := domain_todo.Todo{ID: "abc", Name: "A"}
	if *got != want {
		t.Errorf("expected %#v, got %#v", want, got)
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`not json`, `{"todoName":"no id"}`} {
		_, err := Unmarshal([]byte(in))
		if err == nil {
			t.Errorf("expected error for %q", in)
			continue
		}
		if !strings.HasPrefix(err.Error(), "docjson:") {
			t.Errorf("unexpected error message: %v", err)
		}
	}
}
