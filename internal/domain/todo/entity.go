package todo

// Todo は Todo コレクションのルートエンティティ。
// ID は永続化層が初回 Save 時に採番する。空なら未保存（transient）。
type Todo struct {
	ID        string
	Name      string
	Completed bool
}

// ---- ファクトリ ----

// NewTodo は「新規作成用」のコンストラクタ。
// completed を省略したい呼び出し側は false を渡す（既定値は false）。
func NewTodo(name string, completed bool) *Todo {
	return &Todo{
		Name:      name,
		Completed: completed,
	}
}

// IsTransient は、まだストアに保存されていない（ID 未採番）かどうか。
func (t *Todo) IsTransient() bool {
	return t.ID == ""
}

// SetCompleted は完了フラグの更新。更新経路はこれだけ。
func (t *Todo) SetCompleted(completed bool) {
	t.Completed = completed
}

// Clone はストア実装が内部状態を呼び出し側と共有しないためのコピー。
func (t *Todo) Clone() *Todo {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
