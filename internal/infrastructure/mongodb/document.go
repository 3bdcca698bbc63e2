package mongodb

import (
	"fmt"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// todoDocument はコレクション上の表現。
// _id は小文字 24 桁 hex なら ObjectID、それ以外は文字列のまま保存する。
type todoDocument struct {
	ID        interface{} `bson:"_id"`
	TodoName  string      `bson:"todoName"`
	Completed bool        `bson:"completed"`
}

func toDocument(t *domain_todo.Todo) todoDocument {
	return todoDocument{
		ID:        storeID(t.ID),
		TodoName:  t.Name,
		Completed: t.Completed,
	}
}

func fromDocument(d todoDocument) (*domain_todo.Todo, error) {
	var id string
	switch v := d.ID.(type) {
	case primitive.ObjectID:
		id = v.Hex()
	case string:
		id = v
	default:
		return nil, fmt.Errorf("mongo: unsupported _id type %T", d.ID)
	}

	return &domain_todo.Todo{
		ID:        id,
		Name:      d.TodoName,
		Completed: d.Completed,
	}, nil
}

// storeID は小文字 24 桁 hex のときだけ ObjectID にする。
// 大文字混じりは Hex() で戻すと別の文字列になるので raw string のまま。
func storeID(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil && oid.Hex() == id {
		return oid
	}
	return id
}

func idFilter(id string) bson.D {
	return bson.D{{Key: "_id", Value: storeID(id)}}
}
