package mongodb

import (
	"context"
	"errors"
	"fmt"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DefaultCollection は Todo ドキュメントを置くコレクション名
const DefaultCollection = "todo"

type TodoRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

func NewTodoRepository(coll *mongo.Collection, logger *zap.Logger) *TodoRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoRepository{coll: coll, logger: logger}
}

// Save は ID が空なら ObjectID を採番して InsertOne、
// ID があれば ReplaceOne(upsert) で丸ごと置き換える
func (r *TodoRepository) Save(ctx context.Context, t *domain_todo.Todo) (*domain_todo.Todo, error) {
	saved := t.Clone()

	if saved.IsTransient() {
		saved.ID = primitive.NewObjectID().Hex()
		if _, err := r.coll.InsertOne(ctx, toDocument(saved)); err != nil {
			return nil, fmt.Errorf("mongo: insert todo: %w", err)
		}
		return saved, nil
	}

	opts := options.Replace().SetUpsert(true)
	res, err := r.coll.ReplaceOne(ctx, idFilter(saved.ID), toDocument(saved), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: replace todo: %w", err)
	}
	if res.UpsertedCount > 0 {
		r.logger.Debug("todo upserted with client id", zap.String("id", saved.ID))
	}
	return saved, nil
}

// DeleteByID は該当なしでもエラーにしない
func (r *TodoRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, idFilter(id)); err != nil {
		return fmt.Errorf("mongo: delete todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain_todo.Todo, bool, error) {
	var doc todoDocument
	err := r.coll.FindOne(ctx, idFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo: find todo: %w", err)
	}

	t, err := fromDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// FindAll はコレクションの全件。順序は natural order（実質挿入順）
func (r *TodoRepository) FindAll(ctx context.Context) ([]*domain_todo.Todo, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongo: find todos: %w", err)
	}
	defer cur.Close(ctx)

	todos := make([]*domain_todo.Todo, 0)
	for cur.Next(ctx) {
		var doc todoDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode todo: %w", err)
		}
		t, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterate todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}
