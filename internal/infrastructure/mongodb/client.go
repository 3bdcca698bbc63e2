package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Config struct {
	URI        string
	Database   string
	Collection string
}

// Connect はクライアントを作るだけ。疎通確認（Ping）は呼び出し側でリトライ付きで行う。
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: connect: %w", err)
	}

	name := cfg.Collection
	if name == "" {
		name = DefaultCollection
	}
	return client, client.Database(cfg.Database).Collection(name), nil
}
