// Package database はMongoDB接続の確立と解放を提供する。
package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect はMongoDBクライアントを生成して接続する。
// 接続はプロセス起動時に1回だけ確立し、シャットダウン時にDisconnectで解放する。
// Stable API v1を指定し、サーバー側の非互換変更から保護する。
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	return client, nil
}

// Pinger はヘルスチェック用にmongo.Clientをラップする。
type Pinger struct {
	client *mongo.Client
}

// NewPinger はPingerを生成する。
func NewPinger(client *mongo.Client) *Pinger {
	return &Pinger{client: client}
}

// Ping はプライマリノードへの到達性を確認する。
func (p *Pinger) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}
