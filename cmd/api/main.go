package main

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/qr-review/api/internal/config"
	"github.com/sngm3741/qr-review/api/internal/server"
)

func main() {
	cfg := config.Load()

	var client *mongo.Client
	if cfg.StoreDriver == config.DriverMongo {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
		var err error
		client, err = mongo.Connect(ctx, clientOptions)
		if err != nil {
			cfg.ServerLog.Fatalf("MongoDB 接続に失敗しました: %v", err)
		}
	} else {
		cfg.ServerLog.Printf("メモリストアで起動します。データはプロセス終了時に失われます。")
	}

	app, err := server.New(cfg, client)
	if err != nil {
		cfg.ServerLog.Fatalf("サーバー初期化に失敗: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatalf("サーバー起動に失敗: %v", err)
	}
}
