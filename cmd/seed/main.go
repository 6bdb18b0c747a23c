package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/qr-review/api/internal/domain"
	mongodoc "github.com/sngm3741/qr-review/api/internal/infrastructure/mongo"
	"github.com/sngm3741/qr-review/api/internal/qrcode"
)

// seedEnv reads the same variables as the API, minus the ones only the server needs.
type seedEnv struct {
	MongoURI          string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase     string `env:"MONGO_DB" envDefault:"qr-review"`
	ProfileCollection string `env:"PROFILE_COLLECTION" envDefault:"profiles"`
	CounterCollection string `env:"COUNTER_COLLECTION" envDefault:"stats"`
	PublicOrigin      string `env:"PUBLIC_ORIGIN" envDefault:"http://localhost:8080"`
}

type seedOptions struct {
	ownerID         string
	name            string
	category        string
	reviewURL       string
	description     string
	scans           int
	dropCollections bool
}

func main() {
	opts := parseFlags()

	cfg, err := env.ParseAs[seedEnv]()
	if err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	patch, err := opts.profilePatch()
	if err != nil {
		log.Fatalf("入力値が不正です: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDatabase)

	if opts.dropCollections {
		for _, name := range []string{cfg.ProfileCollection, cfg.CounterCollection} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				log.Fatalf("コレクション %s の削除に失敗しました: %v", name, err)
			}
		}
		log.Printf("既存コレクションを削除しました")
	}

	profiles := mongodoc.NewProfileRepository(db, cfg.ProfileCollection)
	profile, err := profiles.Save(ctx, opts.ownerID, patch)
	if err != nil {
		log.Fatalf("プロフィールの投入に失敗しました: %v", err)
	}

	counters := mongodoc.NewCounterRepository(db, cfg.CounterCollection)
	for i := 0; i < opts.scans; i++ {
		if err := counters.RecordVisit(ctx, opts.ownerID); err != nil {
			log.Fatalf("訪問数の投入に失敗しました: %v", err)
		}
	}

	urls, err := qrcode.NewURLBuilder(cfg.PublicOrigin)
	if err != nil {
		log.Fatalf("PUBLIC_ORIGIN が不正です: %v", err)
	}
	publicURL, err := urls.BuildPublicURL(opts.ownerID)
	if err != nil {
		log.Fatalf("公開 URL の生成に失敗しました: %v", err)
	}

	log.Printf("Seed 完了: owner=%s name=%q scans=%d", profile.OwnerID, profile.DisplayName(""), opts.scans)
	log.Printf("公開 URL: %s", publicURL)
	log.Printf("Mongo: %s / %s", cfg.MongoURI, cfg.MongoDatabase)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.ownerID, "owner", "demo-owner", "投入するオーナー ID")
	flag.StringVar(&opts.name, "name", "Demo Cafe", "ビジネス名")
	flag.StringVar(&opts.category, "category", "cafe", "カテゴリ (別名も可)")
	flag.StringVar(&opts.reviewURL, "review-url", "", "外部レビュー URL (空なら未設定)")
	flag.StringVar(&opts.description, "description", "", "紹介文")
	flag.IntVar(&opts.scans, "scans", 0, "事前に記録する訪問数")
	flag.BoolVar(&opts.dropCollections, "drop", false, "既存コレクションを削除してから投入する")
	flag.Parse()

	if err := domain.ValidateOwnerID(opts.ownerID); err != nil {
		log.Fatalf("owner が不正です: %v", err)
	}
	if opts.scans < 0 {
		opts.scans = 0
	}
	return opts
}

func (o seedOptions) profilePatch() (domain.ProfilePatch, error) {
	category, err := domain.NewCategory(o.category)
	if err != nil {
		return domain.ProfilePatch{}, err
	}
	reviewURL, err := domain.NewReviewURL(o.reviewURL)
	if err != nil {
		return domain.ProfilePatch{}, err
	}
	patch := domain.ProfilePatch{
		Name:              domain.StringPtr(strings.TrimSpace(o.name)),
		Category:          domain.CategoryPtr(category),
		ExternalReviewURL: domain.StringPtr(reviewURL),
	}
	if d := strings.TrimSpace(o.description); d != "" {
		patch.Description = domain.StringPtr(d)
	}
	return patch, nil
}
