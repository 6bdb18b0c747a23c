package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sngm3741/qr-review/api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileRepository は businessProfiles コレクションに対する読み書きを担う。
// Public/Dashboard の両ユースケースから共有される唯一のストアアダプタ。
type ProfileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository は MongoDB コレクションを束縛した ProfileRepository を生成する。
func NewProfileRepository(db *mongo.Database, collectionName string) *ProfileRepository {
	return &ProfileRepository{collection: db.Collection(collectionName)}
}

// Load はオーナー識別子で単一ドキュメントを取得する。存在しない場合は domain.ErrNotFound。
func (r *ProfileRepository) Load(ctx context.Context, ownerID string) (*domain.Profile, error) {
	var doc ProfileDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load profile %q: %w", domain.ErrStoreUnavailable, ownerID, err)
	}
	profile := mapProfileDocument(doc)
	return &profile, nil
}

// Save はパッチに含まれるフィールドだけを $set し、初回は upsert で作成する。
// 書き込み失敗時のリトライは行わない。
func (r *ProfileRepository) Save(ctx context.Context, ownerID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set":         buildProfileSet(patch, now),
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc ProfileDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": ownerID}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: save profile %q: %w", domain.ErrStoreUnavailable, ownerID, err)
	}
	profile := mapProfileDocument(doc)
	return &profile, nil
}

// buildProfileSet はパッチを $set 用の BSON に展開する。nil のフィールドは含めない。
func buildProfileSet(patch domain.ProfilePatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.OwnerDisplayName != nil {
		set["ownerDisplayName"] = *patch.OwnerDisplayName
	}
	if patch.LogoRef != nil {
		set["logo"] = *patch.LogoRef
	}
	if patch.Category != nil {
		set["category"] = patch.Category.String()
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.ExternalReviewURL != nil {
		set["reviewLink"] = *patch.ExternalReviewURL
	}
	return set
}
