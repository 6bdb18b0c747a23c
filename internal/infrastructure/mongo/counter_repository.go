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

// CounterField は stats ドキュメント内で加算可能なフィールド名。
type CounterField string

const (
	FieldScanCount        CounterField = "scanCount"
	FieldTotalReviews     CounterField = "totalReviews"
	FieldReviewsThisMonth CounterField = "reviewsThisMonth"
)

var counterFields = []CounterField{FieldScanCount, FieldTotalReviews, FieldReviewsThisMonth}

// CounterRepository は stats コレクションの集計カウンタを扱う。
type CounterRepository struct {
	collection *mongo.Collection
}

// NewCounterRepository は MongoDB コレクションを束縛した CounterRepository を生成する。
func NewCounterRepository(db *mongo.Database, collectionName string) *CounterRepository {
	return &CounterRepository{collection: db.Collection(collectionName)}
}

// RecordVisit は scanCount を 1 加算する。ドキュメントが無ければ scanCount=1 で作成される。
func (r *CounterRepository) RecordVisit(ctx context.Context, ownerID string) error {
	return r.Increment(ctx, ownerID, FieldScanCount, 1)
}

// Increment は $inc と $setOnInsert を組み合わせた単一の upsert で加算する。
// 読み取り→書き込みの手順は踏まないため、同時実行でも加算が失われない。
// 初回作成が競合して重複キーになった場合は、既に存在するドキュメントへ $inc をやり直す。
func (r *CounterRepository) Increment(ctx context.Context, ownerID string, field CounterField, amount int64) error {
	if !validCounterField(field) {
		return fmt.Errorf("unknown counter field %q", field)
	}
	if amount < 0 {
		return fmt.Errorf("counter %q may not be decremented", field)
	}

	onInsert := bson.M{"createdAt": time.Now().UTC()}
	for _, other := range counterFields {
		if other != field {
			onInsert[string(other)] = 0
		}
	}
	update := bson.M{
		"$inc":         bson.M{string(field): amount},
		"$setOnInsert": onInsert,
	}
	filter := bson.M{"_id": ownerID}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		_, err = r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{string(field): amount}})
	}
	if err != nil {
		return fmt.Errorf("%w: increment %s for %q: %w", domain.ErrCounterUpdateFailed, field, ownerID, err)
	}
	return nil
}

// Get はカウンタを読み取る。ドキュメントが無い場合はゼロ値を返し、作成はしない。
func (r *CounterRepository) Get(ctx context.Context, ownerID string) (domain.VisitCounters, error) {
	var doc StatsDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.VisitCounters{}, nil
	}
	if err != nil {
		return domain.VisitCounters{}, fmt.Errorf("%w: load counters %q: %w", domain.ErrStoreUnavailable, ownerID, err)
	}
	return mapStatsDocument(doc), nil
}

func validCounterField(field CounterField) bool {
	for _, f := range counterFields {
		if f == field {
			return true
		}
	}
	return false
}
