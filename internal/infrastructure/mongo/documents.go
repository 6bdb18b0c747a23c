package mongo

import (
	"time"

	"github.com/sngm3741/qr-review/api/internal/domain"
)

// ProfileDocument は MongoDB 上の businessProfiles スキーマを Go 構造体として表現したもの。
// _id はオーナー識別子そのもの。
type ProfileDocument struct {
	OwnerID          string     `bson:"_id"`
	Name             string     `bson:"name,omitempty"`
	OwnerDisplayName string     `bson:"ownerDisplayName,omitempty"`
	Logo             string     `bson:"logo,omitempty"`
	Category         string     `bson:"category,omitempty"`
	Description      string     `bson:"description,omitempty"`
	ReviewLink       string     `bson:"reviewLink,omitempty"`
	CreatedAt        *time.Time `bson:"createdAt,omitempty"`
	UpdatedAt        *time.Time `bson:"updatedAt,omitempty"`
}

// StatsDocument はオーナー単位の集計カウンタ。更新は必ず $inc で行う。
type StatsDocument struct {
	OwnerID          string     `bson:"_id"`
	ScanCount        int64      `bson:"scanCount"`
	TotalReviews     int64      `bson:"totalReviews"`
	ReviewsThisMonth int64      `bson:"reviewsThisMonth"`
	CreatedAt        *time.Time `bson:"createdAt,omitempty"`
}

func mapProfileDocument(doc ProfileDocument) domain.Profile {
	profile := domain.Profile{
		OwnerID:           doc.OwnerID,
		Name:              doc.Name,
		OwnerDisplayName:  doc.OwnerDisplayName,
		LogoRef:           doc.Logo,
		Category:          domain.Category(doc.Category),
		Description:       doc.Description,
		ExternalReviewURL: doc.ReviewLink,
	}
	if doc.CreatedAt != nil {
		profile.CreatedAt = *doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		profile.UpdatedAt = *doc.UpdatedAt
	}
	return profile
}

func mapStatsDocument(doc StatsDocument) domain.VisitCounters {
	return domain.VisitCounters{
		ScanCount:        doc.ScanCount,
		TotalReviews:     doc.TotalReviews,
		ReviewsThisMonth: doc.ReviewsThisMonth,
	}
}
