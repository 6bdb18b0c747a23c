package domain

// VisitCounters is the aggregate engagement record kept per owner.
type VisitCounters struct {
	ScanCount        int64
	TotalReviews     int64
	ReviewsThisMonth int64
}

// FirstVisitCounters is the document created by the first resolution of a public URL.
func FirstVisitCounters() VisitCounters {
	return VisitCounters{ScanCount: 1}
}
