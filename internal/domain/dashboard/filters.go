package dashboard

import (
	"time"

	"leadcrm/internal/domain/lead"
)

// DateWindow narrows a collection by creation date before aggregation
type DateWindow string

const (
	WindowAll        DateWindow = "all"
	WindowLast30Days DateWindow = "last30days"
	WindowLast90Days DateWindow = "last90days"
)

func ParseDateWindow(s string) (DateWindow, bool) {
	switch DateWindow(s) {
	case WindowAll, WindowLast30Days, WindowLast90Days:
		return DateWindow(s), true
	case "":
		return WindowAll, true
	}
	return WindowAll, false
}

// FilterByDateWindow keeps leads created inside the window. The
// aggregation functions are filter-agnostic; callers compose filters
// first and aggregate after.
func FilterByDateWindow(leads []lead.Lead, w DateWindow, now time.Time) []lead.Lead {
	var cutoff time.Time
	switch w {
	case WindowLast30Days:
		cutoff = now.AddDate(0, 0, -30)
	case WindowLast90Days:
		cutoff = now.AddDate(0, 0, -90)
	default:
		return leads
	}

	out := make([]lead.Lead, 0, len(leads))
	for i := range leads {
		if !leads[i].CreatedAt.Before(cutoff) {
			out = append(out, leads[i])
		}
	}
	return out
}

// PotentialBucket narrows a collection by estimated potential
type PotentialBucket string

const (
	BucketAll    PotentialBucket = "all"
	BucketHigh   PotentialBucket = "high"   // >= 75
	BucketMedium PotentialBucket = "medium" // [50, 75)
	BucketLow    PotentialBucket = "low"    // < 50, including unset
)

func ParsePotentialBucket(s string) (PotentialBucket, bool) {
	switch PotentialBucket(s) {
	case BucketAll, BucketHigh, BucketMedium, BucketLow:
		return PotentialBucket(s), true
	case "":
		return BucketAll, true
	}
	return BucketAll, false
}

// FilterByPotentialBucket keeps leads in the bucket; a missing potential
// counts as 0 and lands in low
func FilterByPotentialBucket(leads []lead.Lead, b PotentialBucket) []lead.Lead {
	if b == BucketAll || b == "" {
		return leads
	}

	out := make([]lead.Lead, 0, len(leads))
	for i := range leads {
		p := leads[i].PotentialOrZero()
		switch b {
		case BucketHigh:
			if p >= 75 {
				out = append(out, leads[i])
			}
		case BucketMedium:
			if p >= 50 && p < 75 {
				out = append(out, leads[i])
			}
		case BucketLow:
			if p < 50 {
				out = append(out, leads[i])
			}
		}
	}
	return out
}
