package filetype

import (
	"fmt"
	"time"
)

// QuotaBytes is the fixed per-user storage ceiling (2 GiB). It is used for
// usage-percentage display only, not enforced on upload.
const QuotaBytes int64 = 2 * 1024 * 1024 * 1024

type CategoryUsage struct {
	SizeBytes    int64     `json:"size_bytes"`
	LatestUpdate time.Time `json:"latest_update"`
}

type UsageSummary struct {
	PerCategory map[Category]CategoryUsage `json:"per_category"`
	UsedBytes   int64                      `json:"used_bytes"`
	QuotaBytes  int64                      `json:"quota_bytes"`
}

// UsageEntry is the slice of a file record the aggregator needs.
type UsageEntry struct {
	Category  Category
	SizeBytes int64
	UpdatedAt time.Time
}

// Summarize folds file entries into per-category byte totals and latest
// update timestamps. Entries must carry one of the five known categories;
// anything else is a programming error since Classify is the only
// producer of category values.
func Summarize(entries []UsageEntry) UsageSummary {
	summary := UsageSummary{
		PerCategory: make(map[Category]CategoryUsage, len(Categories)),
		QuotaBytes:  QuotaBytes,
	}
	for _, c := range Categories {
		summary.PerCategory[c] = CategoryUsage{}
	}

	for _, e := range entries {
		bucket, ok := summary.PerCategory[e.Category]
		if !ok {
			panic(fmt.Sprintf("filetype: unknown category %q in usage aggregation", e.Category))
		}
		bucket.SizeBytes += e.SizeBytes
		if e.UpdatedAt.After(bucket.LatestUpdate) {
			bucket.LatestUpdate = e.UpdatedAt
		}
		summary.PerCategory[e.Category] = bucket
		summary.UsedBytes += e.SizeBytes
	}

	return summary
}

// UsagePercentage returns usedBytes as a percentage of the fixed quota,
// rounded to two decimal places.
func UsagePercentage(usedBytes int64) float64 {
	pct := float64(usedBytes) / float64(QuotaBytes) * 100
	return float64(int64(pct*100+0.5)) / 100
}
