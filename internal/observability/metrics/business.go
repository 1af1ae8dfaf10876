package metrics

import (
	"time"
)

// UpdateFeedsTotal updates the total count of feeds in the database.
// Call this periodically (e.g. once per scheduler tick) to keep the gauge fresh.
func UpdateFeedsTotal(count int) {
	FeedsTotal.Set(float64(count))
}

// UpdateFeedsByStatus updates the feed count for a single lifecycle status.
func UpdateFeedsByStatus(status string, count int) {
	FeedsByStatus.WithLabelValues(status).Set(float64(count))
}

// UpdateBookmarksTotal updates the total count of bookmarks in the database.
func UpdateBookmarksTotal(count int) {
	BookmarksTotal.Set(float64(count))
}

// RecordEntriesFetched records the number of feed entries ingested for a feed.
func RecordEntriesFetched(feedID string, count int) {
	if count <= 0 {
		return
	}
	EntriesFetchedTotal.WithLabelValues(feedID).Add(float64(count))
}

// RecordScrapeDuration records the time taken to scrape a feed or bookmark.
// target should be "feed" or "bookmark".
func RecordScrapeDuration(target string, duration time.Duration) {
	ScrapeDuration.WithLabelValues(target).Observe(duration.Seconds())
}

// RecordScrapeError records a scrape failure. errorType should be
// "transient" or "permanent", matching coreerr's scrape error classes.
func RecordScrapeError(target, errorType string) {
	ScrapeErrors.WithLabelValues(target, errorType).Inc()
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query (e.g. "feed_repo.find_outdated").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics,
// read from sql.DB.Stats().
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
