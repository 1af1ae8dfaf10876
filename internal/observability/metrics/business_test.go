package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestUpdateFeedsTotal(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{name: "zero feeds", count: 0},
		{name: "some feeds", count: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateFeedsTotal(tt.count)
			})
			assert.Equal(t, float64(tt.count), testutil.ToFloat64(FeedsTotal))
		})
	}
}

func TestUpdateFeedsByStatus(t *testing.T) {
	assert.NotPanics(t, func() {
		UpdateFeedsByStatus("healthy", 5)
		UpdateFeedsByStatus("failed", 2)
	})
}

func TestUpdateBookmarksTotal(t *testing.T) {
	assert.NotPanics(t, func() {
		UpdateBookmarksTotal(7)
	})
	assert.Equal(t, float64(7), testutil.ToFloat64(BookmarksTotal))
}

func TestRecordEntriesFetched(t *testing.T) {
	tests := []struct {
		name   string
		feedID string
		count  int
	}{
		{name: "single entry", feedID: "1", count: 1},
		{name: "multiple entries", feedID: "2", count: 10},
		{name: "zero entries is a no-op", feedID: "3", count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordEntriesFetched(tt.feedID, tt.count)
			})
		})
	}
}

func TestRecordScrapeDuration(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordScrapeDuration("feed", 150*time.Millisecond)
		RecordScrapeDuration("bookmark", 2*time.Second)
	})
}

func TestRecordScrapeError(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordScrapeError("feed", "transient")
		RecordScrapeError("bookmark", "permanent")
	})
}

func TestRecordDBQuery(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordDBQuery("feed_repo.find_outdated", 5*time.Millisecond)
	})
}

func TestUpdateDBConnectionStats(t *testing.T) {
	assert.NotPanics(t, func() {
		UpdateDBConnectionStats(3, 5)
	})
	assert.Equal(t, float64(3), testutil.ToFloat64(DBConnectionsActive))
	assert.Equal(t, float64(5), testutil.ToFloat64(DBConnectionsIdle))
}
