package service

import (
	"testing"

	"colette/internal/core/model"
)

func TestImportOPML_CreatesFeedSubscriptionTagsAndEnqueuesJob(t *testing.T) {
	svc, feeds, _, jobs, producer := newTestService()

	doc := []byte(`<?xml version="1.0"?>
<opml version="2.0">
  <head><title>Subscriptions</title></head>
  <body>
    <outline text="News">
      <outline text="Example" xmlUrl="https://example.com/feed.xml" htmlUrl="https://example.com/"/>
    </outline>
  </body>
</opml>`)

	if err := svc.ImportOPML(t.Context(), doc, "user-1"); err != nil {
		t.Fatalf("ImportOPML: %v", err)
	}

	feed, err := feeds.FindBySourceURL(t.Context(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("expected feed stub to be created: %v", err)
	}
	if feed.Status != model.FeedStatusPending {
		t.Fatalf("expected pending status for a new stub, got %q", feed.Status)
	}

	if got := jobs.insertCount(); got != 1 {
		t.Fatalf("expected 1 scrape job enqueued, got %d", got)
	}
	if got := producer.count(); got != 1 {
		t.Fatalf("expected 1 job pushed to the queue, got %d", got)
	}
}

func TestImportOPML_DuplicateSourceURLEnqueuesOnlyOnce(t *testing.T) {
	svc, _, _, jobs, _ := newTestService()

	doc := []byte(`<?xml version="1.0"?>
<opml version="2.0">
  <head><title>Subscriptions</title></head>
  <body>
    <outline text="Example" xmlUrl="https://example.com/feed.xml"/>
    <outline text="Example again" xmlUrl="https://example.com/feed.xml"/>
  </body>
</opml>`)

	if err := svc.ImportOPML(t.Context(), doc, "user-1"); err != nil {
		t.Fatalf("ImportOPML: %v", err)
	}

	if got := jobs.insertCount(); got != 1 {
		t.Fatalf("expected dedup to 1 job insert, got %d", got)
	}
}

func TestImportOPML_ReimportOfKnownFeedDoesNotReenqueue(t *testing.T) {
	svc, _, _, jobs, _ := newTestService()

	doc := []byte(`<?xml version="1.0"?>
<opml version="2.0">
  <head><title>Subscriptions</title></head>
  <body><outline text="Example" xmlUrl="https://example.com/feed.xml"/></body>
</opml>`)

	if err := svc.ImportOPML(t.Context(), doc, "user-1"); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if err := svc.ImportOPML(t.Context(), doc, "user-1"); err != nil {
		t.Fatalf("second import: %v", err)
	}

	if got := jobs.insertCount(); got != 1 {
		t.Fatalf("expected only the first import to enqueue a job, got %d total", got)
	}
}
