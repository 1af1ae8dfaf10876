package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"colette/internal/core/coreerr"
	"colette/internal/core/model"
	"colette/internal/job"
	"colette/internal/repository"
)

// inlineTx runs fn directly; good enough for exercising service logic
// without a real database.
type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeProducer struct {
	mu     sync.Mutex
	pushed []string
}

func (p *fakeProducer) Push(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, id)
	return nil
}

func (p *fakeProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pushed)
}

type fakeFeedRepo struct {
	mu     sync.Mutex
	byID   map[string]*model.Feed
	bySrc  map[string]string
	nextID int
}

func newFakeFeedRepo() *fakeFeedRepo {
	return &fakeFeedRepo{byID: map[string]*model.Feed{}, bySrc: map[string]string{}}
}

func (r *fakeFeedRepo) Find(context.Context, repository.FeedFindParams) ([]*model.Feed, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeFeedRepo) FindByID(_ context.Context, id string) (*model.Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, coreerr.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFeedRepo) FindBySourceURL(_ context.Context, sourceURL string) (*model.Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.bySrc[sourceURL]
	if !ok {
		return nil, coreerr.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *fakeFeedRepo) FindOutdated(context.Context, repository.OutdatedFeedParams) ([]*model.Feed, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeFeedRepo) Save(_ context.Context, f *model.Feed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		r.nextID++
		f.ID = "feed-" + strconv.Itoa(r.nextID)
	}
	cp := *f
	r.byID[f.ID] = &cp
	r.bySrc[f.SourceURL] = f.ID
	return nil
}

func (r *fakeFeedRepo) DeleteByID(context.Context, string) error { return nil }

type fakeSubRepo struct {
	mu     sync.Mutex
	byID   map[string]*model.Subscription
	byKey  map[string]string
	nextID int
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{byID: map[string]*model.Subscription{}, byKey: map[string]string{}}
}

func (r *fakeSubRepo) Find(context.Context, repository.SubscriptionFindParams) ([]*model.Subscription, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeSubRepo) FindByID(_ context.Context, id string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, coreerr.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubRepo) FindBySourceAndUser(_ context.Context, userID, feedID string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byKey[userID+"|"+feedID]
	if !ok {
		return nil, coreerr.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *fakeSubRepo) Save(_ context.Context, s *model.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		r.nextID++
		s.ID = "sub-" + strconv.Itoa(r.nextID)
	}
	cp := *s
	r.byID[s.ID] = &cp
	r.byKey[s.UserID+"|"+s.FeedID] = s.ID
	return nil
}

func (r *fakeSubRepo) DeleteByID(context.Context, string) error { return nil }

type fakeEntryRepo struct {
	mu         sync.Mutex
	byKey      map[string]*model.FeedEntry
	nextID     int
	failFirstN int
	callCount  int
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{byKey: map[string]*model.FeedEntry{}}
}

func (r *fakeEntryRepo) Find(context.Context, repository.FeedEntryFindParams) ([]*model.FeedEntry, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeEntryRepo) FindByID(context.Context, string) (*model.FeedEntry, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeEntryRepo) UpsertBatch(_ context.Context, entries []*model.FeedEntry) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.callCount++
	if r.callCount <= r.failFirstN {
		return nil, coreerr.ErrConflict
	}

	var inserted []string
	for _, e := range entries {
		key := e.FeedID + "|" + e.Link
		if _, exists := r.byKey[key]; exists {
			continue
		}
		r.nextID++
		e.ID = "entry-" + strconv.Itoa(r.nextID)
		cp := *e
		r.byKey[key] = &cp
		inserted = append(inserted, e.ID)
	}
	return inserted, nil
}

func (r *fakeEntryRepo) MarkRead(context.Context, model.ReadEntry) error   { return nil }
func (r *fakeEntryRepo) MarkUnread(context.Context, string, string) error { return nil }

type fakeBookmarkRepo struct {
	mu     sync.Mutex
	byID   map[string]*model.Bookmark
	byLink map[string]string
	nextID int
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{byID: map[string]*model.Bookmark{}, byLink: map[string]string{}}
}

func (r *fakeBookmarkRepo) Find(context.Context, repository.BookmarkFindParams) ([]*model.Bookmark, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeBookmarkRepo) FindByID(_ context.Context, id string) (*model.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, coreerr.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookmarkRepo) FindByLink(_ context.Context, userID, link string) (*model.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byLink[userID+"|"+link]
	if !ok {
		return nil, coreerr.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *fakeBookmarkRepo) Save(_ context.Context, b *model.Bookmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		r.nextID++
		b.ID = "bookmark-" + strconv.Itoa(r.nextID)
	}
	cp := *b
	r.byID[b.ID] = &cp
	r.byLink[b.UserID+"|"+b.Link] = b.ID
	return nil
}

func (r *fakeBookmarkRepo) DeleteByID(context.Context, string) error { return nil }

type fakeTagRepo struct {
	mu            sync.Mutex
	byID          map[string]*model.Tag
	byKey         map[string]string
	nextID        int
	subLinks      map[string][]string
	bookmarkLinks map[string][]string
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{
		byID:          map[string]*model.Tag{},
		byKey:         map[string]string{},
		subLinks:      map[string][]string{},
		bookmarkLinks: map[string][]string{},
	}
}

func (r *fakeTagRepo) Find(_ context.Context, params repository.TagFindParams) ([]*model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if params.UserID == nil || params.Title == nil {
		return nil, errors.New("not implemented")
	}
	id, ok := r.byKey[*params.UserID+"|"+*params.Title]
	if !ok {
		return nil, nil
	}
	return []*model.Tag{r.byID[id]}, nil
}

func (r *fakeTagRepo) FindByID(_ context.Context, id string) (*model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, coreerr.ErrNotFound
	}
	return t, nil
}

func (r *fakeTagRepo) Save(_ context.Context, t *model.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		r.nextID++
		t.ID = "tag-" + strconv.Itoa(r.nextID)
	}
	cp := *t
	r.byID[t.ID] = &cp
	r.byKey[t.UserID+"|"+t.Title] = t.ID
	return nil
}

func (r *fakeTagRepo) DeleteByID(context.Context, string) error { return nil }

func (r *fakeTagRepo) LinkToSubscription(_ context.Context, subscriptionID string, tagIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subLinks[subscriptionID] = tagIDs
	return nil
}

func (r *fakeTagRepo) LinkToBookmark(_ context.Context, bookmarkID string, tagIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookmarkLinks[bookmarkID] = tagIDs
	return nil
}

type fakeJobRepo struct {
	mu      sync.Mutex
	inserts []*job.Job
	nextID  int
}

func newFakeJobRepo() *fakeJobRepo { return &fakeJobRepo{} }

func (r *fakeJobRepo) Insert(_ context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	j.ID = "job-" + strconv.Itoa(r.nextID)
	r.inserts = append(r.inserts, j)
	return nil
}

func (r *fakeJobRepo) FindByID(context.Context, string) (*job.Job, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeJobRepo) Update(context.Context, string, repository.JobUpdate) error { return nil }

func (r *fakeJobRepo) List(context.Context, repository.JobListParams) ([]*job.Job, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeJobRepo) insertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inserts)
}
