package repositories

import (
	"context"
	"time"

	"postsapi/app/metrics"
	"postsapi/app/models"
)

// InstrumentedStore records the latency and outcome of every store call.
type InstrumentedStore struct {
	inner Store
}

// Instrument wraps store with latency metrics.
func Instrument(store Store) *InstrumentedStore {
	return &InstrumentedStore{inner: store}
}

func observe(op string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.StoreDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}

func (s *InstrumentedStore) Find(ctx context.Context) (posts []*models.Post, err error) {
	defer func(start time.Time) { observe("find", start, err) }(time.Now())
	return s.inner.Find(ctx)
}

func (s *InstrumentedStore) FindByID(ctx context.Context, id string) (posts []*models.Post, err error) {
	defer func(start time.Time) { observe("find_by_id", start, err) }(time.Now())
	return s.inner.FindByID(ctx, id)
}

func (s *InstrumentedStore) Insert(ctx context.Context, post *models.Post) (res models.InsertResult, err error) {
	defer func(start time.Time) { observe("insert", start, err) }(time.Now())
	return s.inner.Insert(ctx, post)
}

func (s *InstrumentedStore) Update(ctx context.Context, id string, post *models.Post) (n int, err error) {
	defer func(start time.Time) { observe("update", start, err) }(time.Now())
	return s.inner.Update(ctx, id, post)
}

func (s *InstrumentedStore) Remove(ctx context.Context, id string) (n int, err error) {
	defer func(start time.Time) { observe("remove", start, err) }(time.Now())
	return s.inner.Remove(ctx, id)
}

func (s *InstrumentedStore) FindPostComments(ctx context.Context, postID string) (comments []*models.Comment, err error) {
	defer func(start time.Time) { observe("find_post_comments", start, err) }(time.Now())
	return s.inner.FindPostComments(ctx, postID)
}

func (s *InstrumentedStore) InsertComment(ctx context.Context, comment *models.Comment) (id int, err error) {
	defer func(start time.Time) { observe("insert_comment", start, err) }(time.Now())
	return s.inner.InsertComment(ctx, comment)
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
