package repositories

import (
	"context"
	"fmt"
	"time"

	"postsapi/app/models"
)

// TimeoutStore bounds every call on the wrapped store. A call still running
// when the deadline passes is abandoned and reported as a failure, so callers
// always get an answer.
type TimeoutStore struct {
	inner   Store
	timeout time.Duration
}

// WithTimeout wraps store so each call is limited to timeout. A non-positive
// timeout returns store unchanged.
func WithTimeout(store Store, timeout time.Duration) Store {
	if timeout <= 0 {
		return store
	}
	return &TimeoutStore{inner: store, timeout: timeout}
}

func within[T any](ctx context.Context, d time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		val, err := fn(ctx)
		done <- result{val: val, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

func (s *TimeoutStore) Find(ctx context.Context) ([]*models.Post, error) {
	return within(ctx, s.timeout, "find", s.inner.Find)
}

func (s *TimeoutStore) FindByID(ctx context.Context, id string) ([]*models.Post, error) {
	return within(ctx, s.timeout, "find by id", func(ctx context.Context) ([]*models.Post, error) {
		return s.inner.FindByID(ctx, id)
	})
}

func (s *TimeoutStore) Insert(ctx context.Context, post *models.Post) (models.InsertResult, error) {
	return within(ctx, s.timeout, "insert", func(ctx context.Context) (models.InsertResult, error) {
		return s.inner.Insert(ctx, post)
	})
}

func (s *TimeoutStore) Update(ctx context.Context, id string, post *models.Post) (int, error) {
	return within(ctx, s.timeout, "update", func(ctx context.Context) (int, error) {
		return s.inner.Update(ctx, id, post)
	})
}

func (s *TimeoutStore) Remove(ctx context.Context, id string) (int, error) {
	return within(ctx, s.timeout, "remove", func(ctx context.Context) (int, error) {
		return s.inner.Remove(ctx, id)
	})
}

func (s *TimeoutStore) FindPostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	return within(ctx, s.timeout, "find post comments", func(ctx context.Context) ([]*models.Comment, error) {
		return s.inner.FindPostComments(ctx, postID)
	})
}

func (s *TimeoutStore) InsertComment(ctx context.Context, comment *models.Comment) (int, error) {
	return within(ctx, s.timeout, "insert comment", func(ctx context.Context) (int, error) {
		return s.inner.InsertComment(ctx, comment)
	})
}

func (s *TimeoutStore) Close() error {
	return s.inner.Close()
}
