package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"postsapi/app/models"
	"postsapi/app/repositories"
)

// PostService sequences the store calls behind the post routes
type PostService struct {
	store repositories.Store
	opts  Options
}

// NewPostService creates a new PostService
func NewPostService(store repositories.Store, opts Options) *PostService {
	return &PostService{
		store: store,
		opts:  opts,
	}
}

// ListPosts returns every post in store order
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.store.Find(ctx)
	if err != nil {
		logStoreError(ctx, "find", err)
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns the single-element lookup result for id. More than one
// match is reported as ErrAmbiguousPost.
func (s *PostService) GetPost(ctx context.Context, id string) ([]*models.Post, error) {
	posts, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(posts) > 1 {
		zerolog.Ctx(ctx).Warn().Str("post_id", id).Int("matches", len(posts)).Msg("post lookup matched more than one record")
		return nil, ErrAmbiguousPost
	}
	return posts, nil
}

// CreatePost saves a new post and confirms it by listing the store and
// searching for the returned id. The input is returned as confirmation.
func (s *PostService) CreatePost(ctx context.Context, in *models.PostInput) (*models.PostInput, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	res, err := s.store.Insert(ctx, in.Post())
	if err != nil {
		logStoreError(ctx, "insert", err)
		return nil, fmt.Errorf("insert post: %w", err)
	}

	posts, err := s.store.Find(ctx)
	if err != nil {
		logStoreError(ctx, "find", err)
		return nil, fmt.Errorf("confirm post: %w", err)
	}
	for _, p := range posts {
		if p.ID == res.ID {
			return in, nil
		}
	}
	zerolog.Ctx(ctx).Error().Int("post_id", res.ID).Msg("inserted post missing from listing")
	return nil, ErrNotPersisted
}

// UpdatePost replaces title and contents of the post with id. It returns the
// lookup taken before the update unless FreshUpdateResponse is set.
func (s *PostService) UpdatePost(ctx context.Context, id string, in *models.PostInput) ([]*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	before, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	n, err := s.store.Update(ctx, id, in.Post())
	if err != nil {
		logStoreError(ctx, "update", err)
		return nil, fmt.Errorf("update post: %w", err)
	}
	if n != 1 {
		zerolog.Ctx(ctx).Error().Str("post_id", id).Int("affected", n).Msg("unexpected update count")
		return nil, ErrNotModified
	}

	if !s.opts.FreshUpdateResponse {
		return before, nil
	}
	after, err := s.store.FindByID(ctx, id)
	if err != nil {
		logStoreError(ctx, "find_by_id", err)
		return nil, fmt.Errorf("reload post: %w", err)
	}
	return after, nil
}

// DeletePost removes the post with id and returns the lookup taken before
// the removal. Comments on the post are kept.
func (s *PostService) DeletePost(ctx context.Context, id string) ([]*models.Post, error) {
	before, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	n, err := s.store.Remove(ctx, id)
	if err != nil {
		logStoreError(ctx, "remove", err)
		return nil, fmt.Errorf("remove post: %w", err)
	}
	if n != 1 {
		zerolog.Ctx(ctx).Error().Str("post_id", id).Int("affected", n).Msg("unexpected remove count")
		return nil, ErrNotRemoved
	}

	// The listing is not part of the response.
	if _, err := s.store.Find(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("listing after delete failed")
	}
	return before, nil
}

// lookup finds id and reports ErrPostNotFound for no match.
func (s *PostService) lookup(ctx context.Context, id string) ([]*models.Post, error) {
	posts, err := s.store.FindByID(ctx, id)
	if err != nil {
		logStoreError(ctx, "find_by_id", err)
		return nil, fmt.Errorf("find post %q: %w", id, err)
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return posts, nil
}
