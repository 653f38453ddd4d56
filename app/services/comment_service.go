package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"postsapi/app/models"
	"postsapi/app/repositories"
)

// CommentService handles the comment routes of a post
type CommentService struct {
	store repositories.Store
	opts  Options
}

// NewCommentService creates a new CommentService
func NewCommentService(store repositories.Store, opts Options) *CommentService {
	return &CommentService{
		store: store,
		opts:  opts,
	}
}

// ListPostComments returns the comments of the post with postID. A post
// without comments yields ErrNoComments unless EmptyCommentsOK is set.
func (s *CommentService) ListPostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.store.FindPostComments(ctx, postID)
	if err != nil {
		logStoreError(ctx, "find_post_comments", err)
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if len(comments) == 0 && !s.opts.EmptyCommentsOK {
		return nil, ErrNoComments
	}
	return comments, nil
}

// CreateComment stores comment once the post with postID is known to exist,
// then confirms that the post has comments.
func (s *CommentService) CreateComment(ctx context.Context, postID string, in *models.CommentInput) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	posts, err := s.store.FindByID(ctx, postID)
	if err != nil {
		logStoreError(ctx, "find_by_id", err)
		return fmt.Errorf("find post %q: %w", postID, err)
	}
	switch {
	case len(posts) == 0:
		return ErrPostNotFound
	case len(posts) > 1:
		zerolog.Ctx(ctx).Warn().Str("post_id", postID).Int("matches", len(posts)).Msg("post lookup matched more than one record")
		return ErrAmbiguousPost
	}

	if _, err := s.store.InsertComment(ctx, in.Comment()); err != nil {
		logStoreError(ctx, "insert_comment", err)
		return fmt.Errorf("insert comment: %w", err)
	}

	comments, err := s.store.FindPostComments(ctx, postID)
	if err != nil {
		logStoreError(ctx, "find_post_comments", err)
		return fmt.Errorf("confirm comment: %w", err)
	}
	if len(comments) == 0 {
		zerolog.Ctx(ctx).Error().Str("post_id", postID).Msg("post has no comments after insert")
		return ErrNotPersisted
	}
	return nil
}

func (s *CommentService) requirePost(ctx context.Context, postID string) error {
	posts, err := s.store.FindByID(ctx, postID)
	if err != nil {
		logStoreError(ctx, "find_by_id", err)
		return fmt.Errorf("find post %q: %w", postID, err)
	}
	if len(posts) == 0 {
		return ErrPostNotFound
	}
	return nil
}
