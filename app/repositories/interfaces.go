package repositories

import (
	"context"

	"postsapi/app/models"
)

// PostRepository defines the post half of the store. Ids are opaque strings
// handed through from the request path unmodified.
type PostRepository interface {
	// Find returns every post in store order.
	Find(ctx context.Context) ([]*models.Post, error)
	// FindByID returns the posts matching id; normally zero or one.
	FindByID(ctx context.Context, id string) ([]*models.Post, error)
	// Insert saves a new post and reports the id it was given.
	Insert(ctx context.Context, post *models.Post) (models.InsertResult, error)
	// Update replaces title and contents and reports the affected count.
	Update(ctx context.Context, id string, post *models.Post) (int, error)
	// Remove deletes the post and reports the affected count.
	Remove(ctx context.Context, id string) (int, error)
}

// CommentRepository defines the comment half of the store.
type CommentRepository interface {
	// FindPostComments returns the comments referencing postID.
	FindPostComments(ctx context.Context, postID string) ([]*models.Comment, error)
	// InsertComment saves a new comment and returns its id.
	InsertComment(ctx context.Context, comment *models.Comment) (int, error)
}

// Store is the persistence collaborator the API runs on.
type Store interface {
	PostRepository
	CommentRepository
	Close() error
}
