package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Outcomes the controllers map to HTTP responses. Store failures are
// returned wrapped and are none of these.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrPostNotFound  = errors.New("post not found")
	ErrAmbiguousPost = errors.New("more than one post matched the id")
	ErrNoComments    = errors.New("post has no comments")
	ErrNotPersisted  = errors.New("record not found after insert")
	ErrNotModified   = errors.New("post was not modified")
	ErrNotRemoved    = errors.New("post was not removed")
)

// Options toggles behaviour that differs from the routes' historical
// responses. The zero value keeps the historical behaviour.
type Options struct {
	// FreshUpdateResponse makes UpdatePost return the post as stored after
	// the update instead of the lookup taken before it.
	FreshUpdateResponse bool
	// EmptyCommentsOK makes an existing post with no comments list as empty
	// rather than fail.
	EmptyCommentsOK bool
}

func logStoreError(ctx context.Context, op string, err error) {
	zerolog.Ctx(ctx).Error().Err(err).Str("operation", op).Msg("store call failed")
}
