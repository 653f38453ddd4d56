package models

import (
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	return validate.Struct(c)
}

// Stamp sets the creation time on first use and refreshes the update time.
func (c *Comment) Stamp(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

// Validate reports whether the comment text was supplied.
func (in *CommentInput) Validate() error {
	return validate.Struct(in)
}

// Comment builds a new, unsaved comment from the input. The post reference
// is taken from the body as sent.
func (in *CommentInput) Comment() *Comment {
	return &Comment{
		PostID: int(in.PostID),
		Text:   in.Text,
	}
}
