package models

import (
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// Stamp sets the creation time on first use and refreshes the update time.
func (p *Post) Stamp(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// Apply copies the editable fields of from onto p.
func (p *Post) Apply(from *Post) {
	p.Title = from.Title
	p.Contents = from.Contents
}

// Validate reports whether both title and contents were supplied.
func (in *PostInput) Validate() error {
	return validate.Struct(in)
}

// Post builds a new, unsaved post from the input.
func (in *PostInput) Post() *Post {
	return &Post{
		Title:    in.Title,
		Contents: in.Contents,
	}
}
