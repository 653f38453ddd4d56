package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Post represents a blog post.
type Post struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null" validate:"required"`
	Contents  string    `json:"contents" gorm:"not null" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment represents a comment on a blog post. PostID is a back-reference
// only; it is not checked against the posts it points at.
type Comment struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	PostID    int       `json:"post_id" gorm:"index"`
	Text      string    `json:"text" gorm:"not null" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InsertResult is what a store hands back after inserting a post.
type InsertResult struct {
	ID int `json:"id"`
}

// PostInput is the request body accepted when creating or updating a post.
type PostInput struct {
	Title    string `json:"title" validate:"required"`
	Contents string `json:"contents" validate:"required"`
}

// CommentInput is the request body accepted when creating a comment.
type CommentInput struct {
	PostID PostRef `json:"post_id"`
	Text   string  `json:"text" validate:"required"`
}

// PostRef is the post a comment body points at. It accepts a JSON number
// with an integral value or a string holding one; any other value decodes
// as 0, which references no post.
type PostRef int

func (r *PostRef) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*r = 0
	switch v := raw.(type) {
	case json.Number:
		*r = parsePostRef(v.String())
	case string:
		*r = parsePostRef(strings.TrimSpace(v))
	}
	return nil
}

func parsePostRef(s string) PostRef {
	if n, err := strconv.Atoi(s); err == nil {
		return PostRef(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return PostRef(int(f))
}
