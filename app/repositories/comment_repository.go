package repositories

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"postsapi/app/models"
)

// FindPostComments retrieves all comments for a post
func (s *BadgerStore) FindPostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	comments := []*models.Comment{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := commentPrefix(postID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var comment models.Comment
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			})
			if err != nil {
				return fmt.Errorf("failed to read comment %q: %w", it.Item().Key(), err)
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortComments(comments)
	return comments, nil
}

// InsertComment creates a new comment
func (s *BadgerStore) InsertComment(ctx context.Context, comment *models.Comment) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := comment.Validate(); err != nil {
		return 0, fmt.Errorf("invalid comment: %w", err)
	}

	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	err := s.update(ctx, func(txn *badger.Txn) error {
		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id
		comment.Stamp(s.now())

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}

		// Save comment with post ID in key for efficient listing
		return txn.Set(commentKey(comment.PostID, comment.ID), data)
	})
	if err != nil {
		return 0, err
	}
	return comment.ID, nil
}
