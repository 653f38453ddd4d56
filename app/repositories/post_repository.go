package repositories

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"postsapi/app/models"
)

// Find retrieves all posts ordered by id
func (s *BadgerStore) Find(ctx context.Context) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	posts := []*models.Post{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to read post %q: %w", it.Item().Key(), err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortPosts(posts)
	return posts, nil
}

// FindByID retrieves the post stored under id
func (s *BadgerStore) FindByID(ctx context.Context, id string) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	posts := []*models.Post{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		var post models.Post
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		}); err != nil {
			return err
		}
		posts = append(posts, &post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Insert creates a new post
func (s *BadgerStore) Insert(ctx context.Context, post *models.Post) (models.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return models.InsertResult{}, err
	}
	if err := post.Validate(); err != nil {
		return models.InsertResult{}, fmt.Errorf("invalid post: %w", err)
	}

	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	err := s.update(ctx, func(txn *badger.Txn) error {
		// Get next ID
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		post.Stamp(s.now())

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(strconv.Itoa(id)), data)
	})
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{ID: post.ID}, nil
}

// Update replaces the title and contents of an existing post
func (s *BadgerStore) Update(ctx context.Context, id string, post *models.Post) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	affected := 0
	err := s.update(ctx, func(txn *badger.Txn) error {
		affected = 0
		key := postKey(id)

		// Verify post exists
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		var existing models.Post
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &existing)
		}); err != nil {
			return err
		}
		existing.Apply(post)
		existing.Stamp(s.now())

		data, err := marshalEntity(&existing)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		affected = 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Remove deletes a post. Comments that reference it are left in place.
func (s *BadgerStore) Remove(ctx context.Context, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	affected := 0
	err := s.update(ctx, func(txn *badger.Txn) error {
		affected = 0
		key := postKey(id)
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		affected = 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
