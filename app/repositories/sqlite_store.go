package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"postsapi/app/models"
)

// SQLiteStore implements Store on a relational database through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore wraps an open gorm connection and migrates the schema.
func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&models.Post{}, &models.Comment{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// OpenSQLite opens the SQLite database file at path, creating its directory
// when needed.
func OpenSQLite(path string, log zerolog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	gl := log.With().Str("component", "gorm").Logger()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.New(&gl, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite at %q: %w", path, err)
	}

	// Serialize writers; SQLite allows one at a time.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return NewSQLiteStore(db)
}

// Close closes the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Find retrieves all posts ordered by id
func (s *SQLiteStore) Find(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	if err := s.db.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByID retrieves the posts whose id equals id
func (s *SQLiteStore) FindByID(ctx context.Context, id string) ([]*models.Post, error) {
	posts := []*models.Post{}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Insert creates a new post
func (s *SQLiteStore) Insert(ctx context.Context, post *models.Post) (models.InsertResult, error) {
	if err := post.Validate(); err != nil {
		return models.InsertResult{}, fmt.Errorf("invalid post: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{ID: post.ID}, nil
}

// Update replaces the title and contents of the post with the given id
func (s *SQLiteStore) Update(ctx context.Context, id string, post *models.Post) (int, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":    post.Title,
			"contents": post.Contents,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// Remove deletes the post with the given id. Comments are not cascaded.
func (s *SQLiteStore) Remove(ctx context.Context, id string) (int, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// FindPostComments retrieves all comments referencing postID
func (s *SQLiteStore) FindPostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// InsertComment creates a new comment
func (s *SQLiteStore) InsertComment(ctx context.Context, comment *models.Comment) (int, error) {
	if err := comment.Validate(); err != nil {
		return 0, fmt.Errorf("invalid comment: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return 0, err
	}
	return comment.ID, nil
}
