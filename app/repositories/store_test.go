package repositories

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"postsapi/app/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStores(t *testing.T) map[string]Store {
	t.Helper()

	badgerStore, err := OpenBadger("", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { badgerStore.Close() })

	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "posts.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		DriverBadger: badgerStore,
		DriverSQLite: sqliteStore,
	}
}

func TestStores(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			testStoreContract(t, store)
		})
	}
}

func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("find on empty store", func(t *testing.T) {
		posts, err := store.Find(ctx)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	var first models.InsertResult
	t.Run("insert and find", func(t *testing.T) {
		var err error
		first, err = store.Insert(ctx, &models.Post{Title: "First", Contents: "one"})
		require.NoError(t, err)
		assert.Greater(t, first.ID, 0)

		second, err := store.Insert(ctx, &models.Post{Title: "Second", Contents: "two"})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		posts, err := store.Find(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "First", posts[0].Title)
		assert.Equal(t, "Second", posts[1].Title)
		assert.False(t, posts[0].CreatedAt.IsZero())
	})

	t.Run("find by id", func(t *testing.T) {
		posts, err := store.FindByID(ctx, strconv.Itoa(first.ID))
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, first.ID, posts[0].ID)
		assert.Equal(t, "one", posts[0].Contents)
	})

	t.Run("find by unknown or non-numeric id", func(t *testing.T) {
		for _, id := range []string{"999", "abc", "1:2"} {
			posts, err := store.FindByID(ctx, id)
			require.NoError(t, err, id)
			assert.Empty(t, posts, id)
		}
	})

	t.Run("update", func(t *testing.T) {
		id := strconv.Itoa(first.ID)
		n, err := store.Update(ctx, id, &models.Post{Title: "First v2", Contents: "one v2"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		posts, err := store.FindByID(ctx, id)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, first.ID, posts[0].ID, "id is immutable")
		assert.Equal(t, "First v2", posts[0].Title)
		assert.Equal(t, "one v2", posts[0].Contents)
	})

	t.Run("update missing post", func(t *testing.T) {
		n, err := store.Update(ctx, "999", &models.Post{Title: "x", Contents: "y"})
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("comments are listed per post", func(t *testing.T) {
		_, err := store.InsertComment(ctx, &models.Comment{PostID: first.ID, Text: "a"})
		require.NoError(t, err)
		_, err = store.InsertComment(ctx, &models.Comment{PostID: first.ID, Text: "b"})
		require.NoError(t, err)
		_, err = store.InsertComment(ctx, &models.Comment{PostID: first.ID * 10, Text: "elsewhere"})
		require.NoError(t, err)

		comments, err := store.FindPostComments(ctx, strconv.Itoa(first.ID))
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "a", comments[0].Text)
		assert.Equal(t, "b", comments[1].Text)
		for _, c := range comments {
			assert.Equal(t, first.ID, c.PostID)
			assert.Greater(t, c.ID, 0)
		}
	})

	t.Run("comments of unknown post", func(t *testing.T) {
		comments, err := store.FindPostComments(ctx, "999")
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("remove leaves comments behind", func(t *testing.T) {
		id := strconv.Itoa(first.ID)
		n, err := store.Remove(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		posts, err := store.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, posts)

		n, err = store.Remove(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		// Deleting a post does not cascade.
		comments, err := store.FindPostComments(ctx, id)
		require.NoError(t, err)
		assert.Len(t, comments, 2)
	})
}

func TestBadgerStoreCancelledContext(t *testing.T) {
	store, err := OpenBadger("", zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Find(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Insert(ctx, &models.Post{Title: "t", Contents: "c"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBadgerBackupAndLoad(t *testing.T) {
	ctx := context.Background()
	src, err := OpenBadger("", zerolog.Nop())
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Insert(ctx, &models.Post{Title: "kept", Contents: "in backup"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = src.Backup(&buf)
	require.NoError(t, err)

	dst, err := OpenBadger("", zerolog.Nop())
	require.NoError(t, err)
	defer dst.Close()
	require.NoError(t, dst.Load(&buf))

	posts, err := dst.Find(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "kept", posts[0].Title)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "", zerolog.Nop())
	assert.Error(t, err)
}

func TestStoresRejectIncompleteRecords(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Insert(ctx, &models.Post{Title: "only a title"})
			assert.Error(t, err)
			_, err = store.InsertComment(ctx, &models.Comment{PostID: 1})
			assert.Error(t, err)

			posts, err := store.Find(ctx)
			require.NoError(t, err)
			assert.Empty(t, posts)
		})
	}
}

func TestStoresConcurrentWrites(t *testing.T) {
	const writers = 50

	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := store.Insert(ctx, &models.Post{Title: "post " + strconv.Itoa(i), Contents: "c"})
					errs <- err
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			posts, err := store.Find(ctx)
			require.NoError(t, err)
			require.Len(t, posts, writers)
			ids := make(map[int]bool)
			for _, p := range posts {
				ids[p.ID] = true
			}
			assert.Len(t, ids, writers)

			target := strconv.Itoa(posts[0].ID)
			counts := make(chan int, writers*2)
			errs = make(chan error, writers*2)
			for i := 0; i < writers; i++ {
				wg.Add(2)
				go func(i int) {
					defer wg.Done()
					n, err := store.Update(ctx, target, &models.Post{Title: "edit " + strconv.Itoa(i), Contents: "c"})
					counts <- n
					errs <- err
				}(i)
				go func() {
					defer wg.Done()
					_, err := store.InsertComment(ctx, &models.Comment{PostID: posts[0].ID, Text: "hi"})
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)
			close(counts)
			for err := range errs {
				require.NoError(t, err)
			}
			for n := range counts {
				assert.Equal(t, 1, n)
			}

			comments, err := store.FindPostComments(ctx, target)
			require.NoError(t, err)
			assert.Len(t, comments, writers)
		})
	}
}

func TestStoresIDFormats(t *testing.T) {
	// Badger matches the exact key; sqlite compares through integer
	// affinity, so a zero padded id still finds the row.
	padded := map[string]int{
		DriverBadger: 0,
		DriverSQLite: 1,
	}

	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			res, err := store.Insert(ctx, &models.Post{Title: "A", Contents: "B"})
			require.NoError(t, err)
			require.Equal(t, 1, res.ID)

			posts, err := store.FindByID(ctx, "01")
			require.NoError(t, err)
			assert.Len(t, posts, padded[name])

			for _, id := range []string{"abc", "1.5", "-1", ""} {
				posts, err := store.FindByID(ctx, id)
				require.NoError(t, err)
				assert.Empty(t, posts, id)
			}
		})
	}
}
