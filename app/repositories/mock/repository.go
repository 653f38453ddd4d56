package mock

import (
	"context"
	"strconv"
	"sync"
	"time"

	"postsapi/app/models"
)

// Store is an in-memory Store with call counting and failure injection.
type Store struct {
	posts    map[int]*models.Post
	comments map[int]*models.Comment
	postSeq  int
	comSeq   int
	mutex    sync.RWMutex

	// Errors maps an operation name ("find", "find_by_id", "insert",
	// "update", "remove", "find_post_comments", "insert_comment") to the
	// error that call should return.
	Errors map[string]error
	// Affected overrides the count update and remove report when set.
	Affected map[string]int
	// Duplicate makes FindByID report every match twice.
	Duplicate bool
	// DropInserts makes Insert and InsertComment hand back ids without
	// keeping the record.
	DropInserts bool

	calls map[string]int
}

func NewStore() *Store {
	s := &Store{}
	s.Clear()
	return s
}

// Clear drops all records, injected failures and counters.
func (m *Store) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.posts = make(map[int]*models.Post)
	m.comments = make(map[int]*models.Comment)
	m.postSeq = 0
	m.comSeq = 0
	m.Errors = make(map[string]error)
	m.Affected = make(map[string]int)
	m.Duplicate = false
	m.DropInserts = false
	m.calls = make(map[string]int)
}

// Calls reports how many times op was invoked.
func (m *Store) Calls(op string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.calls[op]
}

// TotalCalls reports the number of store calls of any kind.
func (m *Store) TotalCalls() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// Comments returns every stored comment regardless of post.
func (m *Store) Comments() []*models.Comment {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]*models.Comment, 0, len(m.comments))
	for id := 1; id <= m.comSeq; id++ {
		if c, ok := m.comments[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}

// enter records the call and returns the injected error for op. Callers
// hold the write lock.
func (m *Store) enter(op string) error {
	m.calls[op]++
	return m.Errors[op]
}

func (m *Store) Find(ctx context.Context) ([]*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.enter("find"); err != nil {
		return nil, err
	}

	posts := []*models.Post{}
	for id := 1; id <= m.postSeq; id++ {
		if post, exists := m.posts[id]; exists {
			cp := *post
			posts = append(posts, &cp)
		}
	}
	return posts, nil
}

func (m *Store) FindByID(ctx context.Context, id string) ([]*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.enter("find_by_id"); err != nil {
		return nil, err
	}

	posts := []*models.Post{}
	if post, exists := m.lookup(id); exists {
		cp := *post
		posts = append(posts, &cp)
		if m.Duplicate {
			dup := *post
			posts = append(posts, &dup)
		}
	}
	return posts, nil
}

func (m *Store) Insert(ctx context.Context, post *models.Post) (models.InsertResult, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.enter("insert"); err != nil {
		return models.InsertResult{}, err
	}

	m.postSeq++
	post.ID = m.postSeq
	post.Stamp(time.Now())
	if !m.DropInserts {
		cp := *post
		m.posts[post.ID] = &cp
	}
	return models.InsertResult{ID: post.ID}, nil
}

func (m *Store) Update(ctx context.Context, id string, post *models.Post) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.enter("update"); err != nil {
		return 0, err
	}
	if n, ok := m.Affected["update"]; ok {
		return n, nil
	}

	existing, exists := m.lookup(id)
	if !exists {
		return 0, nil
	}
	existing.Apply(post)
	existing.Stamp(time.Now())
	return 1, nil
}

func (m *Store) Remove(ctx context.Context, id string) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.enter("remove"); err != nil {
		return 0, err
	}
	if n, ok := m.Affected["remove"]; ok {
		return n, nil
	}

	existing, exists := m.lookup(id)
	if !exists {
		return 0, nil
	}
	delete(m.posts, existing.ID)
	return 1, nil
}

func (m *Store) FindPostComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.enter("find_post_comments"); err != nil {
		return nil, err
	}

	comments := []*models.Comment{}
	pid, err := strconv.Atoi(postID)
	if err != nil {
		return comments, nil
	}
	for id := 1; id <= m.comSeq; id++ {
		if c, ok := m.comments[id]; ok && c.PostID == pid {
			cp := *c
			comments = append(comments, &cp)
		}
	}
	return comments, nil
}

func (m *Store) InsertComment(ctx context.Context, comment *models.Comment) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.enter("insert_comment"); err != nil {
		return 0, err
	}

	m.comSeq++
	comment.ID = m.comSeq
	comment.Stamp(time.Now())
	if !m.DropInserts {
		cp := *comment
		m.comments[comment.ID] = &cp
	}
	return comment.ID, nil
}

func (m *Store) Close() error {
	return nil
}

// lookup matches the opaque id against the decimal form of stored ids.
func (m *Store) lookup(id string) (*models.Post, bool) {
	n, err := strconv.Atoi(id)
	if err != nil || strconv.Itoa(n) != id {
		return nil, false
	}
	post, exists := m.posts[n]
	return post, exists
}
