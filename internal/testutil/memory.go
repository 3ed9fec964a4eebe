// Package testutil provides in-memory stores, fixtures and an HTTP test
// server for exercising the services without Postgres or Redis.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"mini_one/internal/common"
	"mini_one/internal/domain/model"

	"github.com/google/uuid"
)

// MemoryUserRepository enforces the same uniqueness rules as the users table.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*model.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return common.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
	}
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

// Remove drops a user, leaving any issued tokens dangling.
func (r *MemoryUserRepository) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func (r *MemoryUserRepository) find(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

// MemoryMessageRepository joins authors from a MemoryUserRepository, the way
// the SQL implementation joins users.
type MemoryMessageRepository struct {
	mu       sync.Mutex
	users    *MemoryUserRepository
	messages map[string]*model.Message
	last     time.Time
	Err      error
}

func NewMemoryMessageRepository(users *MemoryUserRepository) *MemoryMessageRepository {
	return &MemoryMessageRepository{users: users, messages: make(map[string]*model.Message)}
}

// tick returns a timestamp strictly after the previous one.
func (r *MemoryMessageRepository) tick() time.Time {
	now := time.Now()
	if !now.After(r.last) {
		now = r.last.Add(time.Microsecond)
	}
	r.last = now
	return now
}

func (r *MemoryMessageRepository) ListRecent(ctx context.Context, limit int) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]model.Message, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, r.withAuthor(*m))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	now := r.tick()
	msg.ID = uuid.NewString()
	msg.CreatedAt, msg.UpdatedAt = now, now
	*msg = r.withAuthor(*msg)
	stored := *msg
	r.messages[msg.ID] = &stored
	return nil
}

func (r *MemoryMessageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	m, ok := r.messages[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := r.withAuthor(*m)
	return &found, nil
}

func (r *MemoryMessageRepository) UpdateText(ctx context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	m, ok := r.messages[msg.ID]
	if !ok {
		return common.ErrNotFound
	}
	m.Text = msg.Text
	m.UpdatedAt = r.tick()
	msg.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *MemoryMessageRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.messages[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

// Seed stores a message with an explicit creation time.
func (r *MemoryMessageRepository) Seed(authorID, text string, createdAt time.Time) *model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := &model.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Author:    model.Author{ID: authorID},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	r.messages[msg.ID] = msg
	seeded := r.withAuthor(*msg)
	return &seeded
}

func (r *MemoryMessageRepository) withAuthor(m model.Message) model.Message {
	if u, err := r.users.FindByID(context.Background(), m.Author.ID); err == nil {
		m.Author.Username = u.Username
	}
	return m
}
