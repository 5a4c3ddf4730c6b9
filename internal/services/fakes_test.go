package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"pulseboard/internal/domain/post"
	"pulseboard/internal/domain/upload"
	"pulseboard/internal/domain/user"
	"pulseboard/internal/notify"
	pulseboard_errors "pulseboard/pkg/errors"
)

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]user.User
	sessions map[uuid.UUID]user.UserSession
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[uuid.UUID]user.User),
		sessions: make(map[uuid.UUID]user.UserSession),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return pulseboard_errors.ErrAlreadyExists
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, pulseboard_errors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, pulseboard_errors.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, pulseboard_errors.ErrNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, page, limit int) ([]user.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return pulseboard_errors.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pulseboard_errors.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CreateSession(ctx context.Context, s *user.UserSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *fakeUserRepo) GetSessionByID(ctx context.Context, sessionID uuid.UUID) (user.UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return user.UserSession{}, pulseboard_errors.ErrNotFound
	}
	return s, nil
}

func (r *fakeUserRepo) UpdateSession(ctx context.Context, s user.UserSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return pulseboard_errors.ErrNotFound
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeUserRepo) RevokeSession(ctx context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return pulseboard_errors.ErrNotFound
	}
	s.IsRevoked = true
	r.sessions[sessionID] = s
	return nil
}

func (r *fakeUserRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID {
			s.IsRevoked = true
			r.sessions[id] = s
		}
	}
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]post.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uuid.UUID]post.Post)}
}

func (r *fakePostRepo) Create(ctx context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = *p
	return nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id uuid.UUID) (post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return post.Post{}, pulseboard_errors.ErrNotFound
	}
	return p, nil
}

func (r *fakePostRepo) List(ctx context.Context, page, limit int) ([]post.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]post.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePostRepo) Update(ctx context.Context, p post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[p.ID]; !ok {
		return pulseboard_errors.ErrNotFound
	}
	r.posts[p.ID] = p
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return pulseboard_errors.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type fakeUploadRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]upload.UploadSession
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{sessions: make(map[uuid.UUID]upload.UploadSession)}
}

func (r *fakeUploadRepo) Create(ctx context.Context, s *upload.UploadSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *fakeUploadRepo) GetByID(ctx context.Context, id uuid.UUID) (upload.UploadSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return upload.UploadSession{}, pulseboard_errors.ErrNotFound
	}
	return s, nil
}

func (r *fakeUploadRepo) Update(ctx context.Context, s upload.UploadSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return pulseboard_errors.ErrNotFound
	}
	r.sessions[s.ID] = s
	return nil
}

type broadcastCall struct {
	payload notify.Payload
	exclude string
}

type fakeDispatcher struct {
	mu         sync.Mutex
	sends      []notify.Payload
	broadcasts []broadcastCall
	sendResult bool
}

func (d *fakeDispatcher) SendToIdentity(identity string, p notify.Payload) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sends = append(d.sends, p)
	return d.sendResult
}

func (d *fakeDispatcher) Broadcast(p notify.Payload, exclude string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.broadcasts = append(d.broadcasts, broadcastCall{payload: p, exclude: exclude})
	return len(d.broadcasts)
}
