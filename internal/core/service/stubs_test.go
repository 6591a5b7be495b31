package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User // keyed by email
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

// ---------------------------------------------------------------------------
// Invitations
// ---------------------------------------------------------------------------

type stubInvitationRepo struct {
	byID    map[string]*domain.Invitation
	inserts int
	saves   int
}

func newStubInvitationRepo() *stubInvitationRepo {
	return &stubInvitationRepo{byID: make(map[string]*domain.Invitation)}
}

func cloneInvitation(i *domain.Invitation) *domain.Invitation {
	clone := *i
	return &clone
}

func (r *stubInvitationRepo) put(inv *domain.Invitation) {
	r.byID[inv.ID] = cloneInvitation(inv)
}

func (r *stubInvitationRepo) FindByID(_ context.Context, id string) (*domain.Invitation, error) {
	inv, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	return cloneInvitation(inv), nil
}

func (r *stubInvitationRepo) FindByEmail(_ context.Context, email string) (*domain.Invitation, error) {
	for _, inv := range r.byID {
		if inv.Email == email {
			return cloneInvitation(inv), nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

func (r *stubInvitationRepo) FindUnusedByToken(_ context.Context, token string) (*domain.Invitation, error) {
	for _, inv := range r.byID {
		if inv.Token == token && !inv.IsUsed {
			return cloneInvitation(inv), nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

func (r *stubInvitationRepo) Insert(_ context.Context, inv *domain.Invitation) error {
	r.inserts++
	r.put(inv)
	return nil
}

func (r *stubInvitationRepo) Save(_ context.Context, inv *domain.Invitation) error {
	if _, ok := r.byID[inv.ID]; !ok {
		return domain.ErrInvitationNotFound
	}
	r.saves++
	r.put(inv)
	return nil
}

func (r *stubInvitationRepo) MarkUsed(_ context.Context, id string) (bool, error) {
	inv, ok := r.byID[id]
	if !ok || inv.IsUsed {
		return false, nil
	}
	inv.IsUsed = true
	return true, nil
}

func (r *stubInvitationRepo) List(_ context.Context, invitedByID string) ([]*domain.Invitation, error) {
	var out []*domain.Invitation
	for _, inv := range r.byID {
		if invitedByID != "" && inv.InvitedByID != invitedByID {
			continue
		}
		out = append(out, cloneInvitation(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []ports.InvitationNotice
}

func (n *recordingNotifier) Notify(notice ports.InvitationNotice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	byID       map[string]*domain.Task
	lastFilter ports.ListTasksFilter
	updates    int
	listErr    error
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if _, ok := r.byID[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.updates++
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}

// List applies the same filters and ordering the Mongo repository uses.
func (r *stubTaskRepo) List(_ context.Context, f ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	r.lastFilter = f
	if r.listErr != nil {
		return nil, 0, r.listErr
	}

	var matched []*domain.Task
	for _, t := range r.byID {
		if f.OwnerID != "" && t.UserID != f.OwnerID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		clone := *t
		matched = append(matched, &clone)
	}
	total := int64(len(matched))

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	if f.Cursor != "" {
		var after []*domain.Task
		for _, t := range matched {
			if t.ID < f.Cursor {
				after = append(after, t)
			}
		}
		matched = after
	} else if f.Skip > 0 {
		if f.Skip >= len(matched) {
			return []*domain.Task{}, total, nil
		}
		matched = matched[f.Skip:]
	}

	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

// fixedClock returns a now func frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
