package account

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"manager-account-api/internal/domain/account"
)

// Repository keeps accounts in process memory. It enforces the same unique
// email and phone rules as the database stores.
type Repository struct {
	mu       sync.RWMutex
	accounts map[account.ID]*account.Account
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		accounts: make(map[account.ID]*account.Account),
		now:      time.Now,
	}
}

var _ account.Repository = (*Repository)(nil)

func (r *Repository) FindByID(_ context.Context, id account.ID) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.accounts[id]; ok {
		return clone(a), nil
	}
	return nil, nil
}

func (r *Repository) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			return clone(a), nil
		}
	}
	return nil, nil
}

func (r *Repository) FindByEmailOrPhone(_ context.Context, email, phone string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var byPhone *account.Account
	for _, a := range r.accounts {
		if a.Email == email {
			return clone(a), nil
		}
		if a.Phone == phone && byPhone == nil {
			byPhone = a
		}
	}
	if byPhone != nil {
		return clone(byPhone), nil
	}
	return nil, nil
}

func (r *Repository) Create(_ context.Context, req account.Account) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == req.Email {
			return nil, account.ErrEmailAlreadyExists
		}
		if a.Phone == req.Phone {
			return nil, account.ErrPhoneAlreadyExists
		}
	}

	now := r.now().UTC()
	a := req
	a.ID = uuid.NewString()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	r.accounts[a.ID] = &a

	return clone(&a), nil
}

func (r *Repository) List(_ context.Context, f account.ListFilter) (account.Accounts, error) {
	return r.page(func(a *account.Account) bool {
		if f.AccountType == "" {
			return true
		}
		return a.AccountType == f.AccountType && a.Status != account.StatusDeleted
	}, f.Offset, f.Limit), nil
}

func (r *Repository) Search(_ context.Context, f account.SearchFilter) (account.Accounts, error) {
	term := strings.ToLower(f.Term)
	return r.page(func(a *account.Account) bool {
		if a.Status != account.StatusActive || a.ID == f.ExcludeID {
			return false
		}
		return strings.Contains(strings.ToLower(a.Name), term) ||
			strings.Contains(strings.ToLower(a.Email), term) ||
			strings.Contains(strings.ToLower(a.Phone), term)
	}, f.Offset, f.Limit), nil
}

func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.accounts)), nil
}

func (r *Repository) UpdateProfile(
	_ context.Context,
	id account.ID,
	name, profileImageURL string,
) (*account.Account, error) {
	return r.update(id, func(a *account.Account) {
		a.Name = name
		a.ProfileImageURL = profileImageURL
	}), nil
}

func (r *Repository) UpdatePassword(_ context.Context, id account.ID, passwordHash string) (*account.Account, error) {
	return r.update(id, func(a *account.Account) { a.PasswordHash = passwordHash }), nil
}

func (r *Repository) UpdateStatus(_ context.Context, id account.ID, status account.Status) (*account.Account, error) {
	return r.update(id, func(a *account.Account) { a.Status = status }), nil
}

func (r *Repository) update(id account.ID, apply func(a *account.Account)) *account.Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil
	}
	apply(a)
	a.UpdatedAt = r.now().UTC()

	return clone(a)
}

// page returns matching accounts newest first.
func (r *Repository) page(match func(a *account.Account) bool, offset, limit int64) account.Accounts {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make(account.Accounts, 0, len(r.accounts))
	for _, a := range r.accounts {
		if match(a) {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	out := account.Accounts{}
	if offset < 0 || offset >= int64(len(matched)) {
		return out
	}
	end := offset + limit
	if limit <= 0 || end > int64(len(matched)) {
		end = int64(len(matched))
	}
	for _, a := range matched[offset:end] {
		out = append(out, clone(a))
	}

	return out
}

func clone(a *account.Account) *account.Account {
	c := *a
	return &c
}
