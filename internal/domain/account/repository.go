package account

import (
	"context"
	"errors"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPhoneAlreadyExists = errors.New("phone already exists")
)

// Repository persists accounts. Lookups return (nil, nil) when nothing
// matches; Create maps unique index violations to ErrEmailAlreadyExists
// or ErrPhoneAlreadyExists. List and Search order by CreatedAt desc.
type Repository interface {
	FindByID(ctx context.Context, id ID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*Account, error)
	Create(ctx context.Context, req Account) (*Account, error)
	List(ctx context.Context, f ListFilter) (Accounts, error)
	Search(ctx context.Context, f SearchFilter) (Accounts, error)
	Count(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, id ID, name, profileImageURL string) (*Account, error)
	UpdatePassword(ctx context.Context, id ID, passwordHash string) (*Account, error)
	UpdateStatus(ctx context.Context, id ID, status Status) (*Account, error)
}
