package ports

import (
	"context"
	"mime/multipart"

	"manager-account-api/internal/domain/account"
)

type AccountService interface {
	Register(ctx context.Context, in account.RegisterInput) (*account.AuthResult, error)
	Login(ctx context.Context, in account.LoginInput) (*account.AuthResult, error)
	ListAccounts(ctx context.Context, caller account.Caller, q account.ListQuery) (*account.Page, error)
	SearchAccounts(ctx context.Context, caller account.Caller, q account.SearchQuery) (*account.Page, error)
	UpdateProfile(ctx context.Context, caller account.Caller, in account.UpdateProfileInput, image *multipart.FileHeader) (*account.Account, error)
	UpdatePassword(ctx context.Context, caller account.Caller, in account.UpdatePasswordInput) error
	AddAdmin(ctx context.Context, caller account.Caller, in account.AddAdminInput) (*account.Account, error)
	UpdateStatus(ctx context.Context, caller account.Caller, in account.UpdateStatusInput) (*account.Account, error)
}
