package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"manager-account-api/internal/domain/account"
	"manager-account-api/internal/infrastructure/db/postgres"
)

const (
	emailConstraint = "accounts_email_key"
	phoneConstraint = "accounts_phone_key"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Querier is the part of *pgxpool.Pool the repository uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db Querier
}

var _ account.Repository = (*Repository)(nil)

func NewRepository(db Querier) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, CreateAccountsTable)
	return err
}

func (r *Repository) FindByID(ctx context.Context, id account.ID) (*account.Account, error) {
	// ids that are not uuids cannot exist
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.queryOne(ctx, SelectAccountByID, id)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.queryOne(ctx, SelectAccountByEmail, email)
}

func (r *Repository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*account.Account, error) {
	return r.queryOne(ctx, SelectAccountByEmailOrPhone, email, phone)
}

func (r *Repository) Create(ctx context.Context, req account.Account) (*account.Account, error) {
	a, err := r.queryOne(
		ctx,
		InsertAccount,
		req.Name, req.Email, req.Phone, req.PasswordHash, req.ProfileImageURL, string(req.AccountType), string(req.Status),
	)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			if postgres.ViolatedConstraint(err) == phoneConstraint {
				return nil, account.ErrPhoneAlreadyExists
			}
			return nil, account.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return a, nil
}

func (r *Repository) List(ctx context.Context, f account.ListFilter) (account.Accounts, error) {
	return r.queryMany(ctx, SelectAccounts, string(f.AccountType), f.Limit, f.Offset)
}

func (r *Repository) Search(ctx context.Context, f account.SearchFilter) (account.Accounts, error) {
	pattern := "%" + likeEscaper.Replace(f.Term) + "%"
	return r.queryMany(ctx, SearchAccounts, f.ExcludeID, pattern, f.Limit, f.Offset)
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, CountAccounts).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) UpdateProfile(
	ctx context.Context,
	id account.ID,
	name, profileImageURL string,
) (*account.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.queryOne(ctx, UpdateProfile, name, profileImageURL, id)
}

func (r *Repository) UpdatePassword(ctx context.Context, id account.ID, passwordHash string) (*account.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.queryOne(ctx, UpdatePassword, passwordHash, id)
}

func (r *Repository) UpdateStatus(ctx context.Context, id account.ID, status account.Status) (*account.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.queryOne(ctx, UpdateStatus, string(status), id)
}

func (r *Repository) queryOne(ctx context.Context, sql string, args ...any) (*account.Account, error) {
	a := new(Account)
	if err := scanAccount(r.db.QueryRow(ctx, sql, args...), a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(a), nil
}

func (r *Repository) queryMany(ctx context.Context, sql string, args ...any) (account.Accounts, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	as := Accounts{}
	for rows.Next() {
		a := new(Account)
		if err = scanAccount(rows, a); err != nil {
			return nil, err
		}
		as = append(as, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(as), nil
}

func scanAccount(row pgx.Row, a *Account) error {
	return row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.PasswordHash,
		&a.ProfileImageURL,
		&a.AccountType,
		&a.Status,

		&a.CreatedAt,
		&a.UpdatedAt,
	)
}
