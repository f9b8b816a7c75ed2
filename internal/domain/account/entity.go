package account

import (
	"time"
)

type (
	ID     = string
	Type   string
	Status string

	Account struct {
		ID              ID
		Name            string
		Email           string
		Phone           string
		PasswordHash    string
		ProfileImageURL string
		AccountType     Type
		Status          Status

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Accounts []*Account

	// Caller is the authenticated identity a request acts on behalf of.
	// It is decoded from the token, so Status can lag behind the store.
	Caller struct {
		ID          ID
		AccountType Type
		Status      Status
	}

	// Page is one page of a listing plus the total number of accounts in
	// the store, independent of any filter.
	Page struct {
		Items Accounts
		Count int64
	}

	AuthResult struct {
		Account *Account
		Token   string
	}
)

const (
	TypeEmployee Type = "employee"
	TypeManager  Type = "manager"

	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

func (t Type) Valid() bool { return t == TypeEmployee || t == TypeManager }

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive || s == StatusDeleted
}

func (c Caller) IsManager() bool { return c.AccountType == TypeManager }

// New returns an account with the store defaults applied.
func New(name, email, phone, passwordHash string, accountType Type) Account {
	if !accountType.Valid() {
		accountType = TypeEmployee
	}
	return Account{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		AccountType:  accountType,
		Status:       StatusActive,
	}
}
