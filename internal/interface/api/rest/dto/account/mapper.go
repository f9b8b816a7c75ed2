package account

import (
	"manager-account-api/internal/domain/account"
)

// ToResponseAccount drops the password hash; it is the only way accounts
// leave the service.
func ToResponseAccount(aDomain account.Account) Account {
	var a = Account{
		ID:              aDomain.ID,
		Name:            aDomain.Name,
		Email:           aDomain.Email,
		Phone:           aDomain.Phone,
		ProfileImageURL: aDomain.ProfileImageURL,
		AccountType:     string(aDomain.AccountType),
		Status:          string(aDomain.Status),
		CreatedAt:       aDomain.CreatedAt,
		UpdatedAt:       aDomain.UpdatedAt,
	}

	return a
}

func ToResponseAccounts(asDomain account.Accounts) Accounts {
	as := make(Accounts, len(asDomain))
	for idx, a := range asDomain {
		as[idx] = ToResponseAccount(*a)
	}

	return as
}
