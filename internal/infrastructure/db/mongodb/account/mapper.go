package account

import (
	domain "manager-account-api/internal/domain/account"
)

func fromDBModel(model *Account) *domain.Account {
	return &domain.Account{
		ID:              model.ID.Hex(),
		Name:            model.Name,
		Email:           model.Email,
		Phone:           model.Phone,
		PasswordHash:    model.Password,
		ProfileImageURL: model.ProfileImage,
		AccountType:     domain.Type(model.AccountType),
		Status:          domain.Status(model.Status),

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func fromDBModels(models Accounts) domain.Accounts {
	as := make(domain.Accounts, len(models))
	for idx, a := range models {
		as[idx] = fromDBModel(a)
	}

	return as
}

func toDBModel(a domain.Account) *Account {
	return &Account{
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		Password:     a.PasswordHash,
		ProfileImage: a.ProfileImageURL,
		AccountType:  string(a.AccountType),
		Status:       string(a.Status),

		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
