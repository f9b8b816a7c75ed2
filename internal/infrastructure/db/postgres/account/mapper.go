package account

import (
	domain "manager-account-api/internal/domain/account"
)

func fromDBModel(model *Account) *domain.Account {
	return &domain.Account{
		ID:              model.ID.String(),
		Name:            model.Name,
		Email:           model.Email,
		Phone:           model.Phone,
		PasswordHash:    model.PasswordHash,
		ProfileImageURL: model.ProfileImageURL,
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
