package account

import (
	"time"
)

type (
	Account struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Email           string    `json:"email"`
		Phone           string    `json:"phone"`
		ProfileImageURL string    `json:"profileImageUrl"`
		AccountType     string    `json:"accountType"`
		Status          string    `json:"status"`
		CreatedAt       time.Time `json:"createdAt"`
		UpdatedAt       time.Time `json:"updatedAt"`
	}
	Accounts []Account

	// Response is the envelope of every successful reply.
	Response struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
		Data    any    `json:"data,omitempty"`
		Token   string `json:"token,omitempty"`
	}
	ListResponse struct {
		Message string   `json:"message"`
		Status  int      `json:"status"`
		Data    Accounts `json:"data"`
		Count   int64    `json:"count"`
	}

	ErrorBody struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Details any    `json:"details,omitempty"`
	}
	ErrorResponse struct {
		Error ErrorBody `json:"error"`
	}
)
