package account

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit inside int64 for every allowed limit.
	MaxPage = math.MaxInt32
)

type (
	RegisterInput struct {
		Name        string `json:"name" validate:"required,min=3,max=50,personname"`
		Email       string `json:"email" validate:"required,email"`
		Phone       string `json:"phone" validate:"required,len=10,digits"`
		Password    string `json:"password" validate:"required,min=8,max=30,strongpassword"`
		AccountType string `json:"accountType" validate:"required,eq=manager"`
	}

	LoginInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=30,strongpassword"`
	}

	UpdatePasswordInput struct {
		CurrentPassword string `json:"currentPassword" validate:"required,min=8,max=30,strongpassword"`
		NewPassword     string `json:"newPassword" validate:"required,min=8,max=30,strongpassword"`
		ConfirmPassword string `json:"confirmPassword" validate:"required,min=8,max=30,strongpassword"`
	}

	AddAdminInput struct {
		Name  string `json:"name" validate:"required,min=3,max=50,personname"`
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone" validate:"required,len=10,digits"`
	}

	UpdateProfileInput struct {
		Name string `json:"name" validate:"omitempty,min=3,max=50,personname"`
	}

	UpdateStatusInput struct {
		StatusType string `json:"statusType" validate:"required,oneof=active inactive deleted"`
		ID         ID     `json:"id" validate:"required"`
	}

	Pagination struct {
		Page  int
		Limit int
	}

	ListQuery struct {
		Pagination
		SortType string `json:"sortType" validate:"omitempty,oneof=employee manager"`
	}

	SearchQuery struct {
		Pagination
		Value string
	}

	ListFilter struct {
		AccountType Type
		Offset      int64
		Limit       int64
	}

	SearchFilter struct {
		Term      string
		ExcludeID ID
		Offset    int64
		Limit     int64
	}
)

// Normalize clamps page/limit into their allowed ranges.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

func (p Pagination) Offset() int64 { return int64(p.Limit) * int64(p.Page-1) }
