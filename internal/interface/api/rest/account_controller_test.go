package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"manager-account-api/internal/apperror"
	"manager-account-api/internal/application/ports"
	"manager-account-api/internal/application/services"
	"manager-account-api/internal/domain/account"
	"manager-account-api/internal/infrastructure/jwt"
	"manager-account-api/internal/infrastructure/metrics"
)

type FakeAccountService struct {
	RegisterFunc       func(ctx context.Context, in account.RegisterInput) (*account.AuthResult, error)
	LoginFunc          func(ctx context.Context, in account.LoginInput) (*account.AuthResult, error)
	ListAccountsFunc   func(ctx context.Context, caller account.Caller, q account.ListQuery) (*account.Page, error)
	SearchAccountsFunc func(ctx context.Context, caller account.Caller, q account.SearchQuery) (*account.Page, error)
	UpdateProfileFunc  func(ctx context.Context, caller account.Caller, in account.UpdateProfileInput, image *multipart.FileHeader) (*account.Account, error)
	UpdatePasswordFunc func(ctx context.Context, caller account.Caller, in account.UpdatePasswordInput) error
	AddAdminFunc       func(ctx context.Context, caller account.Caller, in account.AddAdminInput) (*account.Account, error)
	UpdateStatusFunc   func(ctx context.Context, caller account.Caller, in account.UpdateStatusInput) (*account.Account, error)
}

var errNotUsed = errors.New("not used")

func (f *FakeAccountService) Register(ctx context.Context, in account.RegisterInput) (*account.AuthResult, error) {
	if f.RegisterFunc == nil {
		return nil, errNotUsed
	}
	return f.RegisterFunc(ctx, in)
}
func (f *FakeAccountService) Login(ctx context.Context, in account.LoginInput) (*account.AuthResult, error) {
	if f.LoginFunc == nil {
		return nil, errNotUsed
	}
	return f.LoginFunc(ctx, in)
}
func (f *FakeAccountService) ListAccounts(ctx context.Context, caller account.Caller, q account.ListQuery) (*account.Page, error) {
	if f.ListAccountsFunc == nil {
		return nil, errNotUsed
	}
	return f.ListAccountsFunc(ctx, caller, q)
}
func (f *FakeAccountService) SearchAccounts(ctx context.Context, caller account.Caller, q account.SearchQuery) (*account.Page, error) {
	if f.SearchAccountsFunc == nil {
		return nil, errNotUsed
	}
	return f.SearchAccountsFunc(ctx, caller, q)
}
func (f *FakeAccountService) UpdateProfile(ctx context.Context, caller account.Caller, in account.UpdateProfileInput, image *multipart.FileHeader) (*account.Account, error) {
	if f.UpdateProfileFunc == nil {
		return nil, errNotUsed
	}
	return f.UpdateProfileFunc(ctx, caller, in, image)
}
func (f *FakeAccountService) UpdatePassword(ctx context.Context, caller account.Caller, in account.UpdatePasswordInput) error {
	if f.UpdatePasswordFunc == nil {
		return errNotUsed
	}
	return f.UpdatePasswordFunc(ctx, caller, in)
}
func (f *FakeAccountService) AddAdmin(ctx context.Context, caller account.Caller, in account.AddAdminInput) (*account.Account, error) {
	if f.AddAdminFunc == nil {
		return nil, errNotUsed
	}
	return f.AddAdminFunc(ctx, caller, in)
}
func (f *FakeAccountService) UpdateStatus(ctx context.Context, caller account.Caller, in account.UpdateStatusInput) (*account.Account, error) {
	if f.UpdateStatusFunc == nil {
		return nil, errNotUsed
	}
	return f.UpdateStatusFunc(ctx, caller, in)
}

func setupRouter(t *testing.T, as ports.AccountService) (*gin.Engine, ports.Credentials) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	creds := services.NewCredentialService(jwt.New("test-secret"), bcrypt.MinCost, time.Hour)
	r := NewRouter(logger, metrics.NewUnregisteredCounter())
	NewAccountController(r, as, creds, logger)

	return r, creds
}

func signToken(t *testing.T, creds ports.Credentials, a *account.Account) string {
	t.Helper()
	token, err := creds.IssueToken(a)
	require.NoError(t, err)
	return token
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Reader
	switch v := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	e, ok := decode(t, rr)["error"].(map[string]any)
	require.True(t, ok, rr.Body.String())
	return e["message"].(string)
}

func someManager() *account.Account {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &account.Account{
		ID:           "66f1c0aa11bb22cc33dd44ee",
		Name:         "Jane Doe",
		Email:        "jane@x.com",
		Phone:        "9876543210",
		PasswordHash: "$2a$10$secret",
		AccountType:  account.TypeManager,
		Status:       account.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRegisterHandler(t *testing.T) {
	manager := someManager()

	tests := []struct {
		name     string
		body     any
		register func(ctx context.Context, in account.RegisterInput) (*account.AuthResult, error)
		wantCode int
		wantMsg  string
	}{
		{
			name: "created",
			body: map[string]string{
				"name": "Jane Doe", "email": "jane@x.com", "phone": "9876543210",
				"password": "Abcdef1!", "accountType": "manager",
			},
			register: func(_ context.Context, in account.RegisterInput) (*account.AuthResult, error) {
				assert.Equal(t, "Abcdef1!", in.Password)
				assert.Equal(t, "manager", in.AccountType)
				return &account.AuthResult{Account: manager, Token: "tok_123"}, nil
			},
			wantCode: http.StatusCreated,
			wantMsg:  "Register successfull",
		},
		{
			name: "conflict",
			body: map[string]string{"email": "jane@x.com"},
			register: func(context.Context, account.RegisterInput) (*account.AuthResult, error) {
				return nil, apperror.Conflict("Email already exists")
			},
			wantCode: http.StatusConflict,
			wantMsg:  "Email already exists",
		},
		{
			name:     "malformed json",
			body:     `{"name":`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid request body",
		},
		{
			name: "store failure",
			body: map[string]string{"email": "jane@x.com"},
			register: func(context.Context, account.RegisterInput) (*account.AuthResult, error) {
				return nil, errors.New("mongo: no reachable servers")
			},
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setupRouter(t, &FakeAccountService{RegisterFunc: tt.register})

			rr := doReq(t, r, http.MethodPost, RouteRegister, tt.body, nil)

			require.Equal(t, tt.wantCode, rr.Code, rr.Body.String())
			if tt.wantCode != http.StatusCreated {
				assert.Equal(t, tt.wantMsg, errorMessage(t, rr))
				return
			}

			resp := decode(t, rr)
			assert.Equal(t, tt.wantMsg, resp["message"])
			assert.EqualValues(t, http.StatusCreated, resp["status"])
			assert.Equal(t, "tok_123", resp["token"])
			data := resp["data"].(map[string]any)
			assert.Equal(t, "jane@x.com", data["email"])
			assert.NotContains(t, data, "password")
			assert.NotContains(t, rr.Body.String(), manager.PasswordHash)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	manager := someManager()
	r, _ := setupRouter(t, &FakeAccountService{
		LoginFunc: func(_ context.Context, in account.LoginInput) (*account.AuthResult, error) {
			if in.Password != "Abcdef1!" {
				return nil, apperror.Unauthorized("Password is not correct")
			}
			return &account.AuthResult{Account: manager, Token: "tok_123"}, nil
		},
	})

	rr := doReq(t, r, http.MethodPost, RouteLogin, map[string]string{"email": "jane@x.com", "password": "Abcdef1!"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, "Login successfull", resp["message"])
	assert.Equal(t, "tok_123", resp["token"])

	rr = doReq(t, r, http.MethodPost, RouteLogin, map[string]string{"email": "jane@x.com", "password": "nope"}, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Password is not correct", errorMessage(t, rr))
}

func TestListHandler(t *testing.T) {
	manager := someManager()
	var got account.ListQuery
	var gotCaller account.Caller
	r, creds := setupRouter(t, &FakeAccountService{
		ListAccountsFunc: func(_ context.Context, caller account.Caller, q account.ListQuery) (*account.Page, error) {
			got, gotCaller = q, caller
			return &account.Page{Items: account.Accounts{manager}, Count: 25}, nil
		},
	})

	rr := doReq(t, r, http.MethodGet, RouteAdmins+"?page=3&limit=10&sortType=manager", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token is required", errorMessage(t, rr))

	token := signToken(t, creds, manager)
	rr = doReq(t, r, http.MethodGet, RouteAdmins+"?page=3&limit=10&sortType=manager", nil,
		map[string]string{"x-access-token": token})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.Equal(t, account.Pagination{Page: 3, Limit: 10}, got.Pagination)
	assert.Equal(t, "manager", got.SortType)
	assert.Equal(t, manager.ID, gotCaller.ID)
	assert.Equal(t, account.TypeManager, gotCaller.AccountType)

	resp := decode(t, rr)
	assert.Equal(t, "Get all lists of admins", resp["message"])
	assert.EqualValues(t, 25, resp["count"])
	assert.Len(t, resp["data"], 1)

	rr = doReq(t, r, http.MethodGet, RouteAdmins+"?page=abc", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, account.Pagination{}, got.Pagination)
}

func TestSearchHandler(t *testing.T) {
	manager := someManager()
	var got account.SearchQuery
	r, creds := setupRouter(t, &FakeAccountService{
		SearchAccountsFunc: func(_ context.Context, _ account.Caller, q account.SearchQuery) (*account.Page, error) {
			got = q
			return &account.Page{Items: account.Accounts{}, Count: 3}, nil
		},
	})

	rr := doReq(t, r, http.MethodGet, RouteSearchMembers+"?value=jan&limit=5", nil,
		map[string]string{"x-access-token": signToken(t, creds, manager)})
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "jan", got.Value)
	assert.Equal(t, 5, got.Limit)
	resp := decode(t, rr)
	assert.Equal(t, "Get all search lists of admins", resp["message"])
	assert.Equal(t, []any{}, resp["data"])
}

func TestUpdateProfileHandler_Multipart(t *testing.T) {
	manager := someManager()
	r, creds := setupRouter(t, &FakeAccountService{
		UpdateProfileFunc: func(_ context.Context, caller account.Caller, in account.UpdateProfileInput, image *multipart.FileHeader) (*account.Account, error) {
			require.NotNil(t, image)
			assert.Equal(t, "me.png", image.Filename)
			assert.Equal(t, manager.ID, caller.ID)
			updated := *manager
			updated.Name = in.Name
			updated.ProfileImageURL = "/admin-profile/me.png"
			return &updated, nil
		},
	})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Jane Smith"))
	require.NoError(t, w.WriteField("token", signToken(t, creds, manager)))
	fw, err := w.CreateFormFile("image", "me.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, RouteUpdateProfile, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decode(t, rr)
	assert.Equal(t, "Profile has been updated", resp["message"])
	data := resp["data"].(map[string]any)
	assert.Equal(t, "Jane Smith", data["name"])
	assert.Equal(t, "/admin-profile/me.png", data["profileImageUrl"])
}

func TestUpdateProfileHandler_JSON(t *testing.T) {
	manager := someManager()
	r, creds := setupRouter(t, &FakeAccountService{
		UpdateProfileFunc: func(_ context.Context, _ account.Caller, in account.UpdateProfileInput, image *multipart.FileHeader) (*account.Account, error) {
			assert.Nil(t, image)
			assert.Equal(t, "Jane Smith", in.Name)
			return manager, nil
		},
	})

	rr := doReq(t, r, http.MethodPut, RouteUpdateProfile,
		map[string]string{"name": "Jane Smith", "token": signToken(t, creds, manager)}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestUpdatePasswordHandler(t *testing.T) {
	manager := someManager()
	r, creds := setupRouter(t, &FakeAccountService{
		UpdatePasswordFunc: func(_ context.Context, _ account.Caller, in account.UpdatePasswordInput) error {
			if in.NewPassword != in.ConfirmPassword {
				return apperror.Validation("Confirm password & New password did not match", nil)
			}
			return nil
		},
	})
	headers := map[string]string{"x-access-token": signToken(t, creds, manager)}

	rr := doReq(t, r, http.MethodPatch, RouteUpdateAccountPassword, map[string]string{
		"currentPassword": "Abcdef1!", "newPassword": "Newpass@1", "confirmPassword": "Newpass@1",
	}, headers)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, "Account password has been updated", resp["message"])
	assert.NotContains(t, resp, "data")

	rr = doReq(t, r, http.MethodPatch, RouteUpdateAccountPassword, map[string]string{
		"currentPassword": "Abcdef1!", "newPassword": "Newpass@1", "confirmPassword": "Newpass@2",
	}, headers)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Confirm password & New password did not match", errorMessage(t, rr))
}

func TestAddAdminHandler(t *testing.T) {
	manager := someManager()
	employee := someManager()
	employee.ID = "66f1c0aa11bb22cc33dd44ef"
	employee.AccountType = account.TypeEmployee

	r, creds := setupRouter(t, &FakeAccountService{
		AddAdminFunc: func(_ context.Context, caller account.Caller, in account.AddAdminInput) (*account.Account, error) {
			if !caller.IsManager() {
				return nil, apperror.Forbidden("You don't have the authority to add new admin")
			}
			return &account.Account{ID: "new", Name: in.Name, Email: in.Email, AccountType: account.TypeEmployee}, nil
		},
	})
	body := map[string]string{"name": "John Roe", "email": "john@x.com", "phone": "1111111111"}

	rr := doReq(t, r, http.MethodPost, RouteAddAdmin, body, map[string]string{"x-access-token": signToken(t, creds, manager)})
	require.Equal(t, http.StatusCreated, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, "A new admin has been added", resp["message"])
	assert.Equal(t, "employee", resp["data"].(map[string]any)["accountType"])

	rr = doReq(t, r, http.MethodPost, RouteAddAdmin, body, map[string]string{"x-access-token": signToken(t, creds, employee)})
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "You don't have the authority to add new admin", errorMessage(t, rr))
}

func TestUpdateStatusHandler(t *testing.T) {
	manager := someManager()
	var got account.UpdateStatusInput
	r, creds := setupRouter(t, &FakeAccountService{
		UpdateStatusFunc: func(_ context.Context, _ account.Caller, in account.UpdateStatusInput) (*account.Account, error) {
			got = in
			if in.StatusType == "" {
				return nil, apperror.Validation("Please mention status type", nil)
			}
			updated := *manager
			updated.Status = account.Status(in.StatusType)
			return &updated, nil
		},
	})
	token := signToken(t, creds, manager)

	rr := doReq(t, r, http.MethodPatch, "/api/v1/admins/update-status/abc123",
		map[string]string{"statusType": "inactive", "token": token}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "abc123", got.ID)
	assert.Equal(t, "inactive", got.StatusType)
	resp := decode(t, rr)
	assert.Equal(t, "Account status has been updated", resp["message"])

	rr = doReq(t, r, http.MethodPatch, "/api/v1/admins/update-status/abc123", nil, map[string]string{"x-access-token": token})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Please mention status type", errorMessage(t, rr))
}

func TestNoRoute(t *testing.T) {
	r, _ := setupRouter(t, &FakeAccountService{})

	rr := doReq(t, r, http.MethodGet, "/api/v1/nothing", nil, nil)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Page not found", errorMessage(t, rr))
	assert.EqualValues(t, http.StatusNotFound, decode(t, rr)["error"].(map[string]any)["status"])
}
