package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"manager-account-api/internal/apperror"
	"manager-account-api/internal/application/ports"
	"manager-account-api/internal/application/validator"
	"manager-account-api/internal/domain/account"
	"manager-account-api/internal/infrastructure/metrics"
	"manager-account-api/internal/infrastructure/mq"
)

const (
	msgEmailExists         = "Email already exists"
	msgPhoneNumberExists   = "Phone number already exists"
	msgPhoneExists         = "Phone already exists"
	msgNoUserWithEmail     = "No user found with this email"
	msgAccountInactive     = "Account set as inactive"
	msgAccountDeleted      = "Account set as deleted"
	msgWrongPassword       = "Password is not correct"
	msgPasswordMismatch    = "Confirm password & New password did not match"
	msgCurrentPasswordBad  = "Password did not matched"
	msgNoProfile           = "No profile data found"
	msgNoAuthorityAddAdmin = "You don't have the authority to add new admin"
	msgNoAuthorityStatus   = "You don't have the authority to update account status"
	msgNoUserExists        = "No user exists"
	msgTooManyLogins       = "Too many failed login attempts, try again later"
)

type AccountService struct {
	repo      account.Repository
	creds     ports.Credentials
	validator *validator.Validator
	images    ports.ProfileImages
	events    ports.EventPublisher
	limiter   ports.LoginLimiter
	mCounter  *prometheus.CounterVec
	logger    *zap.Logger
}

func NewAccountService(
	repo account.Repository,
	creds ports.Credentials,
	images ports.ProfileImages,
	events ports.EventPublisher,
	limiter ports.LoginLimiter,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) ports.AccountService {
	return &AccountService{
		repo:      repo,
		creds:     creds,
		validator: validator.New(),
		images:    images,
		events:    events,
		limiter:   limiter,
		mCounter:  mCounter,
		logger:    logger,
	}
}

func (as *AccountService) Register(ctx context.Context, in account.RegisterInput) (*account.AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := as.validator.Validate(in).Err(); err != nil {
		return nil, err
	}
	if err := as.ensureUnique(ctx, in.Email, in.Phone, msgPhoneNumberExists); err != nil {
		return nil, err
	}

	hash, err := as.creds.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal("Could not hash password", err)
	}

	a, err := as.create(ctx, account.New(in.Name, in.Email, in.Phone, hash, account.TypeManager), msgPhoneNumberExists)
	if err != nil {
		return nil, err
	}

	token, err := as.creds.IssueToken(a)
	if err != nil {
		return nil, apperror.Internal("Could not generate token", err)
	}

	as.events.Publish(mq.NewEvent(mq.EventAccountRegistered, a.ID, a))
	as.mCounter.WithLabelValues(metrics.AccountRegistered).Inc()

	return &account.AuthResult{Account: a, Token: token}, nil
}

func (as *AccountService) Login(ctx context.Context, in account.LoginInput) (*account.AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := as.validator.Validate(in).Err(); err != nil {
		return nil, err
	}

	blocked, err := as.limiter.Blocked(ctx, in.Email)
	if err != nil {
		as.logger.Warn("login limiter unavailable", zap.Error(err))
	}
	if blocked {
		as.mCounter.WithLabelValues(metrics.LoginThrottled).Inc()
		return nil, apperror.TooManyRequests(msgTooManyLogins)
	}

	a, err := as.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperror.Internal("failed to look up account", err)
	}
	if a == nil {
		return nil, apperror.Unauthorized(msgNoUserWithEmail)
	}
	switch a.Status {
	case account.StatusInactive:
		return nil, apperror.Forbidden(msgAccountInactive)
	case account.StatusDeleted:
		return nil, apperror.Forbidden(msgAccountDeleted)
	}

	ok, err := as.creds.Verify(in.Password, a.PasswordHash)
	if err != nil {
		return nil, apperror.Internal("Could not compare password", err)
	}
	if !ok {
		if err = as.limiter.RegisterFailure(ctx, in.Email); err != nil {
			as.logger.Warn("login limiter unavailable", zap.Error(err))
		}
		as.mCounter.WithLabelValues(metrics.LoginFailed).Inc()
		return nil, apperror.Unauthorized(msgWrongPassword)
	}
	if err = as.limiter.Reset(ctx, in.Email); err != nil {
		as.logger.Warn("login limiter unavailable", zap.Error(err))
	}

	token, err := as.creds.IssueToken(a)
	if err != nil {
		return nil, apperror.Internal("Could not generate token", err)
	}
	as.mCounter.WithLabelValues(metrics.LoginSucceeded).Inc()

	return &account.AuthResult{Account: a, Token: token}, nil
}

// ListAccounts pages through every account, newest first. With a sort type
// only non-deleted accounts of that type are listed. Count is always the
// size of the whole collection.
func (as *AccountService) ListAccounts(
	ctx context.Context,
	_ account.Caller,
	q account.ListQuery,
) (*account.Page, error) {
	q.SortType = strings.TrimSpace(q.SortType)
	if err := as.validator.Validate(q).Err(); err != nil {
		return nil, err
	}
	p := q.Pagination.Normalize()

	items, err := as.repo.List(ctx, account.ListFilter{
		AccountType: account.Type(q.SortType),
		Offset:      p.Offset(),
		Limit:       int64(p.Limit),
	})
	if err != nil {
		return nil, apperror.Internal("failed to list accounts", err)
	}

	return as.page(ctx, items)
}

// SearchAccounts matches the term case-insensitively against name, email
// and phone of active accounts other than the caller.
func (as *AccountService) SearchAccounts(
	ctx context.Context,
	caller account.Caller,
	q account.SearchQuery,
) (*account.Page, error) {
	p := q.Pagination.Normalize()

	items, err := as.repo.Search(ctx, account.SearchFilter{
		Term:      strings.TrimSpace(q.Value),
		ExcludeID: caller.ID,
		Offset:    p.Offset(),
		Limit:     int64(p.Limit),
	})
	if err != nil {
		return nil, apperror.Internal("failed to search accounts", err)
	}

	return as.page(ctx, items)
}

func (as *AccountService) UpdateProfile(
	ctx context.Context,
	caller account.Caller,
	in account.UpdateProfileInput,
	image *multipart.FileHeader,
) (*account.Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := as.validator.Validate(in).Err(); err != nil {
		return nil, err
	}

	current, err := as.repo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, apperror.Internal("failed to look up account", err)
	}
	if current == nil {
		return nil, apperror.NotFound(msgNoProfile)
	}

	name := current.Name
	if in.Name != "" {
		name = in.Name
	}
	imageURL := current.ProfileImageURL
	if image != nil {
		imageURL, err = as.images.Upload(ctx, caller.ID, image)
		if err != nil {
			return nil, err
		}
	}

	updated, err := as.repo.UpdateProfile(ctx, caller.ID, name, imageURL)
	if err != nil {
		return nil, apperror.Internal("failed to update profile", err)
	}
	if updated == nil {
		return nil, apperror.NotFound(msgNoProfile)
	}

	as.events.Publish(mq.NewEvent(mq.EventProfileUpdated, caller.ID, updated))
	as.mCounter.WithLabelValues(metrics.ProfileUpdated).Inc()

	return updated, nil
}

func (as *AccountService) UpdatePassword(
	ctx context.Context,
	caller account.Caller,
	in account.UpdatePasswordInput,
) error {
	if in.NewPassword != in.ConfirmPassword {
		return apperror.Validation(msgPasswordMismatch, []apperror.Detail{{
			Field:   "confirmPassword",
			Rule:    "eqfield",
			Message: msgPasswordMismatch,
		}})
	}
	if err := as.validator.Validate(in).Err(); err != nil {
		return err
	}

	a, err := as.repo.FindByID(ctx, caller.ID)
	if err != nil {
		return apperror.Internal("failed to look up account", err)
	}
	if a == nil {
		return apperror.NotFound(msgNoProfile)
	}

	ok, err := as.creds.Verify(in.CurrentPassword, a.PasswordHash)
	if err != nil {
		return apperror.Internal("Could not compare password", err)
	}
	if !ok {
		return apperror.Unauthorized(msgCurrentPasswordBad)
	}

	hash, err := as.creds.Hash(in.NewPassword)
	if err != nil {
		return apperror.Internal("Could not hash password", err)
	}
	updated, err := as.repo.UpdatePassword(ctx, caller.ID, hash)
	if err != nil {
		return apperror.Internal("failed to update password", err)
	}
	if updated == nil {
		return apperror.NotFound(msgNoProfile)
	}

	as.events.Publish(mq.NewEvent(mq.EventPasswordUpdated, caller.ID, updated))
	as.mCounter.WithLabelValues(metrics.PasswordUpdated).Inc()

	return nil
}

// AddAdmin creates an employee account. Its initial password is the
// account name.
func (as *AccountService) AddAdmin(
	ctx context.Context,
	caller account.Caller,
	in account.AddAdminInput,
) (*account.Account, error) {
	if !caller.IsManager() {
		return nil, apperror.Forbidden(msgNoAuthorityAddAdmin)
	}
	in.Email = normalizeEmail(in.Email)
	if err := as.validator.Validate(in).Err(); err != nil {
		return nil, err
	}
	if err := as.ensureUnique(ctx, in.Email, in.Phone, msgPhoneExists); err != nil {
		return nil, err
	}

	// TODO: replace the name-derived password with an emailed one-time link
	// once a mail sender exists.
	hash, err := as.creds.Hash(in.Name)
	if err != nil {
		return nil, apperror.Internal("Could not hash password", err)
	}

	a, err := as.create(ctx, account.New(in.Name, in.Email, in.Phone, hash, account.TypeEmployee), msgPhoneExists)
	if err != nil {
		return nil, err
	}

	as.events.Publish(mq.NewEvent(mq.EventAdminAdded, caller.ID, a))
	as.mCounter.WithLabelValues(metrics.AdminAdded).Inc()

	return a, nil
}

func (as *AccountService) UpdateStatus(
	ctx context.Context,
	caller account.Caller,
	in account.UpdateStatusInput,
) (*account.Account, error) {
	if !caller.IsManager() {
		return nil, apperror.Forbidden(msgNoAuthorityStatus)
	}
	in.ID = strings.TrimSpace(in.ID)
	in.StatusType = strings.TrimSpace(in.StatusType)
	if err := as.validator.Validate(in).Err(); err != nil {
		return nil, err
	}

	target, err := as.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, apperror.Internal("failed to look up account", err)
	}
	if target == nil {
		return nil, apperror.NotFound(msgNoUserExists)
	}

	updated, err := as.repo.UpdateStatus(ctx, in.ID, account.Status(in.StatusType))
	if err != nil {
		return nil, apperror.Internal("failed to update status", err)
	}
	if updated == nil {
		return nil, apperror.NotFound(msgNoUserExists)
	}

	as.events.Publish(mq.NewEvent(mq.EventStatusUpdated, caller.ID, updated))
	as.mCounter.WithLabelValues(metrics.AccountStatusUpdated).Inc()

	return updated, nil
}

func (as *AccountService) ensureUnique(ctx context.Context, email, phone, phoneMsg string) error {
	existing, err := as.repo.FindByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return apperror.Internal("failed to look up account", err)
	}
	if existing == nil {
		return nil
	}
	if existing.Email == email {
		return apperror.Conflict(msgEmailExists)
	}
	return apperror.Conflict(phoneMsg)
}

// create maps unique index races that slipped past ensureUnique.
func (as *AccountService) create(ctx context.Context, req account.Account, phoneMsg string) (*account.Account, error) {
	a, err := as.repo.Create(ctx, req)
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, account.ErrEmailAlreadyExists):
		return nil, apperror.Conflict(msgEmailExists)
	case errors.Is(err, account.ErrPhoneAlreadyExists):
		return nil, apperror.Conflict(phoneMsg)
	default:
		return nil, apperror.Internal("failed to create account", err)
	}
}

func (as *AccountService) page(ctx context.Context, items account.Accounts) (*account.Page, error) {
	count, err := as.repo.Count(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to count accounts", err)
	}
	if items == nil {
		items = account.Accounts{}
	}
	return &account.Page{Items: items, Count: count}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
