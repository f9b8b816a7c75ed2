package rest

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"manager-account-api/internal/apperror"
	"manager-account-api/internal/application/ports"
	"manager-account-api/internal/domain/account"
	dto "manager-account-api/internal/interface/api/rest/dto/account"
	"manager-account-api/internal/interface/api/rest/middleware"
)

const (
	formImage = "image"

	maxProfileFormSize = 6 << 20
)

type AccountController struct {
	accountService ports.AccountService
	logger         *zap.Logger
}

func NewAccountController(
	r *gin.Engine,
	accountService ports.AccountService,
	tokens ports.TokenVerifier,
	logger *zap.Logger,
) *AccountController {
	ac := &AccountController{
		accountService: accountService,
		logger:         logger,
	}

	auth := middleware.AuthMiddleware(tokens)

	r.POST(RouteRegister, ac.RegisterHandler)
	r.POST(RouteLogin, ac.LoginHandler)
	r.GET(RouteAdmins, auth, ac.ListHandler)
	r.GET(RouteAdmins+"/", auth, ac.ListHandler)
	r.GET(RouteSearchMembers, auth, ac.SearchHandler)
	r.PUT(RouteUpdateProfile, auth, ac.UpdateProfileHandler)
	r.PATCH(RouteUpdateAccountPassword, auth, ac.UpdatePasswordHandler)
	r.POST(RouteAddAdmin, auth, ac.AddAdminHandler)
	r.PATCH(RouteUpdateStatus, auth, ac.UpdateStatusHandler)

	return ac
}

func (ac *AccountController) RegisterHandler(c *gin.Context) {
	var req account.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	res, err := ac.accountService.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.Response{
		Message: "Register successfull",
		Status:  http.StatusCreated,
		Data:    dto.ToResponseAccount(*res.Account),
		Token:   res.Token,
	})
}

func (ac *AccountController) LoginHandler(c *gin.Context) {
	var req account.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	res, err := ac.accountService.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Login successfull",
		Status:  http.StatusOK,
		Data:    dto.ToResponseAccount(*res.Account),
		Token:   res.Token,
	})
}

func (ac *AccountController) ListHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	page, err := ac.accountService.ListAccounts(c.Request.Context(), caller, account.ListQuery{
		Pagination: pagination(c),
		SortType:   c.Query("sortType"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Message: "Get all lists of admins",
		Status:  http.StatusOK,
		Data:    dto.ToResponseAccounts(page.Items),
		Count:   page.Count,
	})
}

func (ac *AccountController) SearchHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	page, err := ac.accountService.SearchAccounts(c.Request.Context(), caller, account.SearchQuery{
		Pagination: pagination(c),
		Value:      c.Query("value"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Message: "Get all search lists of admins",
		Status:  http.StatusOK,
		Data:    dto.ToResponseAccounts(page.Items),
		Count:   page.Count,
	})
}

// UpdateProfileHandler accepts a multipart form with an optional "image"
// file, or a JSON body with the name only.
func (ac *AccountController) UpdateProfileHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var (
		req   account.UpdateProfileInput
		image *multipart.FileHeader
	)
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxProfileFormSize); err != nil {
			_ = c.Error(apperror.Validation("invalid multipart form", nil))
			return
		}
		req.Name = c.PostForm("name")
		fh, err := c.FormFile(formImage)
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			_ = c.Error(apperror.Validation("invalid profile image", nil))
			return
		}
		image = fh
	case binding.MIMEPOSTForm:
		req.Name = c.PostForm("name")
	default:
		if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
			return
		}
	}

	a, err := ac.accountService.UpdateProfile(c.Request.Context(), caller, req, image)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Profile has been updated",
		Status:  http.StatusOK,
		Data:    dto.ToResponseAccount(*a),
	})
}

func (ac *AccountController) UpdatePasswordHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req account.UpdatePasswordInput
	if !bindJSON(c, &req) {
		return
	}

	if err := ac.accountService.UpdatePassword(c.Request.Context(), caller, req); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Account password has been updated",
		Status:  http.StatusOK,
	})
}

func (ac *AccountController) AddAdminHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req account.AddAdminInput
	if !bindJSON(c, &req) {
		return
	}

	a, err := ac.accountService.AddAdmin(c.Request.Context(), caller, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.Response{
		Message: "A new admin has been added",
		Status:  http.StatusCreated,
		Data:    dto.ToResponseAccount(*a),
	})
}

func (ac *AccountController) UpdateStatusHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}

	var req account.UpdateStatusInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	req.ID = c.Param("id")

	a, err := ac.accountService.UpdateStatus(c.Request.Context(), caller, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Account status has been updated",
		Status:  http.StatusOK,
		Data:    dto.ToResponseAccount(*a),
	})
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(apperror.Validation("invalid request body", []apperror.Detail{{
			Field:   "body",
			Rule:    "json",
			Message: "request body must be a valid JSON object",
		}}))
		return false
	}
	return true
}

func callerOrAbort(c *gin.Context) (account.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		_ = c.Error(apperror.Unauthorized("Token is required"))
		return account.Caller{}, false
	}
	return caller, true
}

// pagination leaves unparsable values at zero, the service applies defaults.
func pagination(c *gin.Context) account.Pagination {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return account.Pagination{Page: page, Limit: limit}
}
