package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// admins
	RouteAdmins                = RouteApiV1 + "/admins"
	RouteRegister              = RouteAdmins + "/register"
	RouteLogin                 = RouteAdmins + "/login"
	RouteSearchMembers         = RouteAdmins + "/search-members"
	RouteUpdateProfile         = RouteAdmins + "/update-profile"
	RouteUpdateAccountPassword = RouteAdmins + "/update-account-password"
	RouteAddAdmin              = RouteAdmins + "/add-admin"
	RouteUpdateStatus          = RouteAdmins + "/update-status/:id"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
