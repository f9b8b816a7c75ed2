package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// values of the "result" label
const (
	AppRequests          = "app_requests_total"
	AccountRegistered    = "account_registered_total"
	LoginSucceeded       = "login_succeeded_total"
	LoginFailed          = "login_failed_total"
	LoginThrottled       = "login_throttled_total"
	ProfileUpdated       = "profile_updated_total"
	PasswordUpdated      = "password_updated_total"
	AdminAdded           = "admin_added_total"
	AccountStatusUpdated = "account_status_updated_total"
	ProfileImageUploaded = "profile_image_uploaded_total"
)

func counterOpts() prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: "accountmanager",
		Name:      "general_counters",
	}
}

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(counterOpts(), []string{"result"})
}

// NewUnregisteredCounter is NewCounter without the default registry,
// for tests that build many services.
func NewUnregisteredCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(counterOpts(), []string{"result"})
}
