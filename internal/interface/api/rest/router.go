package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"manager-account-api/internal/interface/api/rest/middleware"
)

// NewRouter returns an engine with recovery, request logging and the error
// envelope installed. Controllers register their own routes on it.
func NewRouter(logger *zap.Logger, mCounter *prometheus.CounterVec) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestLogGin(logger, mCounter),
		middleware.ErrorResponder(logger),
	)
	r.NoRoute(middleware.NotFound)

	return r
}
