package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"manager-account-api/internal/apperror"
	"manager-account-api/internal/application/ports"
	"manager-account-api/internal/domain/account"
	"manager-account-api/internal/infrastructure/jwt"
)

const (
	CtxCaller = "caller"

	HeaderAccessToken = "x-access-token"

	maxTokenBodySize = 1 << 20
)

// AuthMiddleware accepts a token from the x-access-token header, a Bearer
// Authorization header, or a "token" field of a JSON or form body.
func AuthMiddleware(verifier ports.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			abort(c, apperror.Unauthorized("Token is required"))
			return
		}

		caller, err := verifier.VerifyToken(tokenStr)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				abort(c, apperror.Unauthorized("Token has expired"))
				return
			}
			abort(c, apperror.Unauthorized("Invalid token"))
			return
		}

		switch caller.Status {
		case account.StatusInactive:
			abort(c, apperror.Forbidden("User account inactive"))
			return
		case account.StatusDeleted:
			abort(c, apperror.Forbidden("User account deleted"))
			return
		}

		c.Set(CtxCaller, caller)

		c.Next()
	}
}

// CallerFrom returns the identity stored by AuthMiddleware.
func CallerFrom(c *gin.Context) (account.Caller, bool) {
	v, ok := c.Get(CtxCaller)
	if !ok {
		return account.Caller{}, false
	}
	caller, ok := v.(account.Caller)
	return caller, ok
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func tokenFrom(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader(HeaderAccessToken)); t != "" {
		return t
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); t != "" {
			return t
		}
	}
	if c.Request.Body == nil {
		return ""
	}

	switch c.ContentType() {
	case binding.MIMEJSON:
		return jsonBodyToken(c)
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		return strings.TrimSpace(c.PostForm("token"))
	}
	return ""
}

// jsonBodyToken reads the body and puts it back for the handler.
func jsonBodyToken(c *gin.Context) string {
	b, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTokenBodySize))
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(b))
	if err != nil || len(b) == 0 {
		return ""
	}

	var body struct {
		Token string `json:"token"`
	}
	if err = json.Unmarshal(b, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Token)
}
