package domains

import (
	"errors"

	"github.com/gin-gonic/gin"

	"lnk_domains/internal/customdomain"
	"lnk_domains/internal/httpx"
)

// fail maps service errors onto the response envelope
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, customdomain.ErrInvalidDomain),
		errors.Is(err, customdomain.ErrInvalidType),
		errors.Is(err, customdomain.ErrInvalidStatus):
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
	case errors.Is(err, customdomain.ErrDomainExists):
		httpx.FailErr(c, httpx.ErrAlreadyExists("domain already registered"))
	case errors.Is(err, customdomain.ErrNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("domain not found"))
	case errors.Is(err, customdomain.ErrNotVerified):
		httpx.FailErr(c, httpx.ErrPreconditionFailed(customdomain.ErrNotVerified.Error()))
	case errors.Is(err, customdomain.ErrSuspended):
		httpx.FailErr(c, httpx.ErrStateConflict("domain is suspended"))
	case errors.Is(err, customdomain.ErrInvalidTransition):
		httpx.FailErr(c, httpx.ErrStateConflict(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}
