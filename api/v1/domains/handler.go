package domains

import (
	"github.com/gin-gonic/gin"

	"lnk_domains/api/v1/middleware"
	"lnk_domains/internal/customdomain"
	"lnk_domains/internal/httpx"
	"lnk_domains/internal/model"
)

// Handler handles custom domain API
type Handler struct {
	svc *customdomain.Service
}

// NewHandler creates a new domains handler
func NewHandler(svc *customdomain.Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /api/v1/domains
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	d, err := h.svc.Create(c.Request.Context(), customdomain.CreateInput{
		UserID:   middleware.UserID(c),
		TeamID:   middleware.TeamID(c),
		Domain:   req.Domain,
		Type:     req.Type,
		Settings: req.Settings,
	})
	if err != nil {
		fail(c, err)
		return
	}

	httpx.Created(c, toDTO(d))
}

// List handles GET /api/v1/domains
func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	result, err := h.svc.List(c.Request.Context(), middleware.TeamID(c), customdomain.ListParams{
		Page:      req.Page,
		Limit:     req.Limit,
		Status:    model.DomainStatus(req.Status),
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		fail(c, err)
		return
	}

	httpx.OKItems(c, toDTOs(result.Items), result.Total, result.Page, result.Limit)
}

// Get handles GET /api/v1/domains/:id
func (h *Handler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), middleware.TeamID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, toDTO(d))
}

// Update handles PUT /api/v1/domains/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	d, err := h.svc.Update(c.Request.Context(), middleware.TeamID(c), c.Param("id"), customdomain.UpdateInput{
		Type:     req.Type,
		Settings: req.Settings,
	})
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, toDTO(d))
}

// Delete handles DELETE /api/v1/domains/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.TeamID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, gin.H{"id": c.Param("id")})
}

// Verify handles POST /api/v1/domains/:id/verify.
// A failed DNS check is still a 200; the result says what matched.
func (h *Handler) Verify(c *gin.Context) {
	result, err := h.svc.Verify(c.Request.Context(), middleware.TeamID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OKMsg(c, result.Message, result)
}

// VerificationStatus handles GET /api/v1/domains/:id/verification
func (h *Handler) VerificationStatus(c *gin.Context) {
	status, err := h.svc.VerificationStatus(c.Request.Context(), middleware.TeamID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, status)
}

// Activate handles POST /api/v1/domains/:id/activate
func (h *Handler) Activate(c *gin.Context) {
	d, err := h.svc.Activate(c.Request.Context(), middleware.TeamID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, toDTO(d))
}

// Suspend handles POST /api/v1/domains/:id/suspend
func (h *Handler) Suspend(c *gin.Context) {
	d, err := h.svc.Suspend(c.Request.Context(), middleware.TeamID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, toDTO(d))
}

// SetDefault handles POST /api/v1/domains/:id/default
func (h *Handler) SetDefault(c *gin.Context) {
	d, err := h.svc.SetDefault(c.Request.Context(), middleware.TeamID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, toDTO(d))
}

// Stats handles GET /api/v1/domains/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, stats)
}

// CheckAvailability handles GET /api/v1/domains/check/:domain
func (h *Handler) CheckAvailability(c *gin.Context) {
	availability, err := h.svc.CheckAvailability(c.Request.Context(), c.Param("domain"))
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, availability)
}
