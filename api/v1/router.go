package v1

import (
	"github.com/gin-gonic/gin"

	"lnk_domains/api/v1/domains"
	"lnk_domains/api/v1/middleware"
	"lnk_domains/internal/customdomain"
	"lnk_domains/internal/httpx"
)

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, svc *customdomain.Service) {
	v1 := r.Group("/api/v1")
	{
		// Public routes
		v1.GET("/ping", pingHandler)

		domainsHandler := domains.NewHandler(svc)
		v1.GET("/domains/check/:domain", domainsHandler.CheckAvailability)

		// Tenant routes
		protected := v1.Group("")
		protected.Use(middleware.TenantRequired())
		{
			domainsGroup := protected.Group("/domains")
			{
				domainsGroup.POST("", domainsHandler.Create)
				domainsGroup.GET("", domainsHandler.List)
				domainsGroup.GET("/stats", domainsHandler.Stats)
				domainsGroup.GET("/:id", domainsHandler.Get)
				domainsGroup.PUT("/:id", domainsHandler.Update)
				domainsGroup.DELETE("/:id", domainsHandler.Delete)
				domainsGroup.GET("/:id/verification", domainsHandler.VerificationStatus)
				domainsGroup.POST("/:id/verify", domainsHandler.Verify)
				domainsGroup.POST("/:id/activate", domainsHandler.Activate)
				domainsGroup.POST("/:id/suspend", domainsHandler.Suspend)
				domainsGroup.POST("/:id/default", domainsHandler.SetDefault)
			}
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}
