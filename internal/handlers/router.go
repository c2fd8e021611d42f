package handlers

import (
	"net/http"
	"time"

	"burim-estate/internal/auth"

	"github.com/gin-gonic/gin"
)

// Routes groups the handlers and middleware mounted on the router
type Routes struct {
	Properties *PropertyHandler
	Inquiries  *InquiryHandler
	News       *NewsHandler
	Settings   *SettingsHandler
	Auth       *AuthHandler
	Admin      *AdminHandler

	JWT          *auth.Service
	InquiryLimit gin.HandlerFunc // optional
}

// Register mounts every public and admin route on r
func (rt *Routes) Register(r *gin.Engine) {
	r.GET("/health", rt.healthCheck)

	api := r.Group("/api")
	{
		api.GET("/properties", rt.Properties.ListLatest)
		api.GET("/properties/:id", rt.Properties.GetByID)
		api.GET("/properties/slug/:slug", rt.Properties.GetBySlug)
		api.GET("/categories/:category", rt.Properties.ByCategory)
		api.GET("/search", rt.Properties.Search)

		if rt.InquiryLimit != nil {
			api.POST("/inquiries", rt.InquiryLimit, rt.Inquiries.Create)
		} else {
			api.POST("/inquiries", rt.Inquiries.Create)
		}

		api.GET("/settings", rt.Settings.Get)
		api.GET("/news", rt.News.ListPublished)
		api.GET("/news/:slug", rt.News.GetPublished)

		api.POST("/admin/login", rt.Auth.Login)
		api.POST("/admin/logout", rt.Auth.Logout)
	}

	admin := r.Group("/api/admin", auth.AuthMiddleware(rt.JWT))
	{
		// Listings
		admin.GET("/properties", rt.Properties.AdminList)
		admin.POST("/properties", rt.Properties.Create)
		admin.PATCH("/properties/:id", rt.Properties.Update)
		admin.DELETE("/properties/:id", rt.Properties.Delete)
		admin.GET("/properties/:id/history", rt.Properties.History)
		admin.GET("/changes/recent", rt.Admin.GetRecentChanges)

		// Inquiries
		admin.GET("/inquiries", rt.Inquiries.List)
		admin.DELETE("/inquiries/:id", rt.Inquiries.Delete)

		// News
		admin.GET("/news", rt.News.AdminList)
		admin.GET("/news/:id", rt.News.AdminGet)
		admin.PATCH("/news/:id", rt.News.AdminUpdate)
		admin.DELETE("/news/:id", rt.News.AdminDelete)
		admin.POST("/news/fetch", rt.News.Fetch)

		admin.PATCH("/settings", rt.Settings.Update)

		// Statistics
		admin.GET("/stats", rt.Admin.GetStats)
		admin.GET("/district-stats", rt.Admin.GetDistrictStats)
		admin.GET("/price-distribution", rt.Admin.GetPriceDistribution)

		admin.POST("/search/reindex", rt.Admin.Reindex)

		// Cleanup operations
		admin.POST("/cleanup/run", rt.Admin.RunCleanup)
		admin.GET("/cleanup/logs", rt.Admin.GetDeleteLogs)
	}
}

// healthCheck reports the server as up; the search index is optional so its
// state is reported without affecting the status code.
func (rt *Routes) healthCheck(c *gin.Context) {
	search := "disabled"
	if rt.Properties != nil && rt.Properties.search != nil {
		search = "ok"
		if !rt.Properties.search.Healthy() {
			search = "unavailable"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"search": search,
		"time":   time.Now(),
	})
}
