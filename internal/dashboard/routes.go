package dashboard

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/architectflow/internal/db"
	"github.com/zulandar/architectflow/internal/store"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	// Embedded static assets (served from assets/ subdir of the embed.FS).
	staticFS, _ := fs.Sub(assetsFS, "assets")
	router.StaticFS("/static", http.FS(staticFS))

	st := store.New(opts.DB)

	// Pages.
	router.GET("/", handleIndex(st, opts.DB))
	router.GET("/features", handleFeaturesPage(st))
	router.GET("/blockers", handleBlockersPage(st))
	router.GET("/dependencies", handleDependenciesPage(st))
	router.GET("/timeline", handleTimelinePage(st))

	// JSON API, behind the advisory rate limiter.
	perMinute, burst := 120, 30
	if opts.Config != nil {
		perMinute = opts.Config.RateLimit.PerMinute
		burst = opts.Config.RateLimit.Burst
	}
	api := router.Group("/api", newRateLimiter(perMinute, burst).middleware())

	api.GET("/projects", handleListProjects(st, opts.Resolver))
	api.POST("/projects", handleCreateProject(st, opts.Resolver))
	api.DELETE("/projects/:id", handleDeleteProject(st, opts.Resolver))

	api.GET("/features", handleListFeatures(st))
	api.POST("/features", handleCreateFeature(st, opts.Resolver))
	api.GET("/features/:id", handleFeatureDetails(st))

	api.GET("/blockers", handleListBlockers(st))
	api.POST("/blockers", handleCreateBlocker(st))
	api.POST("/blockers/:id/resolve", handleResolveBlocker(st))

	api.GET("/implementations", handleListImplementations(st))
	api.POST("/implementations", handleRecordImplementation(st))

	api.GET("/dependencies", handleDependencyGraph(st))

	api.GET("/stats", handleStats(opts.DB))

	api.GET("/keys", handleListKeys(opts.DB, opts.Resolver))
	api.POST("/keys", handleCreateKey(opts.DB, opts.Resolver))
	api.DELETE("/keys/:id", handleRevokeKey(opts.DB, opts.Resolver))
}

// registerUnconfiguredRoutes serves the no-database state: static assets
// still load, API routes answer 503, and pages explain what is missing.
func registerUnconfiguredRoutes(router *gin.Engine) {
	staticFS, _ := fs.Sub(assetsFS, "assets")
	router.StaticFS("/static", http.FS(staticFS))

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			apiError(c, "serve request", db.ErrNotConfigured)
			return
		}
		c.String(http.StatusServiceUnavailable,
			"ArchitectFlow: the hosted backend is selected but no database URL is configured. Set DATABASE_URL or database.url and restart.")
	})
}
