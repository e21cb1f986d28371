// Package dashboard serves the ArchitectFlow web dashboard and its JSON API.
package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/architectflow/internal/auth"
	"github.com/zulandar/architectflow/internal/config"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	DB       *gorm.DB
	Config   *config.Config
	Resolver auth.Resolver
	Port     int
	Out      io.Writer
}

// Start launches the dashboard HTTP server. It blocks until ctx is
// cancelled, then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	router, err := newRouter(opts)
	if err != nil {
		return err
	}

	if opts.Port <= 0 {
		opts.Port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "ArchitectFlow running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// newRouter builds the Gin engine with templates, static assets, and routes.
// A nil DB yields a degraded router for the state where the hosted backend
// is selected but no database URL is configured: every API request answers
// 503 until the operator fixes the configuration.
func newRouter(opts StartOpts) (*gin.Engine, error) {
	if opts.DB == nil {
		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(gin.Recovery())
		registerUnconfiguredRoutes(router)
		return router, nil
	}
	if opts.Resolver == nil {
		fallback := "demo-user"
		var testID string
		if opts.Config != nil {
			fallback = opts.Config.Auth.DefaultUserID
			testID = opts.Config.Auth.TestUserID
		}
		opts.Resolver = auth.NewResolver(auth.Options{TestUserID: testID, Fallback: fallback})
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	registerRoutes(router, opts)
	return router, nil
}

// parseTemplates loads the embedded HTML templates.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
