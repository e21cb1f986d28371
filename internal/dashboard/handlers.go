package dashboard

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/architectflow/internal/apikeys"
	"github.com/zulandar/architectflow/internal/auth"
	"github.com/zulandar/architectflow/internal/db"
	"github.com/zulandar/architectflow/internal/stats"
	"github.com/zulandar/architectflow/internal/store"
	"gorm.io/gorm"
)

// apiError logs the underlying failure server-side and answers with the
// status the error class maps to plus a generic message. Driver detail is
// never echoed to the caller, and nothing here retries.
func apiError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, db.ErrNotConfigured):
		log.Printf("dashboard: %s: %v", op, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not configured"})
	default:
		log.Printf("dashboard: %s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op})
	}
}

// --- projects ---

func handleListProjects(st *store.Store, resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := st.ListProjects(resolver.UserID(c.Request))
		if err != nil {
			apiError(c, "fetch projects", err)
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}

type createProjectRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	TechStack        []string `json:"tech_stack"`
	ArchitectureType string   `json:"architecture_type"`
}

func handleCreateProject(st *store.Store, resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		project, err := st.CreateProject(resolver.UserID(c.Request), store.CreateProjectInput{
			Name:             req.Name,
			Description:      req.Description,
			TechStack:        req.TechStack,
			ArchitectureType: req.ArchitectureType,
		})
		if err != nil {
			apiError(c, "create project", err)
			return
		}
		c.JSON(http.StatusCreated, project)
	}
}

func handleDeleteProject(st *store.Store, resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleted, err := st.DeleteProject(resolver.UserID(c.Request), c.Param("id"))
		if err != nil {
			apiError(c, "delete project", err)
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// --- features ---

func handleListFeatures(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Query("project_id")
		status := c.Query("status")

		var err error
		var features interface{}
		if status != "" {
			features, err = st.ListFeaturesByStatus(status, projectID)
		} else {
			features, err = st.ListFeatures(projectID)
		}
		if err != nil {
			apiError(c, "fetch features", err)
			return
		}
		c.JSON(http.StatusOK, features)
	}
}

type createFeatureRequest struct {
	ProjectID    string   `json:"project_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	Category     string   `json:"category"`
	Dependencies []string `json:"dependencies"`
	Tags         []string `json:"tags"`
}

func handleCreateFeature(st *store.Store, resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createFeatureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		feature, err := st.CreateFeature(resolver.UserID(c.Request), store.CreateFeatureInput{
			ProjectID:    req.ProjectID,
			Name:         req.Name,
			Description:  req.Description,
			Status:       req.Status,
			Priority:     req.Priority,
			Category:     req.Category,
			Dependencies: req.Dependencies,
			Tags:         req.Tags,
		})
		if err != nil {
			apiError(c, "create feature", err)
			return
		}
		c.JSON(http.StatusCreated, feature)
	}
}

func handleFeatureDetails(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		details, err := st.GetFeatureWithDetails(c.Param("id"))
		if err != nil {
			apiError(c, "fetch feature", err)
			return
		}
		c.JSON(http.StatusOK, details)
	}
}

// --- blockers ---

func handleListBlockers(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeResolved := c.Query("includeResolved") == "true"
		blockers, err := st.ListBlockers(c.Query("project_id"), includeResolved)
		if err != nil {
			apiError(c, "fetch blockers", err)
			return
		}
		c.JSON(http.StatusOK, blockers)
	}
}

type createBlockerRequest struct {
	FeatureID   string `json:"feature_id"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

func handleCreateBlocker(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBlockerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		blocker, err := st.CreateBlocker(store.CreateBlockerInput{
			FeatureID:   req.FeatureID,
			Description: req.Description,
			Severity:    req.Severity,
		})
		if err != nil {
			apiError(c, "create blocker", err)
			return
		}
		c.JSON(http.StatusCreated, blocker)
	}
}

type resolveBlockerRequest struct {
	Resolution string `json:"resolution"`
}

func handleResolveBlocker(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resolveBlockerRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}

		changed, err := st.ResolveBlocker(c.Param("id"), req.Resolution)
		if err != nil {
			apiError(c, "resolve blocker", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"resolved": changed})
	}
}

// --- implementations ---

func handleListImplementations(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		history, err := st.ListImplementations(c.Query("project_id"))
		if err != nil {
			apiError(c, "fetch implementation history", err)
			return
		}
		c.JSON(http.StatusOK, history)
	}
}

type recordImplementationRequest struct {
	FeatureID     string   `json:"feature_id"`
	FilesAffected []string `json:"files_affected"`
	PatternsUsed  []string `json:"patterns_used"`
	Notes         string   `json:"notes"`
	Implementer   string   `json:"implementer"`
}

func handleRecordImplementation(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recordImplementationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		impl, err := st.RecordImplementation(store.RecordImplementationInput{
			FeatureID:     req.FeatureID,
			FilesAffected: req.FilesAffected,
			PatternsUsed:  req.PatternsUsed,
			Notes:         req.Notes,
			Implementer:   req.Implementer,
		})
		if err != nil {
			apiError(c, "record implementation", err)
			return
		}
		c.JSON(http.StatusCreated, impl)
	}
}

// --- dependencies ---

func handleDependencyGraph(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		graph, err := st.GetDependencyGraph(c.Query("project_id"))
		if err != nil {
			apiError(c, "fetch dependency graph", err)
			return
		}
		c.JSON(http.StatusOK, graph)
	}
}

// --- stats ---

func handleStats(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := stats.Project(gdb, c.Query("project_id"))
		if err != nil {
			apiError(c, "fetch stats", err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// --- api keys ---

func handleListKeys(gdb *gorm.DB, resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		keys, err := apikeys.List(gdb, resolver.UserID(c.Request))
		if err != nil {
			apiError(c, "list API keys", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"keys": keys, "count": len(keys)})
	}
}

type createKeyRequest struct {
	Label    string `json:"label"`
	PlanTier string `json:"planTier"`
}

func handleCreateKey(gdb *gorm.DB, resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		created, err := apikeys.Create(gdb, resolver.UserID(c.Request), req.Label, req.PlanTier)
		if err != nil {
			apiError(c, "generate API key", err)
			return
		}
		// The plaintext key appears here and nowhere else.
		c.JSON(http.StatusOK, gin.H{
			"id":        created.ID,
			"key":       created.Key,
			"label":     created.Label,
			"createdAt": created.CreatedAt,
			"message":   "Save your API key now - you won't see it again!",
		})
	}
}

func handleRevokeKey(gdb *gorm.DB, resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		revoked, err := apikeys.Revoke(gdb, resolver.UserID(c.Request), c.Param("id"))
		if err != nil {
			apiError(c, "revoke API key", err)
			return
		}
		if !revoked {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found or already revoked"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "API key revoked"})
	}
}
