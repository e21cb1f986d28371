package dashboard

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/architectflow/internal/models"
	"github.com/zulandar/architectflow/internal/stats"
	"github.com/zulandar/architectflow/internal/store"
	"gorm.io/gorm"
)

// TimeAgo formats a timestamp as a relative age like "3h ago".
func TimeAgo(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours())/24)
	}
}

func handleIndex(st *store.Store, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Query("project_id")

		s, err := stats.Project(gdb, projectID)
		if err != nil {
			s = &stats.ProjectStats{ByStatus: map[string]int64{}, ByPriority: map[string]int64{}}
		}
		history, _ := st.ListImplementations(projectID)
		if len(history) > 10 {
			history = history[:10]
		}

		type activityRow struct {
			FeatureName string
			Notes       string
			Implementer string
			Age         string
		}
		activity := make([]activityRow, len(history))
		for i, h := range history {
			activity[i] = activityRow{
				FeatureName: h.FeatureName,
				Notes:       h.Notes,
				Implementer: h.Implementer,
				Age:         TimeAgo(h.CreatedAt),
			}
		}

		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"Stats":    s,
			"Activity": activity,
		})
	}
}

// kanbanColumn is one status lane on the features board.
type kanbanColumn struct {
	Status   string
	Features []models.Feature
}

func handleFeaturesPage(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		features, err := st.ListFeatures(c.Query("project_id"))
		if err != nil {
			features = []models.Feature{}
		}

		byStatus := make(map[string][]models.Feature)
		for _, f := range features {
			byStatus[f.Status] = append(byStatus[f.Status], f)
		}
		columns := make([]kanbanColumn, 0, len(models.FeatureStatuses))
		for _, s := range models.FeatureStatuses {
			columns = append(columns, kanbanColumn{Status: s, Features: byStatus[s]})
		}

		c.HTML(http.StatusOK, "features.html", gin.H{
			"Columns": columns,
			"Total":   len(features),
		})
	}
}

func handleBlockersPage(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeResolved := c.Query("includeResolved") == "true"
		blockers, err := st.ListBlockers(c.Query("project_id"), includeResolved)
		if err != nil {
			blockers = []store.BlockerRow{}
		}

		type blockerView struct {
			store.BlockerRow
			Age string
		}
		rows := make([]blockerView, len(blockers))
		for i, b := range blockers {
			rows[i] = blockerView{BlockerRow: b, Age: TimeAgo(b.CreatedAt)}
		}

		c.HTML(http.StatusOK, "blockers.html", gin.H{
			"Blockers":        rows,
			"IncludeResolved": includeResolved,
		})
	}
}

func handleDependenciesPage(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		graph, err := st.GetDependencyGraph(c.Query("project_id"))
		if err != nil {
			graph = &store.DependencyGraph{Nodes: []store.DependencyNode{}, Edges: []store.DependencyEdge{}}
		}

		names := make(map[string]string, len(graph.Nodes))
		for _, n := range graph.Nodes {
			names[n.ID] = n.Name
		}
		blockedBy := map[string][]string{}
		blocking := map[string][]string{}
		for _, e := range graph.Edges {
			blockedBy[e.To] = append(blockedBy[e.To], names[e.From])
			blocking[e.From] = append(blocking[e.From], names[e.To])
		}

		type nodeView struct {
			store.DependencyNode
			BlockedBy []string
			Blocking  []string
		}
		rows := make([]nodeView, len(graph.Nodes))
		for i, n := range graph.Nodes {
			rows[i] = nodeView{DependencyNode: n, BlockedBy: blockedBy[n.ID], Blocking: blocking[n.ID]}
		}

		c.HTML(http.StatusOK, "dependencies.html", gin.H{
			"Features":  rows,
			"EdgeCount": len(graph.Edges),
		})
	}
}

func handleTimelinePage(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		history, err := st.ListImplementations(c.Query("project_id"))
		if err != nil {
			history = []store.ImplementationRow{}
		}

		type entryView struct {
			store.ImplementationRow
			Age string
		}
		entries := make([]entryView, len(history))
		for i, h := range history {
			entries[i] = entryView{ImplementationRow: h, Age: TimeAgo(h.CreatedAt)}
		}

		c.HTML(http.StatusOK, "timeline.html", gin.H{
			"Entries": entries,
		})
	}
}
