// Package stats computes per-project summary statistics via grouped
// queries, without fetching full entity lists.
package stats

import (
	"fmt"
	"time"

	"github.com/zulandar/architectflow/internal/models"
	"gorm.io/gorm"
)

// recentWindow is the trailing window for the recent-implementation count.
const recentWindow = 7 * 24 * time.Hour

// ProjectStats summarizes one project, or all projects when unscoped. The
// by-status and by-priority maps always carry every enumerated key, with
// zero for statuses and priorities no feature has.
type ProjectStats struct {
	TotalFeatures         int64            `json:"total_features"`
	ByStatus              map[string]int64 `json:"by_status"`
	ByPriority            map[string]int64 `json:"by_priority"`
	ActiveBlockers        int64            `json:"active_blockers"`
	RecentImplementations int64            `json:"recent_implementations"`
}

// Project computes the statistics, scoped to projectID when non-empty. All
// sub-counts use the same scope.
func Project(gdb *gorm.DB, projectID string) (*ProjectStats, error) {
	out := &ProjectStats{
		ByStatus:   make(map[string]int64, len(models.FeatureStatuses)),
		ByPriority: make(map[string]int64, len(models.FeaturePriorities)),
	}
	for _, s := range models.FeatureStatuses {
		out.ByStatus[s] = 0
	}
	for _, p := range models.FeaturePriorities {
		out.ByPriority[p] = 0
	}

	type bucket struct {
		Label string
		Count int64
	}

	featureScope := func() *gorm.DB {
		q := gdb.Model(&models.Feature{})
		if projectID != "" {
			q = q.Where("project_id = ?", projectID)
		}
		return q
	}

	var byStatus []bucket
	if err := featureScope().
		Select("status AS label, COUNT(*) AS count").
		Group("status").
		Find(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("stats: count by status: %w", err)
	}
	for _, b := range byStatus {
		out.ByStatus[b.Label] = b.Count
		out.TotalFeatures += b.Count
	}

	var byPriority []bucket
	if err := featureScope().
		Select("priority AS label, COUNT(*) AS count").
		Group("priority").
		Find(&byPriority).Error; err != nil {
		return nil, fmt.Errorf("stats: count by priority: %w", err)
	}
	for _, b := range byPriority {
		out.ByPriority[b.Label] = b.Count
	}

	blockers := gdb.Model(&models.Blocker{}).
		Joins("JOIN features ON features.id = blockers.feature_id").
		Where("blockers.status <> ?", models.BlockerResolved)
	if projectID != "" {
		blockers = blockers.Where("features.project_id = ?", projectID)
	}
	if err := blockers.Count(&out.ActiveBlockers).Error; err != nil {
		return nil, fmt.Errorf("stats: count active blockers: %w", err)
	}

	cutoff := time.Now().Add(-recentWindow)
	impls := gdb.Model(&models.Implementation{}).
		Joins("JOIN features ON features.id = implementations.feature_id").
		Where("implementations.created_at > ?", cutoff)
	if projectID != "" {
		impls = impls.Where("features.project_id = ?", projectID)
	}
	if err := impls.Count(&out.RecentImplementations).Error; err != nil {
		return nil, fmt.Errorf("stats: count recent implementations: %w", err)
	}

	return out, nil
}
