package store

import "github.com/zulandar/architectflow/internal/models"

// DependencyNode is one feature in the dependency graph.
type DependencyNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Category string `json:"category"`
}

// DependencyEdge links a prerequisite feature to the feature that depends
// on it. Blocked mirrors the dependent feature's status.
type DependencyEdge struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Blocked bool   `json:"blocked"`
}

// DependencyGraph is the feature dependency graph for one project, or all
// projects when unscoped.
type DependencyGraph struct {
	Nodes []DependencyNode `json:"nodes"`
	Edges []DependencyEdge `json:"edges"`
}

// GetDependencyGraph builds the dependency graph from each feature's
// dependency list. Referential integrity of dependencies is not enforced at
// write time, so entries naming a feature that no longer exists are dropped
// silently; an edge appears only when both endpoints do.
func (s *Store) GetDependencyGraph(projectID string) (*DependencyGraph, error) {
	features, err := s.ListFeatures(projectID)
	if err != nil {
		return nil, err
	}

	graph := &DependencyGraph{
		Nodes: make([]DependencyNode, 0, len(features)),
		Edges: []DependencyEdge{},
	}
	known := make(map[string]bool, len(features))
	for _, f := range features {
		known[f.ID] = true
		graph.Nodes = append(graph.Nodes, DependencyNode{
			ID:       f.ID,
			Name:     f.Name,
			Status:   f.Status,
			Priority: f.Priority,
			Category: f.Category,
		})
	}

	for _, f := range features {
		for _, dep := range f.Dependencies {
			if !known[dep] {
				continue
			}
			graph.Edges = append(graph.Edges, DependencyEdge{
				From:    dep,
				To:      f.ID,
				Blocked: f.Status == models.StatusBlocked,
			})
		}
	}
	return graph, nil
}
