package store

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Demo App", "demo-app"},
		{"already lowercase", "myproject", "myproject"},
		{"punctuation collapses", "My  Cool!! App", "my-cool-app"},
		{"leading and trailing trimmed", "--Edge Case--", "edge-case"},
		{"digits kept", "App 2 Go", "app-2-go"},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCreateProject_DerivesSlug(t *testing.T) {
	s := newTestStore(t)

	p := mustProject(t, s, "alice", "Demo App")
	if p.ID != "demo-app" {
		t.Errorf("ID = %q, want demo-app", p.ID)
	}
	if p.Name != "Demo App" {
		t.Errorf("Name = %q, want Demo App", p.Name)
	}
}

func TestCreateProject_NameLength(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name    string
		project string
	}{
		{"too short", "ab"},
		{"empty", ""},
		{"too long", strings.Repeat("x", 51)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateProject("alice", CreateProjectInput{Name: tt.project})
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}

	// No rows persisted by the failed creates.
	projects, err := s.ListProjects("alice")
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("got %d projects, want 0", len(projects))
	}
}

func TestCreateProject_BoundaryLengths(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateProject("alice", CreateProjectInput{Name: "abc"}); err != nil {
		t.Errorf("3-char name: %v", err)
	}
	if _, err := s.CreateProject("alice", CreateProjectInput{Name: strings.Repeat("y", 50)}); err != nil {
		t.Errorf("50-char name: %v", err)
	}
}

func TestCreateProject_DuplicateSlugConflicts(t *testing.T) {
	s := newTestStore(t)

	mustProject(t, s, "alice", "Demo App")
	_, err := s.CreateProject("alice", CreateProjectInput{Name: "demo app"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestCreateProject_TechStackRoundTrip(t *testing.T) {
	s := newTestStore(t)

	stack := []string{"go", "gin", "mysql"}
	mustProjectIn := CreateProjectInput{Name: "Stack Demo", TechStack: stack}
	if _, err := s.CreateProject("alice", mustProjectIn); err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := s.GetProject("alice", "stack-demo")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual([]string(p.TechStack), stack) {
		t.Errorf("TechStack = %v, want %v", p.TechStack, stack)
	}
}

func TestListProjects_CountsAndOrder(t *testing.T) {
	s := newTestStore(t)

	older := mustProject(t, s, "alice", "Older Project")
	newer := mustProject(t, s, "alice", "Newer Project")
	mustProject(t, s, "bob", "Bob Project")

	mustFeature(t, s, "alice", CreateFeatureInput{ProjectID: older.ID, Name: "f1"})
	mustFeature(t, s, "alice", CreateFeatureInput{ProjectID: older.ID, Name: "f2"})

	// Force a distinct updated_at ordering.
	s.db.Exec("UPDATE projects SET updated_at = ? WHERE id = ?",
		time.Now().Add(-time.Hour), older.ID)
	s.db.Exec("UPDATE projects SET updated_at = ? WHERE id = ?",
		time.Now(), newer.ID)

	projects, err := s.ListProjects("alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2 (bob's excluded)", len(projects))
	}
	if projects[0].ID != newer.ID {
		t.Errorf("first project = %s, want most recently updated %s", projects[0].ID, newer.ID)
	}

	counts := map[string]int{}
	for _, p := range projects {
		counts[p.ID] = p.FeatureCount
	}
	if counts[older.ID] != 2 {
		t.Errorf("feature count for %s = %d, want 2", older.ID, counts[older.ID])
	}
	if counts[newer.ID] != 0 {
		t.Errorf("feature count for %s = %d, want 0", newer.ID, counts[newer.ID])
	}
}

func TestGetProject_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetProject("alice", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetProject_WrongUser(t *testing.T) {
	s := newTestStore(t)
	mustProject(t, s, "alice", "Demo App")

	_, err := s.GetProject("bob", "demo-app")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for another user's project", err)
	}
}

func TestDeleteProject_Cascades(t *testing.T) {
	s := newTestStore(t)

	p := mustProject(t, s, "alice", "Doomed Project")
	f := mustFeature(t, s, "alice", CreateFeatureInput{ProjectID: p.ID, Name: "f1"})
	if _, err := s.CreateBlocker(CreateBlockerInput{FeatureID: f.ID, Description: "stuck"}); err != nil {
		t.Fatalf("create blocker: %v", err)
	}
	if _, err := s.RecordImplementation(RecordImplementationInput{
		FeatureID:     f.ID,
		FilesAffected: []string{"main.go"},
	}); err != nil {
		t.Fatalf("record implementation: %v", err)
	}

	deleted, err := s.DeleteProject("alice", p.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("deleted = false, want true")
	}

	features, _ := s.ListFeatures(p.ID)
	if len(features) != 0 {
		t.Errorf("got %d features after delete, want 0", len(features))
	}
	blockers, _ := s.ListBlockers(p.ID, true)
	if len(blockers) != 0 {
		t.Errorf("got %d blockers after delete, want 0", len(blockers))
	}
	impls, _ := s.ListImplementations(p.ID)
	if len(impls) != 0 {
		t.Errorf("got %d implementations after delete, want 0", len(impls))
	}
}

func TestDeleteProject_WrongUserLeavesData(t *testing.T) {
	s := newTestStore(t)
	p := mustProject(t, s, "alice", "Kept Project")

	deleted, err := s.DeleteProject("bob", p.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Error("deleted = true for non-owner, want false")
	}

	if _, err := s.GetProject("alice", p.ID); err != nil {
		t.Errorf("project gone after non-owner delete: %v", err)
	}
}
