package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/existflow/projecttasks/internal/logger"
	"github.com/existflow/projecttasks/internal/model"
)

// ProjectStore owns the in-memory project collection
type ProjectStore struct {
	mu       sync.Mutex
	projects []model.Project
	lastID   int
	opts     options
}

// NewProjectStore creates a store seeded with the given projects
func NewProjectStore(seed []model.Project, opts ...Option) *ProjectStore {
	o := buildOptions(opts)
	s := &ProjectStore{
		projects: slices.Clone(seed),
		lastID:   o.lastID,
		opts:     o,
	}
	for _, p := range s.projects {
		s.lastID = max(s.lastID, p.ID)
	}
	return s
}

// ListActive returns every project that is not archived, in storage order
func (s *ProjectStore) ListActive(ctx context.Context) ([]model.Project, error) {
	if err := s.opts.latency.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if !p.IsArchived {
			active = append(active, p)
		}
	}
	return active, nil
}

// List returns every project including archived ones
func (s *ProjectStore) List(ctx context.Context) ([]model.Project, error) {
	if err := s.opts.latency.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.projects), nil
}

// GetByID returns the project with the given id
func (s *ProjectStore) GetByID(ctx context.Context, id int) (model.Project, error) {
	if err := s.opts.latency.wait(ctx); err != nil {
		return model.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Project{}, projectNotFound(id)
	}
	return s.projects[i], nil
}

// Create appends a new project with the next id
func (s *ProjectStore) Create(ctx context.Context, name, color string) (model.Project, error) {
	if strings.TrimSpace(name) == "" {
		return model.Project{}, ErrEmptyName
	}
	if err := s.opts.latency.wait(ctx); err != nil {
		return model.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	p := model.Project{
		ID:        s.lastID,
		Name:      name,
		Color:     color,
		CreatedAt: s.opts.now(),
	}
	s.projects = append(s.projects, p)

	logger.Debug("Project created", logger.F("id", p.ID), logger.F("name", p.Name))
	return p, nil
}

// Update merges the non-nil patch fields into the project
func (s *ProjectStore) Update(ctx context.Context, id int, patch model.ProjectPatch) (model.Project, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return model.Project{}, ErrEmptyName
	}
	if err := s.opts.latency.wait(ctx); err != nil {
		return model.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Project{}, projectNotFound(id)
	}
	patch.Apply(&s.projects[i])

	logger.Debug("Project updated", logger.F("id", id))
	return s.projects[i], nil
}

// Archive hides the project from ListActive without removing it
func (s *ProjectStore) Archive(ctx context.Context, id int) (model.Project, error) {
	archived := true
	return s.Update(ctx, id, model.ProjectPatch{IsArchived: &archived})
}

// Delete removes the project. Tasks referencing it are left alone.
func (s *ProjectStore) Delete(ctx context.Context, id int) error {
	if err := s.opts.latency.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return projectNotFound(id)
	}
	s.projects = slices.Delete(s.projects, i, i+1)

	logger.Debug("Project deleted", logger.F("id", id))
	return nil
}

// Clear removes every project. The id high-water mark is kept.
func (s *ProjectStore) Clear(ctx context.Context) error {
	if err := s.opts.latency.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = nil
	return nil
}

// Snapshot returns the full collection and the id high-water mark without delay
func (s *ProjectStore) Snapshot() ([]model.Project, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.projects), s.lastID
}

func (s *ProjectStore) indexOf(id int) int {
	return slices.IndexFunc(s.projects, func(p model.Project) bool {
		return p.ID == id
	})
}
