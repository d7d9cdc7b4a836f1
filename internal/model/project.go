package model

import "time"

// DefaultProjectColor is used when a project is created without a color
const DefaultProjectColor = "#4ECDC4"

// Project represents a named, colored collection of tasks
type Project struct {
	ID         int       `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Color      string    `json:"color" yaml:"color"`
	CreatedAt  time.Time `json:"createdAt" yaml:"created_at"`
	IsArchived bool      `json:"isArchived" yaml:"is_archived"`
}

// ProjectPatch lists the fields to merge into an existing project.
// Nil fields are left untouched.
type ProjectPatch struct {
	Name       *string
	Color      *string
	IsArchived *bool
}

// Apply merges the patch into p
func (pp ProjectPatch) Apply(p *Project) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Color != nil {
		p.Color = *pp.Color
	}
	if pp.IsArchived != nil {
		p.IsArchived = *pp.IsArchived
	}
}
