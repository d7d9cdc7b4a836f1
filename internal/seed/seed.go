// Package seed provides the sample projects and tasks a fresh session starts with.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/existflow/projecttasks/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed projects.yaml
var projectsYAML []byte

//go:embed tasks.yaml
var tasksYAML []byte

// Load decodes the embedded collections
func Load() ([]model.Project, []model.Task, error) {
	var projects []model.Project
	if err := yaml.Unmarshal(projectsYAML, &projects); err != nil {
		return nil, nil, fmt.Errorf("failed to parse seed projects: %w", err)
	}

	var tasks []model.Task
	if err := yaml.Unmarshal(tasksYAML, &tasks); err != nil {
		return nil, nil, fmt.Errorf("failed to parse seed tasks: %w", err)
	}

	return projects, tasks, nil
}
