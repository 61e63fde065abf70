package config

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Pipelinefile represents the structure of the fileflow.yaml pipeline file.
type Pipelinefile struct {
	Version    string   `yaml:"version"`
	OutputRoot string   `yaml:"output_root"`
	RunInfo    string   `yaml:"run_info"`
	Tasks      TaskList `yaml:"tasks"`
}

// TaskDTO represents a command task definition in the pipeline file.
type TaskDTO struct {
	Cmd         []string          `yaml:"cmd"`
	Input       []string          `yaml:"input"`
	Output      string            `yaml:"output"`
	Params      map[string]string `yaml:"params"`
	Environment map[string]string `yaml:"environment"`
	WorkingDir  string            `yaml:"workingDir"`
}

// NamedTask is a task definition together with its key in the tasks mapping.
type NamedTask struct {
	Name string
	Task TaskDTO
}

// TaskList holds the task definitions in file order.
type TaskList []NamedTask

// UnmarshalYAML decodes the tasks mapping, keeping the order of its keys.
func (l *TaskList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return zerr.With(zerr.New("tasks must be a mapping"), "line", value.Line)
	}

	seen := make(map[string]bool, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, body := value.Content[i], value.Content[i+1]
		if seen[key.Value] {
			return zerr.With(zerr.With(zerr.New("task defined twice"), "task", key.Value), "line", key.Line)
		}
		seen[key.Value] = true

		var dto TaskDTO
		if err := body.Decode(&dto); err != nil {
			return zerr.With(zerr.Wrap(err, "invalid task definition"), "task", key.Value)
		}
		*l = append(*l, NamedTask{Name: key.Value, Task: dto})
	}
	return nil
}
