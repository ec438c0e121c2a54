package board

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"mission-control/models"

	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Importer é o subconjunto do Client usado por Import.
type Importer interface {
	CreateTask(ctx context.Context, d TaskDraft) (models.Task, error)
	CreateComment(ctx context.Context, taskID, text string) (models.Comment, error)
}

// Export grava todas as tarefas do servidor em JSON ou YAML.
func Export(ctx context.Context, c API, w io.Writer, format string) error {
	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("formato desconhecido %q (use json ou yaml)", format)
	}
}

// importedTask tem só os campos que voltam para a API.
type importedTask struct {
	Title      string              `yaml:"title"`
	Desc       *string             `yaml:"desc"`
	Status     models.TaskStatus   `yaml:"status"`
	Priority   models.TaskPriority `yaml:"priority"`
	AssignedTo *string             `yaml:"assignedTo"`
	Comments   []struct {
		Text string `yaml:"text"`
	} `yaml:"comments"`
}

// Import lê uma lista de tarefas exportada (JSON ou YAML) e recria cada uma,
// com os comentários, via API. IDs e timestamps do arquivo são ignorados.
func Import(ctx context.Context, c Importer, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	var tasks []importedTask
	// JSON também é YAML válido.
	if err := yaml.Unmarshal(data, &tasks); err != nil {
		return 0, fmt.Errorf("erro ao decodificar arquivo de tarefas: %w", err)
	}

	for i, t := range tasks {
		created, err := c.CreateTask(ctx, TaskDraft{
			Title:      t.Title,
			Desc:       t.Desc,
			Status:     t.Status,
			Priority:   t.Priority,
			AssignedTo: t.AssignedTo,
		})
		if err != nil {
			return i, fmt.Errorf("tarefa %q: %w", t.Title, err)
		}
		for _, cm := range t.Comments {
			if _, err := c.CreateComment(ctx, created.ID, cm.Text); err != nil {
				return i, fmt.Errorf("comentário da tarefa %q: %w", t.Title, err)
			}
		}
	}
	return len(tasks), nil
}
