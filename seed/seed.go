// Package seed carrega os dados iniciais embutidos no binário.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"mission-control/models"
	"mission-control/utilities"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type Task struct {
	Title      string              `yaml:"title"`
	Desc       *string             `yaml:"desc"`
	Status     models.TaskStatus   `yaml:"status"`
	Priority   models.TaskPriority `yaml:"priority"`
	AssignedTo *string             `yaml:"assignedTo"`
	Comments   []string            `yaml:"comments"`
}

type File struct {
	Tasks []Task `yaml:"tasks"`
}

// Store é o subconjunto do banco usado pelo seed.
type Store interface {
	DeleteAllTasks(ctx context.Context) error
	CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error)
	CreateComment(ctx context.Context, taskID, text string) (models.Comment, error)
}

// Default devolve o seed embutido.
func Default() (File, error) { return Parse(defaultSeed) }

// Parse decodifica um arquivo de seed e aplica os padrões Planning/Medium.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("erro ao decodificar seed: %w", err)
	}
	for i := range f.Tasks {
		t := &f.Tasks[i]
		if t.Title == "" {
			return File{}, fmt.Errorf("tarefa %d do seed sem título", i)
		}
		if t.Status == "" {
			t.Status = models.StatusPlanning
		}
		if t.Priority == "" {
			t.Priority = models.PriorityMedium
		}
		if !t.Status.Valid() {
			return File{}, fmt.Errorf("tarefa %q: status inválido %q", t.Title, t.Status)
		}
		if !t.Priority.Valid() {
			return File{}, fmt.Errorf("tarefa %q: prioridade inválida %q", t.Title, t.Priority)
		}
	}
	return f, nil
}

// Apply apaga todas as tarefas e grava as do seed, na ordem do arquivo.
func Apply(ctx context.Context, store Store, f File) error {
	if err := store.DeleteAllTasks(ctx); err != nil {
		return fmt.Errorf("erro ao limpar tarefas: %w", err)
	}
	for _, t := range f.Tasks {
		created, err := store.CreateTask(ctx, models.CreateTaskInput{
			Title:      t.Title,
			Desc:       t.Desc,
			Status:     t.Status,
			Priority:   t.Priority,
			AssignedTo: t.AssignedTo,
		})
		if err != nil {
			return fmt.Errorf("erro ao criar tarefa %q: %w", t.Title, err)
		}
		for _, text := range t.Comments {
			if _, err := store.CreateComment(ctx, created.ID, text); err != nil {
				return fmt.Errorf("erro ao criar comentário em %q: %w", t.Title, err)
			}
		}
	}
	utilities.LogInfo("Seed aplicado: %d tarefas", len(f.Tasks))
	return nil
}
