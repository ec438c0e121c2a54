// Package board mantém o estado local do quadro kanban e o reconcilia com a API.
//
// As mudanças de coluna acontecem primeiro em memória (DragOver) e só vão para
// o servidor no Drop. Se o PATCH falhar, o quadro inteiro é recarregado.
package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"mission-control/models"
	"mission-control/utilities"
)

// API é o que o quadro precisa do servidor. *Client implementa.
type API interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, d TaskDraft) (models.Task, error)
	UpdateTask(ctx context.Context, id string, p TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type Board struct {
	api API

	mu      sync.Mutex
	tasks   []models.Task
	gen     uint64
	applied uint64
}

func New(api API) *Board {
	return &Board{api: api}
}

// Tasks devolve uma cópia da lista local, na ordem atual.
func (b *Board) Tasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Task(nil), b.tasks...)
}

// Refresh substitui o estado local pela lista do servidor. Uma resposta que
// chega depois de uma recarga mais nova já aplicada é descartada.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	tasks, err := b.api.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("erro ao recarregar quadro: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen < b.applied {
		utilities.LogDebug("board: recarga %d descartada, %d já aplicada", gen, b.applied)
		return nil
	}
	b.applied = gen
	b.tasks = tasks
	return nil
}

func (b *Board) indexOf(id string) int {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// DragOver aplica, só localmente, o efeito de arrastar activeID sobre overID.
// overID pode ser uma coluna (valor de status) ou outra tarefa da mesma coluna.
// Devolve true se o estado mudou.
func (b *Board) DragOver(activeID, overID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	from := b.indexOf(activeID)
	if from < 0 || activeID == overID {
		return false
	}

	if status := models.TaskStatus(overID); status.Valid() {
		if b.tasks[from].Status == status {
			return false
		}
		b.tasks[from].Status = status
		return true
	}

	to := b.indexOf(overID)
	if to < 0 || b.tasks[to].Status != b.tasks[from].Status {
		return false
	}
	b.tasks = arrayMove(b.tasks, from, to)
	return true
}

func arrayMove(tasks []models.Task, from, to int) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	out = append(out, tasks[:from]...)
	out = append(out, tasks[from+1:]...)
	return slices.Insert(out, to, tasks[from])
}

// Drop envia o status local da tarefa ao servidor. Em caso de erro o quadro é
// recarregado e o erro do PATCH é devolvido.
func (b *Board) Drop(ctx context.Context, activeID string) error {
	b.mu.Lock()
	i := b.indexOf(activeID)
	if i < 0 {
		b.mu.Unlock()
		return fmt.Errorf("tarefa %s não está no quadro", activeID)
	}
	status := b.tasks[i].Status
	b.mu.Unlock()

	updated, err := b.api.UpdateTask(ctx, activeID, TaskPatch{Status: &status})
	if err != nil {
		utilities.LogWarn("board: PATCH de %s falhou, recarregando: %v", activeID, err)
		if rerr := b.Refresh(ctx); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}

	b.mu.Lock()
	if i := b.indexOf(activeID); i >= 0 {
		b.tasks[i] = updated
	}
	b.mu.Unlock()
	return nil
}

// Move é DragOver sobre a coluna seguido de Drop.
func (b *Board) Move(ctx context.Context, id string, status models.TaskStatus) error {
	if !b.DragOver(id, string(status)) {
		return nil
	}
	return b.Drop(ctx, id)
}

// Reorder troca a tarefa de lugar com a vizinha da mesma coluna (delta -1 ou +1).
// É só local; a ordem não é persistida.
func (b *Board) Reorder(id string, delta int) bool {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return false
	}
	col := columnOf(b.tasks, b.tasks[i].Status)
	b.mu.Unlock()

	for pos, t := range col {
		if t.ID != id {
			continue
		}
		next := pos + delta
		if next < 0 || next >= len(col) {
			return false
		}
		return b.DragOver(id, col[next].ID)
	}
	return false
}

func columnOf(tasks []models.Task, status models.TaskStatus) []models.Task {
	col := []models.Task{}
	for _, t := range tasks {
		if t.Status == status {
			col = append(col, t)
		}
	}
	return col
}

// Column devolve as tarefas de uma coluna na ordem local.
func (b *Board) Column(status models.TaskStatus) []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return columnOf(b.tasks, status)
}

// Filter restringe a lista; campos vazios não filtram.
type Filter struct {
	Search   string
	Priority models.TaskPriority
	Status   models.TaskStatus
}

func (f Filter) Match(t models.Task) bool {
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	return t.Desc != nil && strings.Contains(strings.ToLower(*t.Desc), q)
}

func (b *Board) Filter(f Filter) []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Task{}
	for _, t := range b.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Duplicate cria "<título> (Copy)" em Planning com a mesma descrição, prioridade e responsável.
func (b *Board) Duplicate(ctx context.Context, id string) (models.Task, error) {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return models.Task{}, fmt.Errorf("tarefa %s não está no quadro", id)
	}
	src := b.tasks[i]
	b.mu.Unlock()

	created, err := b.api.CreateTask(ctx, TaskDraft{
		Title:      src.Title + " (Copy)",
		Desc:       src.Desc,
		Status:     models.StatusPlanning,
		Priority:   src.Priority,
		AssignedTo: src.AssignedTo,
	})
	if err != nil {
		return models.Task{}, err
	}
	return created, b.Refresh(ctx)
}

// CompleteAll marca as tarefas como Done. Continua mesmo se alguma falhar.
func (b *Board) CompleteAll(ctx context.Context, ids []string) error {
	done := models.StatusDone
	var errs []error
	for _, id := range ids {
		if _, err := b.api.UpdateTask(ctx, id, TaskPatch{Status: &done}); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	errs = append(errs, b.Refresh(ctx))
	return errors.Join(errs...)
}

// DeleteAll remove as tarefas. Continua mesmo se alguma falhar.
func (b *Board) DeleteAll(ctx context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := b.api.DeleteTask(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	errs = append(errs, b.Refresh(ctx))
	return errors.Join(errs...)
}
