package models

import "time"

// TaskStatus representa a coluna do quadro em que a tarefa está.
type TaskStatus string

const (
	StatusPlanning   TaskStatus = "Planning"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

// Statuses lista as colunas na ordem em que aparecem no quadro.
var Statuses = []TaskStatus{StatusPlanning, StatusInProgress, StatusDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// TaskPriority representa a prioridade de uma tarefa.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

var Priorities = []TaskPriority{PriorityHigh, PriorityMedium, PriorityLow}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	ID         string       `json:"id" yaml:"id"`
	Title      string       `json:"title" yaml:"title"`
	Desc       *string      `json:"desc" yaml:"desc"`
	Status     TaskStatus   `json:"status" yaml:"status"`
	Priority   TaskPriority `json:"priority" yaml:"priority"`
	AssignedTo *string      `json:"assignedTo" yaml:"assignedTo"`
	CreatedAt  time.Time    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt" yaml:"updatedAt"`
	Comments   []Comment    `json:"comments" yaml:"comments"`
}

// CreateTaskInput já validado e com os valores padrão aplicados.
type CreateTaskInput struct {
	Title      string
	Desc       *string
	Status     TaskStatus
	Priority   TaskPriority
	AssignedTo *string
}

// NullableString distingue "campo ausente" de "campo enviado como null".
type NullableString struct {
	Set   bool
	Value *string
}

// UpdateTaskInput usa ponteiros para indicar quais campos atualizar.
type UpdateTaskInput struct {
	Title      *string
	Desc       NullableString
	Status     *TaskStatus
	Priority   *TaskPriority
	AssignedTo NullableString
}

// Empty indica que nenhum campo foi enviado.
func (u UpdateTaskInput) Empty() bool {
	return u.Title == nil && !u.Desc.Set && u.Status == nil && u.Priority == nil && !u.AssignedTo.Set
}

// Apply aplica a atualização parcial sobre uma cópia da tarefa.
func (u UpdateTaskInput) Apply(t Task) Task {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Desc.Set {
		t.Desc = u.Desc.Value
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.AssignedTo.Set {
		t.AssignedTo = u.AssignedTo.Value
	}
	return t
}
