package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mission-control/models"
	"mission-control/utilities"
)

const taskColumns = `id, title, description, status, priority, assigned_to, created_at_ms, updated_at_ms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t                   models.Task
		desc, assignedTo    sql.NullString
		status, priority    string
		createdMs, updateMs int64
	)
	if err := row.Scan(&t.ID, &t.Title, &desc, &status, &priority, &assignedTo, &createdMs, &updateMs); err != nil {
		return models.Task{}, err
	}
	t.Desc = stringPtr(desc)
	t.AssignedTo = stringPtr(assignedTo)
	t.Status = models.TaskStatus(status)
	t.Priority = models.TaskPriority(priority)
	t.CreatedAt = fromMillis(createdMs)
	t.UpdatedAt = fromMillis(updateMs)
	t.Comments = []models.Comment{}
	return t, nil
}

// ListTasks retorna todas as tarefas, as atualizadas mais recentemente primeiro,
// com os comentários já incluídos.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY updated_at_ms DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar tarefas: %w", err)
	}
	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("erro ao ler tarefa: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Os comentários são carregados numa segunda consulta, depois de fechar o cursor,
	// porque o SQLite roda com uma única conexão.
	byTask, err := s.commentsByTask(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if cs, ok := byTask[tasks[i].ID]; ok {
			tasks[i].Comments = cs
		}
	}
	return tasks, nil
}

// ListTasksByStatus é usada pelo heartbeat para achar tarefas pendentes.
func (s *Store) ListTasksByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT `+taskColumns+` FROM tasks WHERE status = ? ORDER BY updated_at_ms DESC`), string(status))
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar tarefas com status %q: %w", status, err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask busca uma tarefa e seus comentários.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("erro ao buscar tarefa %s: %w", id, err)
	}
	comments, err := s.ListComments(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	t.Comments = comments
	return t, nil
}

// CreateTask insere uma tarefa já validada.
func (s *Store) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	now := s.now()
	t := models.Task{
		ID:         s.newID(),
		Title:      in.Title,
		Desc:       in.Desc,
		Status:     in.Status,
		Priority:   in.Priority,
		AssignedTo: in.AssignedTo,
		CreatedAt:  fromMillis(toMillis(now)),
		UpdatedAt:  fromMillis(toMillis(now)),
		Comments:   []models.Comment{},
	}

	utilities.LogDebug("Inserindo nova tarefa no banco de dados")
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		t.ID, t.Title, nullString(t.Desc), string(t.Status), string(t.Priority), nullString(t.AssignedTo),
		toMillis(now), toMillis(now))
	if err != nil {
		return models.Task{}, fmt.Errorf("erro ao inserir tarefa: %w", err)
	}
	return t, nil
}

// UpdateTask aplica uma atualização parcial. Campos não enviados permanecem iguais.
func (s *Store) UpdateTask(ctx context.Context, id string, in models.UpdateTaskInput) (models.Task, error) {
	if in.Empty() {
		return s.GetTask(ctx, id)
	}

	// Construir query dinâmica
	sets := []string{}
	params := []any{}
	if in.Title != nil {
		sets = append(sets, "title = ?")
		params = append(params, *in.Title)
	}
	if in.Desc.Set {
		sets = append(sets, "description = ?")
		params = append(params, nullString(in.Desc.Value))
	}
	if in.Status != nil {
		sets = append(sets, "status = ?")
		params = append(params, string(*in.Status))
	}
	if in.Priority != nil {
		sets = append(sets, "priority = ?")
		params = append(params, string(*in.Priority))
	}
	if in.AssignedTo.Set {
		sets = append(sets, "assigned_to = ?")
		params = append(params, nullString(in.AssignedTo.Value))
	}
	sets = append(sets, "updated_at_ms = ?")
	params = append(params, toMillis(s.now()), id)

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := s.db.ExecContext(ctx, s.rebind(query), params...)
	if err != nil {
		return models.Task{}, fmt.Errorf("erro ao atualizar tarefa %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Task{}, ErrNotFound
	}
	return s.GetTask(ctx, id)
}

// DeleteTask remove a tarefa e, na mesma transação, os seus comentários.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM comments WHERE task_id = ?`), id); err != nil {
		return fmt.Errorf("erro ao remover comentários da tarefa %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("erro ao remover tarefa %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// DeleteAllTasks limpa o quadro; usado pelo comando seed.
func (s *Store) DeleteAllTasks(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return err
	}
	return tx.Commit()
}
