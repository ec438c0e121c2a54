package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mission-control/models"
)

const commentColumns = `id, text, task_id, created_at_ms`

func scanComment(row rowScanner) (models.Comment, error) {
	var (
		c         models.Comment
		createdMs int64
	)
	if err := row.Scan(&c.ID, &c.Text, &c.TaskID, &createdMs); err != nil {
		return models.Comment{}, err
	}
	c.CreatedAt = fromMillis(createdMs)
	return c, nil
}

func (s *Store) commentsByTask(ctx context.Context) (map[string][]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+commentColumns+` FROM comments ORDER BY created_at_ms ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar comentários: %w", err)
	}
	defer rows.Close()

	out := map[string][]models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out[c.TaskID] = append(out[c.TaskID], c)
	}
	return out, rows.Err()
}

// ListComments retorna os comentários de uma tarefa, do mais antigo ao mais novo.
func (s *Store) ListComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT `+commentColumns+` FROM comments WHERE task_id = ? ORDER BY created_at_ms ASC, id ASC`), taskID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar comentários da tarefa %s: %w", taskID, err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) taskExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM tasks WHERE id = ?`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ListTaskComments é como ListComments, mas distingue tarefa inexistente.
func (s *Store) ListTaskComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	ok, err := s.taskExists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.ListComments(ctx, taskID)
}

// CreateComment adiciona um comentário a uma tarefa existente.
func (s *Store) CreateComment(ctx context.Context, taskID, text string) (models.Comment, error) {
	ok, err := s.taskExists(ctx, taskID)
	if err != nil {
		return models.Comment{}, err
	}
	if !ok {
		return models.Comment{}, ErrNotFound
	}

	now := s.now()
	c := models.Comment{
		ID:        s.newID(),
		Text:      text,
		TaskID:    taskID,
		CreatedAt: fromMillis(toMillis(now)),
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO comments (`+commentColumns+`) VALUES (?, ?, ?, ?)`),
		c.ID, c.Text, c.TaskID, toMillis(now))
	if err != nil {
		return models.Comment{}, fmt.Errorf("erro ao inserir comentário: %w", err)
	}
	return c, nil
}

func (s *Store) GetComment(ctx context.Context, id string) (models.Comment, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+commentColumns+` FROM comments WHERE id = ?`), id)
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, ErrNotFound
	}
	if err != nil {
		return models.Comment{}, fmt.Errorf("erro ao buscar comentário %s: %w", id, err)
	}
	return c, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM comments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("erro ao remover comentário %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
