package database

import (
	"context"
	"fmt"

	"mission-control/models"
)

// RecentLogsLimit é o máximo de linhas devolvidas por ListRecentLogs.
const RecentLogsLimit = 50

const logColumns = `id, level, module, message, timestamp_ms`

func scanLog(row rowScanner) (models.SystemLog, error) {
	var (
		l     models.SystemLog
		level string
		tsMs  int64
	)
	if err := row.Scan(&l.ID, &level, &l.Module, &l.Message, &tsMs); err != nil {
		return models.SystemLog{}, err
	}
	l.Level = models.LogLevel(level)
	l.Timestamp = fromMillis(tsMs)
	return l, nil
}

func (s *Store) queryLogs(ctx context.Context, query string, args ...any) ([]models.SystemLog, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar logs: %w", err)
	}
	defer rows.Close()

	logs := []models.SystemLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ListRecentLogs retorna no máximo RecentLogsLimit logs, do mais novo ao mais antigo.
func (s *Store) ListRecentLogs(ctx context.Context) ([]models.SystemLog, error) {
	return s.queryLogs(ctx, `SELECT `+logColumns+` FROM system_logs ORDER BY timestamp_ms DESC, id DESC LIMIT ?`, RecentLogsLimit)
}

// ListAllLogs devolve o histórico completo; usado pelo cálculo de estatísticas.
func (s *Store) ListAllLogs(ctx context.Context) ([]models.SystemLog, error) {
	return s.queryLogs(ctx, `SELECT `+logColumns+` FROM system_logs ORDER BY timestamp_ms DESC, id DESC`)
}

// CreateLog insere uma linha de log com timestamp do servidor.
func (s *Store) CreateLog(ctx context.Context, in models.CreateLogInput) (models.SystemLog, error) {
	now := s.now()
	l := models.SystemLog{
		ID:        s.newID(),
		Level:     in.Level,
		Module:    in.Module,
		Message:   in.Message,
		Timestamp: fromMillis(toMillis(now)),
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO system_logs (`+logColumns+`) VALUES (?, ?, ?, ?, ?)`),
		l.ID, string(l.Level), l.Module, l.Message, toMillis(now))
	if err != nil {
		return models.SystemLog{}, fmt.Errorf("erro ao inserir log: %w", err)
	}
	return l, nil
}
