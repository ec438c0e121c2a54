package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mission-control/config"
	"mission-control/utilities"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound é retornado quando a tarefa ou o comentário não existe.
var ErrNotFound = errors.New("registro não encontrado")

// Store concentra o acesso às tabelas tasks, comments e system_logs.
// Não há controle de concorrência: o último PATCH vence.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
	newID  func() string
}

// Connect abre a conexão com o driver configurado, testa e aplica o schema.
func Connect(ctx context.Context, cfg config.Database) (*Store, error) {
	driverName := cfg.Driver
	if driverName == config.DriverPostgres {
		utilities.LogDebug("Conectando ao PostgreSQL em %s:%s/%s", cfg.Host, cfg.Port, cfg.Name)
	} else {
		utilities.LogDebug("Abrindo banco SQLite em %s", cfg.SQLitePath)
	}

	db, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		utilities.LogError(err, "Erro ao abrir conexão com o banco de dados")
		return nil, err
	}
	if driverName == config.DriverSQLite {
		// Um único escritor; o SQLite serializa as escritas de qualquer forma.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		utilities.LogError(err, "Erro ao conectar ao banco de dados")
		_ = db.Close()
		return nil, err
	}

	s := NewStore(db, driverName)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("erro ao aplicar schema: %w", err)
	}

	utilities.LogInfo("Conectado ao banco de dados (%s) com sucesso!", driverName)
	return s, nil
}

// NewStore embrulha uma conexão já aberta.
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{
		db:     db,
		driver: driver,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  newUUID,
	}
}

// SetClock troca o relógio usado nos timestamps gravados pelo servidor.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Migrate cria as tabelas caso ainda não existam.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'Planning',
			priority TEXT NOT NULL DEFAULT 'Medium',
			assigned_to TEXT,
			created_at_ms BIGINT NOT NULL,
			updated_at_ms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_updated ON tasks (updated_at_ms)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			task_id TEXT NOT NULL REFERENCES tasks (id) ON DELETE CASCADE,
			created_at_ms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_task ON comments (task_id)`,
		`CREATE TABLE IF NOT EXISTS system_logs (
			id TEXT PRIMARY KEY,
			level TEXT NOT NULL,
			module TEXT NOT NULL,
			message TEXT NOT NULL,
			timestamp_ms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_system_logs_ts ON system_logs (timestamp_ms)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			utilities.LogError(err, "Erro ao executar migração")
			return err
		}
	}
	return nil
}

// rebind converte os placeholders "?" para "$n" quando o driver é o Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != config.DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 1
	for _, r := range query {
		if r == '?' {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
