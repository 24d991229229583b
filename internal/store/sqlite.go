package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vibeworks/forge/internal/engine"
)

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database and applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) CreateProject(p *engine.Project) error {
	_, err := s.db.Exec(
		`INSERT INTO projects
		 (id, name, namespace, frontend, backend, db_engine, include_ai, deployment, status, progress, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Namespace,
		p.Request.FrontendFramework, p.Request.BackendFramework, p.Request.Database,
		p.Request.IncludeAI, p.Request.DeploymentTarget,
		string(p.Status), p.Progress, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateProject(id string, status engine.Status, progress float64, errMsg string) error {
	_, err := s.db.Exec(
		`UPDATE projects SET status = ?, progress = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		string(status), progress, errMsg, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteProject(id string) error {
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListProjects() ([]ProjectSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, name, status, progress, error_message, created_at, updated_at
		 FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectSummary
	for rows.Next() {
		var ps ProjectSummary
		if err := rows.Scan(&ps.ID, &ps.Name, &ps.Status, &ps.Progress, &ps.Error, &ps.CreatedAt, &ps.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateExecution(rec engine.ExecutionRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO stage_executions
		 (id, project_id, stage, status, tokens_in, tokens_out, duration_ms, error_message, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.ProjectID, string(rec.Stage), string(rec.Status),
		rec.TokensIn, rec.TokensOut, rec.DurationMS, rec.ErrorMessage,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListExecutions(projectID string) ([]engine.ExecutionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, stage, status, tokens_in, tokens_out, duration_ms, error_message, created_at, updated_at
		 FROM stage_executions WHERE project_id = ? ORDER BY created_at ASC, id ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var out []engine.ExecutionRecord
	for rows.Next() {
		var rec engine.ExecutionRecord
		var stage, status string
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &stage, &status,
			&rec.TokensIn, &rec.TokensOut, &rec.DurationMS, &rec.ErrorMessage,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Stage = engine.Stage(stage)
		rec.Status = engine.ExecutionStatus(status)
		out = append(out, rec)
	}
	return out, rows.Err()
}
