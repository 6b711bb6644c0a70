package migrations

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Execer runs a single DDL statement.
type Execer interface {
	Exec(ctx context.Context, statement string) error
}

type pgxExecer struct{ pool *pgxpool.Pool }

func (e pgxExecer) Exec(ctx context.Context, statement string) error {
	_, err := e.pool.Exec(ctx, statement)
	return err
}

type gormExecer struct{ db *gorm.DB }

func (e gormExecer) Exec(ctx context.Context, statement string) error {
	return e.db.WithContext(ctx).Exec(statement).Error
}

// Migrator creates the schema when it is missing. There is no version
// tracking: every statement is idempotent (IF NOT EXISTS).
type Migrator struct {
	exec    Execer
	dialect string
	logger  zerolog.Logger
}

// NewMigrator creates a migrator for the given dialect ("sqlite" or "postgres").
func NewMigrator(exec Execer, dialect string, lgr zerolog.Logger) *Migrator {
	return &Migrator{exec: exec, dialect: dialect, logger: lgr}
}

// NewPostgresMigrator creates a migrator running on a pgx pool.
func NewPostgresMigrator(pool *pgxpool.Pool, lgr zerolog.Logger) *Migrator {
	return NewMigrator(pgxExecer{pool: pool}, "postgres", lgr)
}

// NewSQLiteMigrator creates a migrator running on a GORM sqlite handle.
func NewSQLiteMigrator(db *gorm.DB, lgr zerolog.Logger) *Migrator {
	return NewMigrator(gormExecer{db: db}, "sqlite", lgr)
}

// EnsureSchema applies the embedded schema for the migrator's dialect.
func (m *Migrator) EnsureSchema(ctx context.Context) error {
	path := "schema/" + m.dialect + ".sql"
	content, err := schemaFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("no schema for dialect %q: %w", m.dialect, err)
	}

	statements := splitStatements(string(content))
	for i, stmt := range statements {
		if err := m.exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d of %s failed: %w", i+1, path, err)
		}
	}

	m.logger.Info().Str("dialect", m.dialect).Int("statements", len(statements)).Msg("Database schema ensured")
	return nil
}

// splitStatements breaks a SQL script into statements on ';', dropping
// blank lines and '--' comments. The schema files contain no string literals.
func splitStatements(script string) []string {
	var cleaned strings.Builder
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteString("\n")
	}

	var statements []string
	for _, part := range strings.Split(cleaned.String(), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
