package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/migrations"
	"github.com/yigit/studentrecords/internal/app/repositories/postgres"
	"github.com/yigit/studentrecords/internal/app/repositories/repositorytest"
	"github.com/yigit/studentrecords/internal/db"
)

// Set STUDENTS_TEST_POSTGRES_URL to a disposable database to run these.
const postgresURLEnv = "STUDENTS_TEST_POSTGRES_URL"

func TestRepositories(t *testing.T) {
	url := os.Getenv(postgresURLEnv)
	if url == "" {
		t.Skipf("%s not set", postgresURLEnv)
	}

	ctx := context.Background()
	pg, err := db.NewPostgresDBFromURL(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = pg.Close() })

	if err := migrations.NewPostgresMigrator(pg.Pool, zerolog.Nop()).EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	repositorytest.Run(t, func(t *testing.T) (repositorytest.StudentStore, repositorytest.CourseStore) {
		if _, err := pg.Pool.Exec(ctx, "TRUNCATE enrollment, student, course RESTART IDENTITY CASCADE"); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return postgres.NewStudentRepository(pg), postgres.NewCourseRepository(pg)
	})
}
