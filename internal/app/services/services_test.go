package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/migrations"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
)

// newTestServices opens a fresh sqlite store seeded with courses MATH101,
// PHYS101 and CS101 (ids 1, 2 and 3).
func newTestServices(t *testing.T) *Services {
	t.Helper()

	lite, err := db.OpenSQLite(config.SQLiteDSN(filepath.Join(t.TempDir(), "services.db")), zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = lite.Close() })

	ctx := context.Background()
	if err := migrations.NewSQLiteMigrator(lite.Gorm, zerolog.Nop()).EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	svc := NewServices(repositories.NewSQLiteRepositories(lite))
	for _, c := range []models.Course{
		{Code: "MATH101", Name: "Calculus I"},
		{Code: "PHYS101", Name: "Physics I"},
		{Code: "CS101", Name: "Intro to Programming"},
	} {
		course := c
		if err := svc.CourseService.CreateCourse(ctx, &course); err != nil {
			t.Fatalf("CreateCourse(%s): %v", course.Code, err)
		}
	}
	return svc
}
