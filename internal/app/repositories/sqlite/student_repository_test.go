package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yigit/studentrecords/internal/app/migrations"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

func newMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	lite, err := db.OpenSQLite(config.SQLiteDSN(filepath.Join(t.TempDir(), "students.db")), zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = lite.Close() })

	if err := migrations.NewSQLiteMigrator(lite.Gorm, zerolog.Nop()).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return lite.Gorm
}

// A roll number committed between the lookup and the insert still comes back
// as a duplicate, from the unique constraint.
func TestCreateStudent_UniqueConstraintReportsDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(newMigratedDB(t))

	if _, err := repo.CreateStudent(ctx, &models.Student{RollNumber: "S100", FirstName: "Jane", LastName: "Doe"}, nil); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	lookups := 0
	repo.lookupRoll = func(tx *gorm.DB, roll string) (*models.Student, error) {
		lookups++
		return nil, nil
	}

	_, err := repo.CreateStudent(ctx, &models.Student{RollNumber: "S100", FirstName: "John", LastName: "Roe"}, nil)
	if !errors.Is(err, apperrors.ErrDuplicateRollNumber) {
		t.Fatalf("err = %v, want ErrDuplicateRollNumber", err)
	}
	if lookups != 1 {
		t.Errorf("lookup ran %d times, want 1", lookups)
	}

	students, err := repo.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 1 || students[0].FirstName != "Jane" {
		t.Errorf("students = %+v, want only the first S100", students)
	}
}
