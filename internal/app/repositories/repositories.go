package repositories

import (
	"context"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories/postgres"
	"github.com/yigit/studentrecords/internal/app/repositories/sqlite"
	"github.com/yigit/studentrecords/internal/db"
)

// StudentRepository is the data access contract for students and their
// enrollments. Every method runs as a single transaction.
type StudentRepository interface {
	ListStudents(ctx context.Context) ([]*models.Student, error)
	// FindStudentByRollNumber returns nil, nil when no student has the roll number.
	FindStudentByRollNumber(ctx context.Context, roll string) (*models.Student, error)
	CreateStudent(ctx context.Context, student *models.Student, courseIDs []int64) (int64, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student, courseIDs []int64) error
	DeleteStudent(ctx context.Context, id int64) error
	ListCoursesForStudent(ctx context.Context, id int64) ([]*models.Course, error)
	ListEnrolledCourseIDs(ctx context.Context, id int64) ([]int64, error)
}

// CourseRepository gives access to the course catalogue.
type CourseRepository interface {
	ListCourses(ctx context.Context) ([]*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository StudentRepository
	CourseRepository  CourseRepository
}

// NewPostgresRepositories builds repositories backed by a pgx pool.
func NewPostgresRepositories(pg *db.PostgresDB) *Repositories {
	return &Repositories{
		StudentRepository: postgres.NewStudentRepository(pg),
		CourseRepository:  postgres.NewCourseRepository(pg),
	}
}

// NewSQLiteRepositories builds repositories backed by GORM over sqlite.
func NewSQLiteRepositories(lite *db.SQLiteDB) *Repositories {
	return &Repositories{
		StudentRepository: sqlite.NewStudentRepository(lite.Gorm),
		CourseRepository:  sqlite.NewCourseRepository(lite.Gorm),
	}
}
