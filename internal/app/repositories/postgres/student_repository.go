package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

const studentRollNumberKey = "student_roll_number_key"

var studentColumns = []string{"student_id", "roll_number", "first_name", "COALESCE(last_name, '')"}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
	// lookupRoll is the duplicate check CreateStudent runs before inserting.
	lookupRoll func(ctx context.Context, q querier, roll string) (*models.Student, error)
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(pg *db.PostgresDB) *StudentRepository {
	r := &StudentRepository{
		db: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	r.lookupRoll = r.findByRoll
	return r
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	if err := row.Scan(&student.ID, &student.RollNumber, &student.FirstName, &student.LastName); err != nil {
		return nil, err
	}
	return student, nil
}

// ListStudents returns every student in insertion order.
func (r *StudentRepository) ListStudents(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("student").
		OrderBy("student_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// FindStudentByRollNumber looks a student up by roll number.
func (r *StudentRepository) FindStudentByRollNumber(ctx context.Context, roll string) (*models.Student, error) {
	return r.findByRoll(ctx, r.db.Pool, roll)
}

func (r *StudentRepository) findByRoll(ctx context.Context, q querier, roll string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("student").
		Where(squirrel.Eq{"roll_number": roll}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find student query: %w", err)
	}

	student, err := scanStudent(q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding student by roll number: %w", err)
	}
	return student, nil
}

// CreateStudent inserts the student and one enrollment per course id.
// Course ids are not checked up front; the foreign key rejects unknown ones
// and the whole insert is rolled back.
func (r *StudentRepository) CreateStudent(ctx context.Context, student *models.Student, courseIDs []int64) (int64, error) {
	var id int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		existing, err := r.lookupRoll(ctx, tx, student.RollNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.ErrDuplicateRollNumber
		}

		sql, args, err := r.sb.Insert("student").
			Columns("roll_number", "first_name", "last_name").
			Values(student.RollNumber, student.FirstName, student.LastName).
			Suffix("RETURNING student_id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			if dberrors.IsDuplicateConstraintError(err, studentRollNumberKey) {
				return apperrors.ErrDuplicateRollNumber
			}
			return fmt.Errorf("error inserting student: %w", err)
		}

		return r.insertEnrollments(ctx, tx, id, courseIDs)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicateRollNumber) {
			logger.Error().Err(err).Str("roll", student.RollNumber).Msg("Error creating student")
		}
		return 0, err
	}

	student.ID = id
	return id, nil
}

func (r *StudentRepository) insertEnrollments(ctx context.Context, tx pgx.Tx, studentID int64, courseIDs []int64) error {
	if len(courseIDs) == 0 {
		return nil
	}

	insert := r.sb.Insert("enrollment").Columns("student_id", "course_id")
	for _, courseID := range courseIDs {
		insert = insert.Values(studentID, courseID)
	}
	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert enrollments query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: enrollment references a missing course (%v)", apperrors.ErrConstraintViolation, err)
		}
		return fmt.Errorf("error inserting enrollments: %w", err)
	}
	return nil
}

// GetStudent retrieves a student by ID
func (r *StudentRepository) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return r.getStudent(ctx, r.db.Pool, id, false)
}

func (r *StudentRepository) getStudent(ctx context.Context, q querier, id int64, forUpdate bool) (*models.Student, error) {
	query := r.sb.Select(studentColumns...).
		From("student").
		Where(squirrel.Eq{"student_id": id})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrStudentNotFound
	}
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return student, nil
}

// UpdateStudent overwrites the names and replaces every enrollment of the
// student with one per course id.
func (r *StudentRepository) UpdateStudent(ctx context.Context, student *models.Student, courseIDs []int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := r.getStudent(ctx, tx, student.ID, true); err != nil {
			return err
		}

		sql, args, err := r.sb.Update("student").
			SetMap(map[string]interface{}{
				"first_name": student.FirstName,
				"last_name":  student.LastName,
			}).
			Where(squirrel.Eq{"student_id": student.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update student query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error updating student: %w", err)
		}

		sql, args, err = r.sb.Delete("enrollment").
			Where(squirrel.Eq{"student_id": student.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build clear enrollments query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error clearing enrollments: %w", err)
		}

		return r.insertEnrollments(ctx, tx, student.ID, courseIDs)
	})
}

// DeleteStudent deletes a student; ON DELETE CASCADE removes its enrollments.
func (r *StudentRepository) DeleteStudent(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("student").
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// ListCoursesForStudent resolves the student's enrollments to courses.
func (r *StudentRepository) ListCoursesForStudent(ctx context.Context, id int64) ([]*models.Course, error) {
	courses := []*models.Course{}
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		ids, err := r.enrolledCourseIDs(ctx, tx, id)
		if err != nil || len(ids) == 0 {
			return err
		}

		sql, args, err := r.sb.Select(courseColumns...).
			From("course").
			Where(squirrel.Eq{"course_id": ids}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build enrolled courses query: %w", err)
		}

		found, err := queryCourses(ctx, tx, sql, args...)
		if err != nil {
			return err
		}
		courses = models.ResolveCourses(ids, found)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// ListEnrolledCourseIDs returns the course ids the student is enrolled in.
func (r *StudentRepository) ListEnrolledCourseIDs(ctx context.Context, id int64) ([]int64, error) {
	return r.enrolledCourseIDs(ctx, r.db.Pool, id)
}

func (r *StudentRepository) enrolledCourseIDs(ctx context.Context, q querier, studentID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("course_id").
		From("enrollment").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("enrollment_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enrollments query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying enrollments: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error reading enrollments: %w", err)
	}
	return ids, nil
}
