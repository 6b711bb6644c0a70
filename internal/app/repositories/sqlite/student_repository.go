package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// StudentRepository handles student and enrollment rows through GORM.
type StudentRepository struct {
	db *gorm.DB
	// lookupRoll is the duplicate check CreateStudent runs before inserting.
	lookupRoll func(tx *gorm.DB, roll string) (*models.Student, error)
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db, lookupRoll: findByRoll}
}

// ListStudents returns every student in insertion order.
func (r *StudentRepository) ListStudents(ctx context.Context) ([]*models.Student, error) {
	students := []*models.Student{}
	if err := r.db.WithContext(ctx).Order("student_id ASC").Find(&students).Error; err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}

// FindStudentByRollNumber looks a student up by roll number.
func (r *StudentRepository) FindStudentByRollNumber(ctx context.Context, roll string) (*models.Student, error) {
	return findByRoll(r.db.WithContext(ctx), roll)
}

func findByRoll(tx *gorm.DB, roll string) (*models.Student, error) {
	var student models.Student
	err := tx.Where("roll_number = ?", roll).Take(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding student by roll number: %w", err)
	}
	return &student, nil
}

// CreateStudent inserts the student and one enrollment per course id.
// Course ids are not checked up front; the foreign key rejects unknown ones
// and the whole insert is rolled back.
func (r *StudentRepository) CreateStudent(ctx context.Context, student *models.Student, courseIDs []int64) (int64, error) {
	row := models.Student{
		RollNumber: student.RollNumber,
		FirstName:  student.FirstName,
		LastName:   student.LastName,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.lookupRoll(tx, row.RollNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.ErrDuplicateRollNumber
		}

		if err := tx.Create(&row).Error; err != nil {
			// Lost the race against a concurrent insert of the same roll number.
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrDuplicateRollNumber
			}
			return fmt.Errorf("error inserting student: %w", err)
		}

		return insertEnrollments(tx, row.ID, courseIDs)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicateRollNumber) {
			logger.Error().Err(err).Str("roll", row.RollNumber).Msg("Error creating student")
		}
		return 0, err
	}

	student.ID = row.ID
	return row.ID, nil
}

func insertEnrollments(tx *gorm.DB, studentID int64, courseIDs []int64) error {
	if len(courseIDs) == 0 {
		return nil
	}

	enrollments := make([]models.Enrollment, 0, len(courseIDs))
	for _, courseID := range courseIDs {
		enrollments = append(enrollments, models.Enrollment{StudentID: studentID, CourseID: courseID})
	}

	if err := tx.Create(&enrollments).Error; err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: enrollment references a missing course (%v)", apperrors.ErrConstraintViolation, err)
		}
		return fmt.Errorf("error inserting enrollments: %w", err)
	}
	return nil
}

// GetStudent retrieves a student by ID
func (r *StudentRepository) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return getStudent(r.db.WithContext(ctx), id)
}

func getStudent(tx *gorm.DB, id int64) (*models.Student, error) {
	var student models.Student
	err := tx.Where("student_id = ?", id).Take(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return &student, nil
}

// UpdateStudent overwrites the names and replaces every enrollment of the
// student with one per course id.
func (r *StudentRepository) UpdateStudent(ctx context.Context, student *models.Student, courseIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getStudent(tx, student.ID); err != nil {
			return err
		}

		err := tx.Model(&models.Student{}).
			Where("student_id = ?", student.ID).
			Updates(map[string]interface{}{
				"first_name": student.FirstName,
				"last_name":  student.LastName,
			}).Error
		if err != nil {
			return fmt.Errorf("error updating student: %w", err)
		}

		if err := tx.Where("student_id = ?", student.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return fmt.Errorf("error clearing enrollments: %w", err)
		}

		return insertEnrollments(tx, student.ID, courseIDs)
	})
	if err != nil && !errors.Is(err, apperrors.ErrStudentNotFound) {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error updating student")
	}
	return err
}

// DeleteStudent deletes a student; ON DELETE CASCADE removes its enrollments.
func (r *StudentRepository) DeleteStudent(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("student_id = ?", id).Delete(&models.Student{})
	if res.Error != nil {
		logger.Error().Err(res.Error).Int64("studentID", id).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// ListCoursesForStudent resolves the student's enrollments to courses.
func (r *StudentRepository) ListCoursesForStudent(ctx context.Context, id int64) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := enrolledCourseIDs(tx, id)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			courses = []*models.Course{}
			return nil
		}

		found := []*models.Course{}
		if err := tx.Where("course_id IN ?", ids).Find(&found).Error; err != nil {
			return fmt.Errorf("error loading enrolled courses: %w", err)
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
	return enrolledCourseIDs(r.db.WithContext(ctx), id)
}

func enrolledCourseIDs(tx *gorm.DB, studentID int64) ([]int64, error) {
	enrollments := []models.Enrollment{}
	err := tx.Where("student_id = ?", studentID).Order("enrollment_id ASC").Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("error loading enrollments: %w", err)
	}
	return models.CourseIDs(enrollments), nil
}
