package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
)

// CourseRepository handles course rows through GORM.
type CourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListCourses returns the whole catalogue in insertion order.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses := []*models.Course{}
	if err := r.db.WithContext(ctx).Order("course_id ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

// GetCourse retrieves a course by ID
func (r *CourseRepository) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).Where("course_id = ?", id).Take(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return &course, nil
}

// CreateCourse inserts a course; the code must be unique.
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	row := *course
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrDuplicateCourseCode
		}
		return 0, fmt.Errorf("error creating course: %w", err)
	}
	course.ID = row.ID
	return row.ID, nil
}

// DeleteCourse deletes a course; ON DELETE CASCADE removes its enrollments.
func (r *CourseRepository) DeleteCourse(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("course_id = ?", id).Delete(&models.Course{})
	if res.Error != nil {
		return fmt.Errorf("error deleting course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
