package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// CourseService handles course-related operations
type CourseService struct {
	courseRepo repositories.CourseRepository
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo repositories.CourseRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo}
}

// ListCourses returns the whole catalogue.
func (s *CourseService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.ListCourses(ctx)
}

// GetCourse retrieves a course by ID
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	if id <= 0 {
		return nil, apperrors.ErrCourseNotFound
	}
	return s.courseRepo.GetCourse(ctx, id)
}

// CreateCourse validates and stores a course.
func (s *CourseService) CreateCourse(ctx context.Context, course *models.Course) error {
	if course == nil {
		return apperrors.NewValidationError("Invalid course data", nil)
	}

	course.Code = strings.TrimSpace(course.Code)
	course.Name = strings.TrimSpace(course.Name)

	description := ""
	if course.Description != nil {
		description = *course.Description
	}
	details := validation.Collect(map[string]*validation.StringValidation{
		"code": validation.NewStringValidation("Course code", course.Code).
			WithMaxLength(validation.CourseCodeMaxLength).
			WithPattern(validation.CourseCodePattern),
		"name": validation.NewStringValidation("Course name", course.Name).
			WithMaxLength(validation.NameMaxLength),
		"description": validation.NewStringValidation("Description", description).
			WithRequired(false).
			WithMaxLength(validation.DescriptionMaxLength),
	})
	if len(details) > 0 {
		return apperrors.NewValidationError("Invalid course data", details)
	}

	if _, err := s.courseRepo.CreateCourse(ctx, course); err != nil {
		return err
	}
	return nil
}

// EnsureCourse creates the course unless one with the same code exists.
// It reports whether a row was inserted.
func (s *CourseService) EnsureCourse(ctx context.Context, course *models.Course) (bool, error) {
	err := s.CreateCourse(ctx, course)
	if errors.Is(err, apperrors.ErrDuplicateCourseCode) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error ensuring course %s: %w", course.Code, err)
	}
	return true, nil
}

// DeleteCourse removes a course and, by cascade, its enrollments.
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.ErrCourseNotFound
	}
	return s.courseRepo.DeleteCourse(ctx, id)
}
