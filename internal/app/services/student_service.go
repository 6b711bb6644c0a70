package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// StudentInput is the data submitted by the create and update forms.
// RollNumber is ignored on update.
type StudentInput struct {
	RollNumber string
	FirstName  string
	LastName   string
	CourseIDs  []int64
}

// StudentDetail is a student together with the courses it is enrolled in.
type StudentDetail struct {
	Student *models.Student
	Courses []*models.Course
}

// StudentForm carries what the update form needs to pre-fill itself.
type StudentForm struct {
	Student  *models.Student
	Courses  []*models.Course
	Enrolled map[int64]bool
}

// StudentService handles student-related operations
type StudentService struct {
	studentRepo repositories.StudentRepository
	courseRepo  repositories.CourseRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo repositories.StudentRepository, courseRepo repositories.CourseRepository) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
	}
}

// normalizeInput trims every field. Roll numbers included: " S100 " and
// "S100" name the same student.
func normalizeInput(input StudentInput) StudentInput {
	input.RollNumber = strings.TrimSpace(input.RollNumber)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	return input
}

// validateStudent checks required fields and column lengths.
func validateStudent(input StudentInput, requireRoll bool) error {
	fields := map[string]*validation.StringValidation{
		"f_name": validation.NewStringValidation("First name", input.FirstName).
			WithMaxLength(validation.NameMaxLength),
		"l_name": validation.NewStringValidation("Last name", input.LastName).
			WithRequired(false).
			WithMaxLength(validation.NameMaxLength),
	}
	if requireRoll {
		fields["roll"] = validation.NewStringValidation("Roll number", input.RollNumber).
			WithMaxLength(validation.RollNumberMaxLength)
	}

	if details := validation.Collect(fields); len(details) > 0 {
		return apperrors.NewValidationError("Invalid student data", details)
	}
	return nil
}

// ListStudents returns all students.
func (s *StudentService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.studentRepo.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}

// ListCourses returns the catalogue shown as checkboxes on the forms.
func (s *StudentService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courseRepo.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

// CreateStudent validates the input and stores the student with its
// enrollments. A taken roll number yields apperrors.ErrDuplicateRollNumber.
func (s *StudentService) CreateStudent(ctx context.Context, input StudentInput) (*models.Student, error) {
	input = normalizeInput(input)
	if err := validateStudent(input, true); err != nil {
		return nil, err
	}

	student := &models.Student{
		RollNumber: input.RollNumber,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
	}
	if _, err := s.studentRepo.CreateStudent(ctx, student, input.CourseIDs); err != nil {
		return nil, err
	}
	return student, nil
}

// GetStudent retrieves a student by ID
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	if id <= 0 {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.studentRepo.GetStudent(ctx, id)
}

// GetStudentForm loads the student, the catalogue and the current enrollments.
func (s *StudentService) GetStudentForm(ctx context.Context, id int64) (*StudentForm, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	courseIDs, err := s.studentRepo.ListEnrolledCourseIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading enrollments: %w", err)
	}
	courses, err := s.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	enrolled := make(map[int64]bool, len(courseIDs))
	for _, courseID := range courseIDs {
		enrolled[courseID] = true
	}

	return &StudentForm{
		Student:  student,
		Courses:  courses,
		Enrolled: enrolled,
	}, nil
}

// UpdateStudent overwrites the names of student id and replaces its
// enrollments with input.CourseIDs.
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, input StudentInput) error {
	if id <= 0 {
		return apperrors.ErrStudentNotFound
	}

	input = normalizeInput(input)
	if err := validateStudent(input, false); err != nil {
		return err
	}

	return s.studentRepo.UpdateStudent(ctx, &models.Student{
		ID:        id,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}, input.CourseIDs)
}

// DeleteStudent removes a student and, by cascade, its enrollments.
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.ErrStudentNotFound
	}
	return s.studentRepo.DeleteStudent(ctx, id)
}

// GetStudentDetail returns the student and its enrolled courses.
func (s *StudentService) GetStudentDetail(ctx context.Context, id int64) (*StudentDetail, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	courses, err := s.studentRepo.ListCoursesForStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading courses for student: %w", err)
	}

	return &StudentDetail{Student: student, Courses: courses}, nil
}
