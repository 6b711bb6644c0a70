package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pallinder/go-randomdata"
	"github.com/rs/zerolog"

	appModels "github.com/yigit/studentrecords/internal/app/models"
	appServices "github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

// DefaultCourses is the catalogue created on first start.
var DefaultCourses = []appModels.Course{
	{Code: "MATH101", Name: "Calculus I", Description: strPtr("Limits, derivatives and integrals of one variable")},
	{Code: "MATH201", Name: "Linear Algebra", Description: strPtr("Vector spaces, matrices and linear maps")},
	{Code: "PHYS101", Name: "Physics I", Description: strPtr("Mechanics and thermodynamics")},
	{Code: "CHEM101", Name: "General Chemistry"},
	{Code: "CS101", Name: "Introduction to Programming", Description: strPtr("Programming fundamentals")},
	{Code: "CS201", Name: "Data Structures", Description: strPtr("Lists, trees, graphs and hashing")},
	{Code: "ENG101", Name: "Academic English"},
	{Code: "HIST101", Name: "World History"},
}

// CreateDefaultData creates the default course catalogue. Courses whose
// code already exists are left untouched.
func CreateDefaultData(ctx context.Context, courseService *appServices.CourseService, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Courses)...")
	var finalErr error // To collect potential errors without stopping the process

	created := 0
	for _, c := range DefaultCourses {
		course := c
		inserted, err := courseService.EnsureCourse(ctx, &course)
		if err != nil {
			lgr.Error().Err(err).Str("code", course.Code).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if inserted {
			created++
		}
	}

	lgr.Info().Int("created", created).Msg("Default course check finished")
	return finalErr
}

// CreateDemoStudents inserts count random students, each enrolled in up to
// three random courses. Nothing is inserted when students already exist.
func CreateDemoStudents(ctx context.Context, studentService *appServices.StudentService, count int, lgr zerolog.Logger) error {
	if count <= 0 {
		return nil
	}

	existing, err := studentService.ListStudents(ctx)
	if err != nil {
		return fmt.Errorf("error checking existing students: %w", err)
	}
	if len(existing) > 0 {
		lgr.Info().Int("students", len(existing)).Msg("Students present, skipping demo data")
		return nil
	}

	courses, err := studentService.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("error listing courses for demo data: %w", err)
	}

	var finalErr error
	created := 0
	for i := 1; i <= count; i++ {
		input := appServices.StudentInput{
			RollNumber: fmt.Sprintf("D%04d", i),
			FirstName:  randomdata.FirstName(randomdata.RandomGender),
			LastName:   randomdata.LastName(),
			CourseIDs:  pickCourses(courses),
		}

		_, err := studentService.CreateStudent(ctx, input)
		if errors.Is(err, apperrors.ErrDuplicateRollNumber) {
			continue
		}
		if err != nil {
			lgr.Error().Err(err).Str("roll", input.RollNumber).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}

	lgr.Info().Int("created", created).Msg("Demo students created")
	return finalErr
}

func pickCourses(courses []*appModels.Course) []int64 {
	if len(courses) == 0 {
		return nil
	}

	n := randomdata.Number(0, min(3, len(courses))+1)
	seen := make(map[int64]bool, n)
	ids := make([]int64, 0, n)
	for len(ids) < n {
		course := courses[randomdata.Number(0, len(courses))]
		if seen[course.ID] {
			continue
		}
		seen[course.ID] = true
		ids = append(ids, course.ID)
	}
	return ids
}
