// Package repositorytest holds behaviour checks shared by every storage
// backend. Backend packages call Run from their own tests.
package repositorytest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// StudentStore mirrors repositories.StudentRepository.
type StudentStore interface {
	ListStudents(ctx context.Context) ([]*models.Student, error)
	FindStudentByRollNumber(ctx context.Context, roll string) (*models.Student, error)
	CreateStudent(ctx context.Context, student *models.Student, courseIDs []int64) (int64, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student, courseIDs []int64) error
	DeleteStudent(ctx context.Context, id int64) error
	ListCoursesForStudent(ctx context.Context, id int64) ([]*models.Course, error)
	ListEnrolledCourseIDs(ctx context.Context, id int64) ([]int64, error)
}

// CourseStore mirrors repositories.CourseRepository.
type CourseStore interface {
	ListCourses(ctx context.Context) ([]*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// Factory returns repositories over an empty, migrated store.
type Factory func(t *testing.T) (StudentStore, CourseStore)

// catalogueSize is large enough that some course ids have two digits.
const catalogueSize = 12

type fixture struct {
	students StudentStore
	courses  CourseStore
	ids      []int64
}

func newFixture(t *testing.T, factory Factory) *fixture {
	t.Helper()
	students, courses := factory(t)
	f := &fixture{students: students, courses: courses}
	for i := 1; i <= catalogueSize; i++ {
		course := &models.Course{Code: fmt.Sprintf("C%03d", i), Name: fmt.Sprintf("Course %d", i)}
		id, err := courses.CreateCourse(context.Background(), course)
		if err != nil {
			t.Fatalf("CreateCourse(%s): %v", course.Code, err)
		}
		f.ids = append(f.ids, id)
	}
	return f
}

func (f *fixture) create(t *testing.T, roll, first, last string, courseIDs ...int64) int64 {
	t.Helper()
	id, err := f.students.CreateStudent(context.Background(), &models.Student{
		RollNumber: roll, FirstName: first, LastName: last,
	}, courseIDs)
	if err != nil {
		t.Fatalf("CreateStudent(%s): %v", roll, err)
	}
	return id
}

func (f *fixture) enrolled(t *testing.T, studentID int64) []int64 {
	t.Helper()
	ids, err := f.students.ListEnrolledCourseIDs(context.Background(), studentID)
	if err != nil {
		t.Fatalf("ListEnrolledCourseIDs(%d): %v", studentID, err)
	}
	return ids
}

func equalIDs(got, want []int64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// Run executes every shared check against the backend built by factory.
func Run(t *testing.T, factory Factory) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		f := newFixture(t, factory)
		id := f.create(t, "R1", "Ada", "Lovelace", f.ids[0], f.ids[1])

		student, err := f.students.GetStudent(ctx, id)
		if err != nil {
			t.Fatalf("GetStudent: %v", err)
		}
		if student.RollNumber != "R1" || student.FirstName != "Ada" || student.LastName != "Lovelace" {
			t.Errorf("unexpected student %+v", student)
		}

		courses, err := f.students.ListCoursesForStudent(ctx, id)
		if err != nil {
			t.Fatalf("ListCoursesForStudent: %v", err)
		}
		if len(courses) != 2 || courses[0].ID != f.ids[0] || courses[1].ID != f.ids[1] {
			t.Errorf("courses = %+v, want ids %v", courses, f.ids[:2])
		}
	})

	t.Run("DuplicateRollNumberLeavesStoreUnchanged", func(t *testing.T) {
		f := newFixture(t, factory)
		first := f.create(t, "S100", "Jane", "Doe", f.ids[0])

		_, err := f.students.CreateStudent(ctx, &models.Student{RollNumber: "S100", FirstName: "John", LastName: "Roe"}, []int64{f.ids[1]})
		if !errors.Is(err, apperrors.ErrDuplicateRollNumber) {
			t.Fatalf("err = %v, want ErrDuplicateRollNumber", err)
		}
		if msg := apperrors.UserMessage(err); msg != "Roll number already exists!" {
			t.Errorf("message = %q", msg)
		}

		students, err := f.students.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents: %v", err)
		}
		if len(students) != 1 || students[0].FullName() != "Jane Doe" {
			t.Errorf("students = %+v, want only Jane Doe", students)
		}
		if got := f.enrolled(t, first); !equalIDs(got, []int64{f.ids[0]}) {
			t.Errorf("enrollments = %v", got)
		}
	})

	t.Run("FindStudentByRollNumber", func(t *testing.T) {
		f := newFixture(t, factory)
		id := f.create(t, "R7", "Grace", "Hopper")

		found, err := f.students.FindStudentByRollNumber(ctx, "R7")
		if err != nil || found == nil || found.ID != id {
			t.Fatalf("FindStudentByRollNumber(R7) = %+v, %v", found, err)
		}
		missing, err := f.students.FindStudentByRollNumber(ctx, "nope")
		if err != nil || missing != nil {
			t.Errorf("FindStudentByRollNumber(nope) = %+v, %v; want nil, nil", missing, err)
		}
	})

	t.Run("ListStudentsInInsertionOrder", func(t *testing.T) {
		f := newFixture(t, factory)
		f.create(t, "B", "Second", "")
		f.create(t, "A", "First", "")

		students, err := f.students.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents: %v", err)
		}
		if len(students) != 2 || students[0].RollNumber != "B" || students[1].RollNumber != "A" {
			t.Errorf("students out of order: %+v", students)
		}
	})

	t.Run("EmptyCourseSelection", func(t *testing.T) {
		f := newFixture(t, factory)
		id := f.create(t, "R2", "Alan", "Turing")

		if got := f.enrolled(t, id); len(got) != 0 {
			t.Errorf("enrollments = %v, want none", got)
		}
		courses, err := f.students.ListCoursesForStudent(ctx, id)
		if err != nil || len(courses) != 0 {
			t.Errorf("ListCoursesForStudent = %v, %v; want empty", courses, err)
		}
	})

	t.Run("DuplicateEnrollmentsKept", func(t *testing.T) {
		f := newFixture(t, factory)
		id := f.create(t, "R3", "Edsger", "Dijkstra", f.ids[0], f.ids[0])

		if got := f.enrolled(t, id); !equalIDs(got, []int64{f.ids[0], f.ids[0]}) {
			t.Errorf("enrollments = %v", got)
		}
	})

	t.Run("UpdateReplacesEnrollments", func(t *testing.T) {
		f := newFixture(t, factory)
		id := f.create(t, "R4", "Barbara", "Liskov", f.ids[0], f.ids[1])

		err := f.students.UpdateStudent(ctx, &models.Student{ID: id, FirstName: "Barb", LastName: ""}, []int64{f.ids[2]})
		if err != nil {
			t.Fatalf("UpdateStudent: %v", err)
		}

		student, err := f.students.GetStudent(ctx, id)
		if err != nil {
			t.Fatalf("GetStudent: %v", err)
		}
		if student.RollNumber != "R4" || student.FirstName != "Barb" || student.LastName != "" {
			t.Errorf("student after update = %+v", student)
		}
		if got := f.enrolled(t, id); !equalIDs(got, []int64{f.ids[2]}) {
			t.Errorf("enrollments = %v, want [%d]", got, f.ids[2])
		}
	})

	t.Run("UpdateMissingStudent", func(t *testing.T) {
		f := newFixture(t, factory)
		err := f.students.UpdateStudent(ctx, &models.Student{ID: 424242, FirstName: "X"}, nil)
		if !errors.Is(err, apperrors.ErrStudentNotFound) {
			t.Errorf("err = %v, want ErrStudentNotFound", err)
		}
	})

	t.Run("UnknownCourseRollsBackCreate", func(t *testing.T) {
		f := newFixture(t, factory)
		_, err := f.students.CreateStudent(ctx, &models.Student{RollNumber: "R5", FirstName: "Ken"}, []int64{f.ids[0], 999999})
		if !errors.Is(err, apperrors.ErrConstraintViolation) {
			t.Fatalf("err = %v, want ErrConstraintViolation", err)
		}
		found, err := f.students.FindStudentByRollNumber(ctx, "R5")
		if err != nil || found != nil {
			t.Errorf("student row survived rollback: %+v, %v", found, err)
		}
	})

	t.Run("UnknownCourseRollsBackUpdate", func(t *testing.T) {
		f := newFixture(t, factory)
		id := f.create(t, "R6", "Dennis", "Ritchie", f.ids[0])

		err := f.students.UpdateStudent(ctx, &models.Student{ID: id, FirstName: "Changed", LastName: "Changed"}, []int64{999999})
		if !errors.Is(err, apperrors.ErrConstraintViolation) {
			t.Fatalf("err = %v, want ErrConstraintViolation", err)
		}

		student, err := f.students.GetStudent(ctx, id)
		if err != nil {
			t.Fatalf("GetStudent: %v", err)
		}
		if student.FullName() != "Dennis Ritchie" {
			t.Errorf("names changed despite rollback: %+v", student)
		}
		if got := f.enrolled(t, id); !equalIDs(got, []int64{f.ids[0]}) {
			t.Errorf("enrollments = %v, want [%d]", got, f.ids[0])
		}
	})

	t.Run("DeleteCascadesEnrollments", func(t *testing.T) {
		f := newFixture(t, factory)
		id := f.create(t, "R8", "Linus", "Torvalds", f.ids[0], f.ids[1])

		if err := f.students.DeleteStudent(ctx, id); err != nil {
			t.Fatalf("DeleteStudent: %v", err)
		}
		if _, err := f.students.GetStudent(ctx, id); !errors.Is(err, apperrors.ErrStudentNotFound) {
			t.Errorf("GetStudent after delete: err = %v", err)
		}
		if got := f.enrolled(t, id); len(got) != 0 {
			t.Errorf("orphaned enrollments: %v", got)
		}
		if err := f.students.DeleteStudent(ctx, id); !errors.Is(err, apperrors.ErrStudentNotFound) {
			t.Errorf("second delete: err = %v, want ErrStudentNotFound", err)
		}
	})

	t.Run("CourseDeleteCascadesEnrollments", func(t *testing.T) {
		f := newFixture(t, factory)
		id := f.create(t, "R9", "Margaret", "Hamilton", f.ids[0], f.ids[1])

		if err := f.courses.DeleteCourse(ctx, f.ids[0]); err != nil {
			t.Fatalf("DeleteCourse: %v", err)
		}
		if got := f.enrolled(t, id); !equalIDs(got, []int64{f.ids[1]}) {
			t.Errorf("enrollments = %v, want [%d]", got, f.ids[1])
		}
		if err := f.courses.DeleteCourse(ctx, f.ids[0]); !errors.Is(err, apperrors.ErrCourseNotFound) {
			t.Errorf("second delete: err = %v, want ErrCourseNotFound", err)
		}
	})

	t.Run("MultiDigitCourseID", func(t *testing.T) {
		f := newFixture(t, factory)
		last := f.ids[len(f.ids)-1]
		id := f.create(t, "R10", "John", "Backus", last)

		courses, err := f.students.ListCoursesForStudent(ctx, id)
		if err != nil {
			t.Fatalf("ListCoursesForStudent: %v", err)
		}
		if len(courses) != 1 || courses[0].ID != last || courses[0].Code != fmt.Sprintf("C%03d", catalogueSize) {
			t.Errorf("courses = %+v, want only course %d", courses, last)
		}
	})

	t.Run("Courses", func(t *testing.T) {
		f := newFixture(t, factory)

		all, err := f.courses.ListCourses(ctx)
		if err != nil {
			t.Fatalf("ListCourses: %v", err)
		}
		if len(all) != catalogueSize || all[0].Code != "C001" {
			t.Errorf("ListCourses returned %d courses, first %+v", len(all), all[0])
		}

		_, err = f.courses.CreateCourse(ctx, &models.Course{Code: "C001", Name: "Again"})
		if !errors.Is(err, apperrors.ErrDuplicateCourseCode) {
			t.Errorf("duplicate code: err = %v", err)
		}

		description := "Intro"
		id, err := f.courses.CreateCourse(ctx, &models.Course{Code: "NEW", Name: "New", Description: &description})
		if err != nil {
			t.Fatalf("CreateCourse: %v", err)
		}
		course, err := f.courses.GetCourse(ctx, id)
		if err != nil {
			t.Fatalf("GetCourse: %v", err)
		}
		if course.Description == nil || *course.Description != "Intro" {
			t.Errorf("description = %v", course.Description)
		}

		if _, err := f.courses.GetCourse(ctx, 999999); !errors.Is(err, apperrors.ErrCourseNotFound) {
			t.Errorf("GetCourse(missing): err = %v", err)
		}
	})
}
