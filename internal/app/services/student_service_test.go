package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

func TestCreateStudent_Validation(t *testing.T) {
	svc := newTestServices(t).StudentService
	ctx := context.Background()

	tests := []struct {
		name  string
		input StudentInput
		field string
	}{
		{name: "missing roll", input: StudentInput{FirstName: "Jane"}, field: "roll"},
		{name: "blank roll", input: StudentInput{RollNumber: "   ", FirstName: "Jane"}, field: "roll"},
		{name: "missing first name", input: StudentInput{RollNumber: "S1"}, field: "f_name"},
		{name: "roll too long", input: StudentInput{RollNumber: strings.Repeat("9", 51), FirstName: "Jane"}, field: "roll"},
		{name: "last name too long", input: StudentInput{RollNumber: "S1", FirstName: "Jane", LastName: strings.Repeat("x", 101)}, field: "l_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateStudent(ctx, tt.input)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("err = %v, want ErrValidationFailed", err)
			}
			var ce *apperrors.CustomError
			if !errors.As(err, &ce) || ce.Details[tt.field] == nil {
				t.Errorf("expected a message for field %q, got %+v", tt.field, ce)
			}
		})
	}

	students, err := svc.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 0 {
		t.Errorf("invalid input was stored: %+v", students)
	}
}

func TestCreateStudent_TrimsAndDetectsDuplicates(t *testing.T) {
	svc := newTestServices(t).StudentService
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, StudentInput{RollNumber: " S100 ", FirstName: " Jane ", LastName: "Doe", CourseIDs: []int64{1, 2}})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if student.ID == 0 || student.RollNumber != "S100" || student.FirstName != "Jane" {
		t.Errorf("student = %+v", student)
	}

	_, err = svc.CreateStudent(ctx, StudentInput{RollNumber: "S100", FirstName: "John", LastName: "Roe"})
	if !errors.Is(err, apperrors.ErrDuplicateRollNumber) {
		t.Fatalf("err = %v, want ErrDuplicateRollNumber", err)
	}

	detail, err := svc.GetStudentDetail(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetStudentDetail: %v", err)
	}
	if detail.Student.FullName() != "Jane Doe" || len(detail.Courses) != 2 {
		t.Errorf("detail = %+v / %d courses", detail.Student, len(detail.Courses))
	}
}

func TestGetStudentForm(t *testing.T) {
	svc := newTestServices(t).StudentService
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, StudentInput{RollNumber: "F1", FirstName: "Form", CourseIDs: []int64{2}})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	form, err := svc.GetStudentForm(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetStudentForm: %v", err)
	}
	if len(form.Courses) != 3 {
		t.Errorf("catalogue has %d courses, want 3", len(form.Courses))
	}
	if !form.Enrolled[2] || form.Enrolled[1] || form.Enrolled[3] {
		t.Errorf("enrolled = %v, want only course 2", form.Enrolled)
	}
}

func TestUpdateStudent(t *testing.T) {
	svc := newTestServices(t).StudentService
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, StudentInput{RollNumber: "U1", FirstName: "Old", LastName: "Name", CourseIDs: []int64{1, 2}})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	err = svc.UpdateStudent(ctx, student.ID, StudentInput{RollNumber: "IGNORED", FirstName: "New", CourseIDs: []int64{3}})
	if err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}

	detail, err := svc.GetStudentDetail(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetStudentDetail: %v", err)
	}
	if detail.Student.RollNumber != "U1" || detail.Student.FirstName != "New" || detail.Student.LastName != "" {
		t.Errorf("student = %+v", detail.Student)
	}
	if len(detail.Courses) != 1 || detail.Courses[0].Code != "CS101" {
		t.Errorf("courses = %+v, want CS101 only", detail.Courses)
	}

	if err := svc.UpdateStudent(ctx, student.ID, StudentInput{FirstName: ""}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("blank first name: err = %v", err)
	}
	if err := svc.UpdateStudent(ctx, 9999, StudentInput{FirstName: "Ghost"}); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("missing student: err = %v", err)
	}
}

func TestNonPositiveIDsAreNotFound(t *testing.T) {
	svc := newTestServices(t).StudentService
	ctx := context.Background()

	for _, id := range []int64{0, -1} {
		if _, err := svc.GetStudent(ctx, id); !errors.Is(err, apperrors.ErrStudentNotFound) {
			t.Errorf("GetStudent(%d): err = %v", id, err)
		}
		if err := svc.DeleteStudent(ctx, id); !errors.Is(err, apperrors.ErrStudentNotFound) {
			t.Errorf("DeleteStudent(%d): err = %v", id, err)
		}
		if _, err := svc.GetStudentDetail(ctx, id); !errors.Is(err, apperrors.ErrResourceNotFound) {
			t.Errorf("GetStudentDetail(%d): err = %v", id, err)
		}
	}
}

func TestDeleteStudent(t *testing.T) {
	svc := newTestServices(t).StudentService
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, StudentInput{RollNumber: "D1", FirstName: "Gone", CourseIDs: []int64{1}})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if err := svc.DeleteStudent(ctx, student.ID); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if _, err := svc.GetStudentDetail(ctx, student.ID); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("detail after delete: err = %v", err)
	}
}
