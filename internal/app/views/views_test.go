package views

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yigit/studentrecords/internal/app/models"
)

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}

	description := "Limits and derivatives"
	student := &models.Student{ID: 7, RollNumber: "S100", FirstName: "Jane", LastName: "Doe"}
	courses := []*models.Course{
		{ID: 1, Code: "MATH101", Name: "Calculus I", Description: &description},
		{ID: 12, Code: "CS101", Name: "Intro to Programming"},
	}

	tests := []struct {
		page string
		data map[string]interface{}
		want []string
	}{
		{
			page: "index.html",
			data: map[string]interface{}{"Title": "Students", "Students": []*models.Student{student}},
			want: []string{`href="/student/7"`, "S100", `href="/student/7/update"`, `href="/student/7/delete"`},
		},
		{
			page: "create_student.html",
			data: map[string]interface{}{"Title": "Add Student", "Courses": courses},
			want: []string{`name="roll"`, `name="f_name"`, `name="l_name"`, `value="12"`},
		},
		{
			page: "update_student.html",
			data: map[string]interface{}{"Title": "Update Student", "Student": student, "Courses": courses, "Enrolled": map[int64]bool{12: true}},
			want: []string{`action="/student/7/update"`, `value="Jane"`, `value="12" checked`},
		},
		{
			page: "student_detail.html",
			data: map[string]interface{}{"Title": "Student", "Student": student, "Courses": courses},
			want: []string{"Jane", "MATH101", "Limits and derivatives", "CS101"},
		},
		{
			page: "student_detail.html",
			data: map[string]interface{}{"Title": "Student", "Student": (*models.Student)(nil), "Courses": []*models.Course{}},
			want: []string{"Not enrolled in any course."},
		},
		{
			page: "error.html",
			data: map[string]interface{}{"Title": "OK", "Message": "Roll number already exists!"},
			want: []string{"Roll number already exists!"},
		},
		{
			page: "import_students.html",
			data: map[string]interface{}{"Title": "Import"},
			want: []string{`enctype="multipart/form-data"`, `name="file"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tmpl.ExecuteTemplate(&buf, tt.page, tt.data); err != nil {
				t.Fatalf("ExecuteTemplate: %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("%s output missing %q", tt.page, want)
				}
			}
		})
	}
}

func TestUpdateFormOnlyChecksEnrolledCourses(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "update_student.html", map[string]interface{}{
		"Title":    "Update Student",
		"Student":  &models.Student{ID: 1, RollNumber: "R1", FirstName: "A"},
		"Courses":  []*models.Course{{ID: 1, Code: "A1"}, {ID: 2, Code: "B2"}},
		"Enrolled": map[int64]bool{2: true},
	})
	if err != nil {
		t.Fatalf("ExecuteTemplate: %v", err)
	}
	if got := strings.Count(buf.String(), " checked"); got != 1 {
		t.Errorf("found %d checked boxes, want 1", got)
	}
}
