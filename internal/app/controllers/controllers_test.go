package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/bootstrap"
	"github.com/yigit/studentrecords/internal/config"
)

type testApp struct {
	router *gin.Engine
	deps   *bootstrap.Dependencies
}

// newTestApp builds the full router over a fresh sqlite store holding the
// courses MATH101, PHYS101 and CS101.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "web.db")

	database, repos, err := bootstrap.SetupDatabase(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("SetupDatabase: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	deps := bootstrap.BuildDependencies(database, repos, zerolog.Nop())
	for _, c := range []models.Course{
		{Code: "MATH101", Name: "Calculus I"},
		{Code: "PHYS101", Name: "Physics I"},
		{Code: "CS101", Name: "Intro to Programming"},
	} {
		course := c
		if err := deps.Services.CourseService.CreateCourse(context.Background(), &course); err != nil {
			t.Fatalf("CreateCourse: %v", err)
		}
	}

	router, err := bootstrap.SetupRouter(cfg, deps, zerolog.Nop())
	if err != nil {
		t.Fatalf("SetupRouter: %v", err)
	}
	return &testApp{router: router, deps: deps}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) studentByRoll(t *testing.T, roll string) *models.Student {
	t.Helper()
	student, err := a.deps.Repos.StudentRepository.FindStudentByRollNumber(context.Background(), roll)
	if err != nil {
		t.Fatalf("FindStudentByRollNumber: %v", err)
	}
	return student
}

func (a *testApp) createStudent(t *testing.T, roll, first, last string, courses ...string) *models.Student {
	t.Helper()
	form := url.Values{"roll": {roll}, "f_name": {first}, "l_name": {last}, "courses": courses}
	w := a.postForm("/student/create", form)
	if w.Code != http.StatusFound {
		t.Fatalf("create %s: status %d, body %s", roll, w.Code, w.Body.String())
	}
	student := a.studentByRoll(t, roll)
	if student == nil {
		t.Fatalf("student %s not stored", roll)
	}
	return student
}

func idPath(format string, id int64) string {
	return strings.Replace(format, "{id}", strconv.FormatInt(id, 10), 1)
}

func TestListStudents(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "No students yet.") {
		t.Fatalf("empty list: status %d body %s", w.Code, w.Body.String())
	}

	app.createStudent(t, "S100", "Jane", "Doe")
	w = app.get("/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "S100") {
		t.Errorf("list after create: status %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestCreateForm(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/student/create")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	for _, want := range []string{`name="roll"`, "MATH101", "PHYS101", "CS101"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("create form missing %q", want)
		}
	}
}

func TestCreateStudent(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/student/create", url.Values{
		"roll": {"S100"}, "f_name": {"Jane"}, "l_name": {"Doe"}, "courses": {"1", "2"},
	})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("status %d location %q", w.Code, w.Header().Get("Location"))
	}

	student := app.studentByRoll(t, "S100")
	if student == nil || student.FullName() != "Jane Doe" {
		t.Fatalf("stored student = %+v", student)
	}
	ids, err := app.deps.Repos.StudentRepository.ListEnrolledCourseIDs(context.Background(), student.ID)
	if err != nil || len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("enrolled = %v, %v; want [1 2]", ids, err)
	}
}

func TestCreateStudent_DuplicateRollNumber(t *testing.T) {
	app := newTestApp(t)
	app.createStudent(t, "S100", "Jane", "Doe", "1")

	w := app.postForm("/student/create", url.Values{"roll": {"S100"}, "f_name": {"John"}, "l_name": {"Roe"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Roll number already exists!") {
		t.Errorf("body missing duplicate message: %s", w.Body.String())
	}

	students, err := app.deps.Repos.StudentRepository.ListStudents(context.Background())
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 1 || students[0].FullName() != "Jane Doe" {
		t.Errorf("store changed: %+v", students)
	}
}

func TestCreateStudent_BadInput(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		form   url.Values
		status int
	}{
		{name: "missing roll", form: url.Values{"f_name": {"Jane"}}, status: http.StatusBadRequest},
		{name: "missing first name", form: url.Values{"roll": {"S1"}}, status: http.StatusBadRequest},
		{name: "blank roll", form: url.Values{"roll": {"   "}, "f_name": {"Jane"}}, status: http.StatusBadRequest},
		{name: "non numeric course", form: url.Values{"roll": {"S1"}, "f_name": {"Jane"}, "courses": {"abc"}}, status: http.StatusBadRequest},
		{name: "unknown course", form: url.Values{"roll": {"S2"}, "f_name": {"Jane"}, "courses": {"999"}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.postForm("/student/create", tt.form)
			if w.Code != tt.status {
				t.Errorf("status %d, want %d", w.Code, tt.status)
			}
		})
	}

	students, err := app.deps.Repos.StudentRepository.ListStudents(context.Background())
	if err != nil || len(students) != 0 {
		t.Errorf("students = %v, %v; want none stored", students, err)
	}
}

func TestStudentDetail(t *testing.T) {
	app := newTestApp(t)
	student := app.createStudent(t, "S100", "Jane", "Doe", "1", "3")

	w := app.get(idPath("/student/{id}", student.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Jane", "Doe", "MATH101", "CS101"} {
		if !strings.Contains(body, want) {
			t.Errorf("detail missing %q", want)
		}
	}
	if strings.Contains(body, "PHYS101") {
		t.Error("detail lists a course the student is not enrolled in")
	}

	w = app.get("/student/999")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Not enrolled in any course.") {
		t.Errorf("unknown id: status %d", w.Code)
	}

	for _, path := range []string{"/student/abc", "/student/0", "/student/-4"} {
		if w := app.get(path); w.Code != http.StatusNotFound {
			t.Errorf("GET %s: status %d, want 404", path, w.Code)
		}
	}
}

func TestUpdateStudent(t *testing.T) {
	app := newTestApp(t)
	student := app.createStudent(t, "S100", "Jane", "Doe", "1", "2")

	w := app.get(idPath("/student/{id}/update", student.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("update form status %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `value="Jane"`) || strings.Count(body, " checked") != 2 {
		t.Errorf("update form not pre-filled: %s", body)
	}

	w = app.postForm(idPath("/student/{id}/update", student.ID), url.Values{
		"f_name": {"Janet"}, "l_name": {"Smith"}, "courses": {"3"},
	})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("update status %d", w.Code)
	}

	updated := app.studentByRoll(t, "S100")
	if updated.FullName() != "Janet Smith" {
		t.Errorf("names = %q", updated.FullName())
	}
	ids, err := app.deps.Repos.StudentRepository.ListEnrolledCourseIDs(context.Background(), student.ID)
	if err != nil || len(ids) != 1 || ids[0] != 3 {
		t.Errorf("enrolled = %v, %v; want [3]", ids, err)
	}

	w = app.postForm(idPath("/student/{id}/update", student.ID), url.Values{"f_name": {"Janet"}})
	if w.Code != http.StatusFound {
		t.Fatalf("update without courses: status %d", w.Code)
	}
	ids, _ = app.deps.Repos.StudentRepository.ListEnrolledCourseIDs(context.Background(), student.ID)
	if len(ids) != 0 {
		t.Errorf("enrolled = %v, want none", ids)
	}
}

func TestUpdateStudent_NotFound(t *testing.T) {
	app := newTestApp(t)

	if w := app.get("/student/42/update"); w.Code != http.StatusNotFound {
		t.Errorf("GET update: status %d, want 404", w.Code)
	}
	if w := app.postForm("/student/42/update", url.Values{"f_name": {"X"}}); w.Code != http.StatusNotFound {
		t.Errorf("POST update: status %d, want 404", w.Code)
	}
	if w := app.postForm("/student/abc/update", url.Values{"f_name": {"X"}}); w.Code != http.StatusNotFound {
		t.Errorf("POST update non numeric: status %d, want 404", w.Code)
	}
	if w := app.postForm("/student/42/update", url.Values{}); w.Code != http.StatusNotFound {
		t.Errorf("POST update with empty form: status %d, want 404", w.Code)
	}
	if w := app.postForm("/student/42/update", url.Values{"f_name": {"X"}, "courses": {"abc"}}); w.Code != http.StatusNotFound {
		t.Errorf("POST update with bad courses: status %d, want 404", w.Code)
	}
}

func TestDeleteStudent(t *testing.T) {
	app := newTestApp(t)
	student := app.createStudent(t, "S100", "Jane", "Doe", "1")

	w := app.get(idPath("/student/{id}/delete", student.ID))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("delete status %d", w.Code)
	}
	if app.studentByRoll(t, "S100") != nil {
		t.Error("student still stored")
	}

	if w := app.get(idPath("/student/{id}/delete", student.ID)); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", w.Code)
	}
}

func TestExportRoster(t *testing.T) {
	app := newTestApp(t)
	app.createStudent(t, "S100", "Jane", "Doe", "1", "2")

	w := app.get("/students/export")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "students.xlsx") {
		t.Errorf("Content-Disposition = %q", w.Header().Get("Content-Disposition"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "S100" || rows[1][3] != "MATH101, PHYS101" {
		t.Errorf("rows = %v", rows)
	}
}

func TestImportRoster(t *testing.T) {
	app := newTestApp(t)

	if w := app.get("/students/import"); w.Code != http.StatusOK {
		t.Fatalf("import form status %d", w.Code)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"Roll Number", "First Name", "Last Name", "Courses"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"R1", "Ada", "Lovelace", "CS101"})
	_ = f.SetSheetRow(sheet, "A3", &[]interface{}{"R2", "Bad", "Course", "XX999"})
	var workbook bytes.Buffer
	if err := f.Write(&workbook); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_ = f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "roster.xlsx")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(workbook.Bytes()); err != nil {
		t.Fatalf("write part: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/students/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := app.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Imported 1 student(s), skipped 1.") {
		t.Errorf("unexpected result page: %s", w.Body.String())
	}
	if app.studentByRoll(t, "R1") == nil {
		t.Error("R1 was not imported")
	}

	if w := app.postForm("/students/import", url.Values{}); w.Code != http.StatusBadRequest {
		t.Errorf("missing file: status %d, want 400", w.Code)
	}
}

func TestHealthAndNoRoute(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/health")
	if w.Code != http.StatusOK {
		t.Fatalf("health status %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp["status"] != "ok" {
		t.Errorf("health body = %s", w.Body.String())
	}

	if w := app.get("/does/not/exist"); w.Code != http.StatusNotFound {
		t.Errorf("unknown path: status %d, want 404", w.Code)
	}
}
