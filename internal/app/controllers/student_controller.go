package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// StudentController serves the student pages.
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// parseStudentID reads the :id path parameter. Anything that is not a
// positive integer cannot name a student.
func parseStudentID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrStudentNotFound
	}
	return id, nil
}

// ListStudents renders the student list.
// GET /
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"Title":    "Students",
		"Students": students,
	})
}

// CreateForm renders an empty creation form.
// GET /student/create
func (c *StudentController) CreateForm(ctx *gin.Context) {
	courses, err := c.studentService.ListCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "create_student.html", gin.H{
		"Title":   "Add Student",
		"Courses": courses,
	})
}

// CreateStudent stores a new student and its enrollments.
// POST /student/create
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleError(ctx, middleware.BindingError(err))
		return
	}

	student, err := c.studentService.CreateStudent(ctx.Request.Context(), services.StudentInput{
		RollNumber: req.RollNumber,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		CourseIDs:  req.CourseIDs,
	})
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	logger.Info().
		Int64("studentID", student.ID).
		Str("roll", student.RollNumber).
		Int("courses", len(req.CourseIDs)).
		Msg("Student created")
	ctx.Redirect(http.StatusFound, "/")
}

// UpdateForm renders the update form pre-filled with the student's names
// and current enrollments.
// GET /student/:id/update
func (c *StudentController) UpdateForm(ctx *gin.Context) {
	id, err := parseStudentID(ctx)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	form, err := c.studentService.GetStudentForm(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "update_student.html", gin.H{
		"Title":    "Update Student",
		"Student":  form.Student,
		"Courses":  form.Courses,
		"Enrolled": form.Enrolled,
	})
}

// UpdateStudent overwrites the names and replaces the enrollments.
// POST /student/:id/update
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, err := parseStudentID(ctx)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	// Unknown students are 404 whatever the form holds.
	if _, err := c.studentService.GetStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleError(ctx, middleware.BindingError(err))
		return
	}

	err = c.studentService.UpdateStudent(ctx.Request.Context(), id, services.StudentInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CourseIDs: req.CourseIDs,
	})
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	logger.Info().Int64("studentID", id).Int("courses", len(req.CourseIDs)).Msg("Student updated")
	ctx.Redirect(http.StatusFound, "/")
}

// DeleteStudent removes the student and its enrollments.
// GET /student/:id/delete
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, err := parseStudentID(ctx)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	logger.Info().Int64("studentID", id).Msg("Student deleted")
	ctx.Redirect(http.StatusFound, "/")
}

// StudentDetail renders the student with its enrolled courses. A numeric
// id that matches no student renders an empty detail page.
// GET /student/:id
func (c *StudentController) StudentDetail(ctx *gin.Context) {
	id, err := parseStudentID(ctx)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	detail, err := c.studentService.GetStudentDetail(ctx.Request.Context(), id)
	if errors.Is(err, apperrors.ErrStudentNotFound) {
		logger.Warn().Int64("studentID", id).Msg("Detail requested for unknown student")
		detail = &services.StudentDetail{Courses: []*models.Course{}}
	} else if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "student_detail.html", gin.H{
		"Title":   "Student Details",
		"Student": detail.Student,
		"Courses": detail.Courses,
	})
}
