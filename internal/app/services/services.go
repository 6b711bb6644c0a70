// Package services holds the business rules between controllers and
// repositories:
//   - StudentService: student CRUD and enrollment replacement
//   - CourseService: read access to the course catalogue plus seed helpers
//   - RosterService: spreadsheet export and import of the student roster
package services

import (
	"github.com/yigit/studentrecords/internal/app/repositories"
)

// Services bundles every service the HTTP layer needs.
type Services struct {
	StudentService *StudentService
	CourseService  *CourseService
	RosterService  *RosterService
}

// NewServices wires services on top of the given repositories.
func NewServices(repos *repositories.Repositories) *Services {
	return &Services{
		StudentService: NewStudentService(repos.StudentRepository, repos.CourseRepository),
		CourseService:  NewCourseService(repos.CourseRepository),
		RosterService:  NewRosterService(repos.StudentRepository, repos.CourseRepository),
	}
}
