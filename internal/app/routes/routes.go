package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/studentrecords/internal/app/controllers"
	"github.com/yigit/studentrecords/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	rosterController *controllers.RosterController,
	healthController *controllers.HealthController,
) {
	router.GET("/", studentController.ListStudents)

	// --- Student pages ---
	student := router.Group("/student")
	{
		student.GET("/create", studentController.CreateForm)
		student.POST("/create", studentController.CreateStudent)
		student.GET("/:id", studentController.StudentDetail)
		student.GET("/:id/update", studentController.UpdateForm)
		student.POST("/:id/update", studentController.UpdateStudent)
		student.GET("/:id/delete", studentController.DeleteStudent)
	}

	// --- Roster spreadsheet ---
	students := router.Group("/students")
	{
		students.GET("/export", rosterController.ExportRoster)
		students.GET("/import", rosterController.ImportForm)
		students.POST("/import", rosterController.ImportRoster)
	}

	router.GET("/health", healthController.Health)

	router.NoRoute(middleware.NoRoute)
}
