package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	rosterFileName  = "students.xlsx"
)

// RosterController serves spreadsheet export and import of the roster.
type RosterController struct {
	rosterService *services.RosterService
}

// NewRosterController creates a new RosterController
func NewRosterController(rosterService *services.RosterService) *RosterController {
	return &RosterController{rosterService: rosterService}
}

// ExportRoster downloads every student as an xlsx workbook.
// GET /students/export
func (c *RosterController) ExportRoster(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := c.rosterService.ExportRoster(ctx.Request.Context(), &buf); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+rosterFileName+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportForm renders the upload form.
// GET /students/import
func (c *RosterController) ImportForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "import_students.html", gin.H{
		"Title": "Import Students",
	})
}

// ImportRoster creates students from an uploaded workbook and renders the
// per-row result.
// POST /students/import
func (c *RosterController) ImportRoster(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleError(ctx, apperrors.NewValidationError("Please choose an .xlsx file to upload.", map[string]interface{}{
			"file": "File is required",
		}))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	defer file.Close()

	report, err := c.rosterService.ImportRoster(ctx.Request.Context(), file)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "import_students.html", gin.H{
		"Title":  "Import Students",
		"Report": report,
	})
}
