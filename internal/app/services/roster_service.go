package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// RosterSheetName is the sheet written by ExportRoster.
const RosterSheetName = "Students"

// RosterHeader is the first row of an exported roster; imports expect the
// same column order.
var RosterHeader = []string{"Roll Number", "First Name", "Last Name", "Courses"}

// ErrEmptyWorkbook is returned when an uploaded workbook has no sheets.
var ErrEmptyWorkbook = apperrors.NewValidationError("The uploaded workbook has no sheets", nil)

// SkippedRow describes a spreadsheet row that was not imported.
type SkippedRow struct {
	Row        int
	RollNumber string
	Reason     string
}

// ImportReport summarises an ImportRoster run.
type ImportReport struct {
	Imported int
	Skipped  []SkippedRow
}

// RosterService moves the student roster in and out of xlsx workbooks.
type RosterService struct {
	students    *StudentService
	studentRepo repositories.StudentRepository
	courseRepo  repositories.CourseRepository
}

// NewRosterService creates a new roster service instance
func NewRosterService(studentRepo repositories.StudentRepository, courseRepo repositories.CourseRepository) *RosterService {
	return &RosterService{
		students:    NewStudentService(studentRepo, courseRepo),
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
	}
}

// ExportRoster writes every student with its course codes as an xlsx
// workbook to w.
func (s *RosterService) ExportRoster(ctx context.Context, w io.Writer) error {
	students, err := s.studentRepo.ListStudents(ctx)
	if err != nil {
		return fmt.Errorf("error listing students: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing roster workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), RosterSheetName); err != nil {
		return fmt.Errorf("error naming roster sheet: %w", err)
	}

	for i, header := range RosterHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(RosterSheetName, cell, header); err != nil {
			return fmt.Errorf("error writing roster header: %w", err)
		}
	}

	for i, student := range students {
		courses, err := s.studentRepo.ListCoursesForStudent(ctx, student.ID)
		if err != nil {
			return fmt.Errorf("error loading courses for student %d: %w", student.ID, err)
		}
		codes := make([]string, 0, len(courses))
		for _, course := range courses {
			codes = append(codes, course.Code)
		}

		row := i + 2
		values := []string{student.RollNumber, student.FirstName, student.LastName, strings.Join(codes, ", ")}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellStr(RosterSheetName, cell, value); err != nil {
				return fmt.Errorf("error writing roster row %d: %w", row, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing roster workbook: %w", err)
	}
	return nil
}

// ImportRoster creates one student per data row of the first sheet in r.
// The first row is a header. Rows that cannot be imported are skipped and
// listed in the report; storage failures abort the import.
func (s *RosterService) ImportRoster(ctx context.Context, r io.Reader) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewValidationError("The uploaded file is not a valid xlsx workbook", map[string]interface{}{
			"file": err.Error(),
		})
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing uploaded workbook")
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	courses, err := s.courseRepo.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	byCode := make(map[string]int64, len(courses))
	for _, course := range courses {
		byCode[strings.ToUpper(course.Code)] = course.ID
	}

	report := &ImportReport{Skipped: []SkippedRow{}}
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}
		rowNumber := i + 1

		input := StudentInput{
			RollNumber: cellAt(row, 0),
			FirstName:  cellAt(row, 1),
			LastName:   cellAt(row, 2),
		}

		courseIDs, unknown := resolveCourseCodes(cellAt(row, 3), byCode)
		if len(unknown) > 0 {
			report.Skipped = append(report.Skipped, SkippedRow{
				Row:        rowNumber,
				RollNumber: input.RollNumber,
				Reason:     "Unknown course code(s): " + strings.Join(unknown, ", "),
			})
			continue
		}
		input.CourseIDs = courseIDs

		_, err := s.students.CreateStudent(ctx, input)
		switch {
		case err == nil:
			report.Imported++
		case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrDuplicateRollNumber):
			report.Skipped = append(report.Skipped, SkippedRow{
				Row:        rowNumber,
				RollNumber: input.RollNumber,
				Reason:     skipReason(err),
			})
		default:
			return report, fmt.Errorf("error importing row %d: %w", rowNumber, err)
		}
	}

	logger.Info().
		Int("imported", report.Imported).
		Int("skipped", len(report.Skipped)).
		Msg("Roster import finished")
	return report, nil
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// resolveCourseCodes maps a comma-separated list of course codes to ids.
// Codes missing from the catalogue are returned separately.
func resolveCourseCodes(cell string, byCode map[string]int64) ([]int64, []string) {
	ids := []int64{}
	var unknown []string
	for _, code := range strings.Split(cell, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		id, ok := byCode[strings.ToUpper(code)]
		if !ok {
			unknown = append(unknown, code)
			continue
		}
		ids = append(ids, id)
	}
	return ids, unknown
}

func skipReason(err error) string {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && len(ce.Details) > 0 {
		parts := make([]string, 0, len(ce.Details))
		for _, field := range []string{"roll", "f_name", "l_name"} {
			if msg, ok := ce.Details[field]; ok {
				parts = append(parts, fmt.Sprint(msg))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	if msg := apperrors.UserMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}
