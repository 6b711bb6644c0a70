package models

// Enrollment links one student to one course. The same pair may appear more
// than once; nothing in the schema forbids repeat enrollments.
type Enrollment struct {
	ID        int64 `json:"id" db:"enrollment_id" gorm:"column:enrollment_id;primaryKey;autoIncrement"`
	StudentID int64 `json:"studentId" db:"student_id" gorm:"column:student_id"`
	CourseID  int64 `json:"courseId" db:"course_id" gorm:"column:course_id"`
}

// TableName maps Enrollment onto the 'enrollment' table.
func (Enrollment) TableName() string {
	return "enrollment"
}
