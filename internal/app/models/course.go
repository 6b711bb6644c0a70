package models

// Course represents a course students can enroll in.
type Course struct {
	ID          int64   `json:"id" db:"course_id" gorm:"column:course_id;primaryKey;autoIncrement"`
	Code        string  `json:"code" db:"course_code" gorm:"column:course_code"`
	Name        string  `json:"name" db:"course_name" gorm:"column:course_name"`
	Description *string `json:"description,omitempty" db:"course_description" gorm:"column:course_description"` // Nullable
}

// TableName maps Course onto the 'course' table.
func (Course) TableName() string {
	return "course"
}
