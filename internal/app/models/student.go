package models

// Student defines the student model based on the 'student' table
type Student struct {
	ID         int64  `json:"id" db:"student_id" gorm:"column:student_id;primaryKey;autoIncrement"`
	RollNumber string `json:"rollNumber" db:"roll_number" gorm:"column:roll_number"`
	FirstName  string `json:"firstName" db:"first_name" gorm:"column:first_name"`
	LastName   string `json:"lastName" db:"last_name" gorm:"column:last_name"` // Optional, stored as given
}

// TableName maps Student onto the 'student' table.
func (Student) TableName() string {
	return "student"
}

// FullName joins first and last name, skipping an empty last name.
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
