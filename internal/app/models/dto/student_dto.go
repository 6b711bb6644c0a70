package dto

// CreateStudentRequest is the body of the student creation form.
type CreateStudentRequest struct {
	RollNumber string  `form:"roll" binding:"required,max=50"`
	FirstName  string  `form:"f_name" binding:"required,max=100"`
	LastName   string  `form:"l_name" binding:"max=100"`
	CourseIDs  []int64 `form:"courses"`
}

// UpdateStudentRequest is the body of the student update form.
// The roll number cannot be changed.
type UpdateStudentRequest struct {
	FirstName string  `form:"f_name" binding:"required,max=100"`
	LastName  string  `form:"l_name" binding:"max=100"`
	CourseIDs []int64 `form:"courses"`
}
