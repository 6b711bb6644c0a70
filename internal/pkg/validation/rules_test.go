package validation

import (
	"strings"
	"testing"
)

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name string
		v    *StringValidation
		want string
	}{
		{name: "required empty", v: NewStringValidation("Roll number", ""), want: "Roll number is required"},
		{name: "optional empty", v: NewStringValidation("Last name", "").WithRequired(false).WithMaxLength(3), want: ""},
		{name: "too long", v: NewStringValidation("First name", "Johnny").WithMaxLength(3), want: "First name must be at most 3 characters"},
		{name: "multibyte counts runes", v: NewStringValidation("First name", "Çağrı").WithMaxLength(5), want: ""},
		{name: "pattern ok", v: NewStringValidation("Course code", "CS-201").WithPattern(CourseCodePattern), want: ""},
		{name: "pattern bad", v: NewStringValidation("Course code", "CS 201").WithPattern(CourseCodePattern), want: "Course code has an invalid format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Validate(); got != tt.want {
				t.Errorf("Validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	details := Collect(map[string]*StringValidation{
		"roll":   NewStringValidation("Roll number", ""),
		"f_name": NewStringValidation("First name", "Ada"),
		"l_name": NewStringValidation("Last name", strings.Repeat("x", 5)).WithRequired(false).WithMaxLength(4),
	})

	if len(details) != 2 || details["roll"] == nil || details["l_name"] == nil {
		t.Errorf("details = %v", details)
	}
}
