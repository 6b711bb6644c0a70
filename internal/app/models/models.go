package models

// CourseIDs extracts the course ids of the given enrollments, in order.
func CourseIDs(enrollments []Enrollment) []int64 {
	ids := make([]int64, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}
	return ids
}

// ResolveCourses maps enrolled course ids onto the courses that were found,
// keeping enrollment order. Ids with no matching course are skipped, and an id
// enrolled twice yields the course twice.
func ResolveCourses(ids []int64, found []*Course) []*Course {
	byID := make(map[int64]*Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	courses := make([]*Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			courses = append(courses, c)
		}
	}
	return courses
}
