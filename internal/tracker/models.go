package tracker

// Attendance statuses as stored. Blank rows are written when a slot is
// submitted without a choice.
const (
	StatusAttended    = "Attended"
	StatusNotAttended = "Not Attended"
	StatusCancelled   = "Cancelled"
	StatusBlank       = "Blank"
)

// Weekdays in calendar order, Monday first. Day names double as the stored
// day_of_week values.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var weekdayIndex = func() map[string]int {
	m := make(map[string]int, len(Weekdays))
	for i, d := range Weekdays {
		m[d] = i
	}
	return m
}()

// ValidStatus reports whether s is one of the four stored statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusAttended, StatusNotAttended, StatusCancelled, StatusBlank:
		return true
	}
	return false
}

// Subject is a course with a unique display name.
type Subject struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ScheduleEntry is one lecture row joined with its subject name.
type ScheduleEntry struct {
	LectureID    int64  `db:"id" json:"lecture_id"`
	Subject      string `db:"subject" json:"subject"`
	DayOfWeek    string `db:"day_of_week" json:"day_of_week"`
	NumberPerDay int    `db:"number_per_day" json:"number_per_day"`
}

// Slot is one lecture occurrence on a given date, with any recorded status.
type Slot struct {
	SubjectID     int64  `json:"subject_id"`
	Subject       string `json:"subject"`
	LectureID     int64  `json:"lecture_id"`
	LectureNumber int    `json:"lecture_number"`
	Status        string `json:"status"`
}

// SlotKey identifies a lecture occurrence within one day.
type SlotKey struct {
	SubjectID     int64
	LectureNumber int
}

// AttendanceRow is an attendance record joined with its subject name.
type AttendanceRow struct {
	Subject string `db:"subject"`
	Date    string `db:"date"`
	Status  string `db:"status"`
}
