package tracker

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"
)

// Repository persists subjects, lectures and attendance records.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a repo.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ListSubjects returns all subjects ordered by name.
func (r *Repository) ListSubjects(ctx context.Context) ([]Subject, error) {
	var subjects []Subject
	err := r.db.SelectContext(ctx, &subjects, `SELECT id, name FROM subjects ORDER BY name`)
	return subjects, err
}

// EnsureSubject inserts the subject if its name is new and returns its id
// either way. Re-submitting an existing name is not an error.
func (r *Repository) EnsureSubject(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("subject name required")
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO subjects (name) VALUES (?) ON CONFLICT (name) DO NOTHING
	`), name)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.db.GetContext(ctx, &id, r.db.Rebind(`SELECT id FROM subjects WHERE name = ?`), name)
	return id, err
}

// InsertLecture adds one weekly lecture row for a subject.
func (r *Repository) InsertLecture(ctx context.Context, subjectID int64, dayOfWeek string, numberPerDay int) error {
	if numberPerDay < 1 {
		return errors.New("number per day must be at least 1")
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO lectures (subject_id, day_of_week, number_per_day) VALUES (?, ?, ?)
	`), subjectID, dayOfWeek, numberPerDay)
	return err
}

// DeleteLecture removes one lecture row by id. Attendance rows tied to it are
// left alone; they still join on the subject.
func (r *Repository) DeleteLecture(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM lectures WHERE id = ?`), id)
	return err
}

// Schedule returns the full weekly schedule joined with subject names, ordered
// by subject name then calendar weekday.
func (r *Repository) Schedule(ctx context.Context) ([]ScheduleEntry, error) {
	var entries []ScheduleEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT lectures.id, subjects.name AS subject, lectures.day_of_week, lectures.number_per_day
		FROM lectures JOIN subjects ON lectures.subject_id = subjects.id
		ORDER BY subjects.name
	`)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Subject != entries[j].Subject {
			return entries[i].Subject < entries[j].Subject
		}
		return weekdayIndex[entries[i].DayOfWeek] < weekdayIndex[entries[j].DayOfWeek]
	})
	return entries, nil
}

type lectureOnDay struct {
	SubjectID    int64  `db:"subject_id"`
	Subject      string `db:"subject"`
	LectureID    int64  `db:"lecture_id"`
	NumberPerDay int    `db:"number_per_day"`
}

// lecturesOn returns the scheduled lectures for one weekday name.
func (r *Repository) lecturesOn(ctx context.Context, dayOfWeek string) ([]lectureOnDay, error) {
	var lectures []lectureOnDay
	err := r.db.SelectContext(ctx, &lectures, r.db.Rebind(`
		SELECT subjects.id AS subject_id, subjects.name AS subject,
		       lectures.id AS lecture_id, lectures.number_per_day
		FROM lectures JOIN subjects ON lectures.subject_id = subjects.id
		WHERE lectures.day_of_week = ?
		ORDER BY subjects.name, lectures.id
	`), dayOfWeek)
	return lectures, err
}

// statusFor returns the recorded status for one slot, or ("", nil) when no row
// exists.
func (r *Repository) statusFor(ctx context.Context, date string, subjectID int64, lectureNumber int) (string, error) {
	var status string
	err := r.db.GetContext(ctx, &status, r.db.Rebind(`
		SELECT status FROM attendance
		WHERE date = ? AND subject_id = ? AND lecture_number = ?
	`), date, subjectID, lectureNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return status, err
}

// upsertStatus writes one slot's status inside tx, updating in place when the
// row already exists.
func (r *Repository) upsertStatus(ctx context.Context, tx *sqlx.Tx, date string, subjectID int64, lectureNumber int, status string) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO attendance (date, subject_id, lecture_number, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (date, subject_id, lecture_number) DO UPDATE SET status = excluded.status
	`), date, subjectID, lectureNumber, status)
	return err
}

// AllRows returns every attendance record joined with its subject name,
// ordered by date.
func (r *Repository) AllRows(ctx context.Context) ([]AttendanceRow, error) {
	var rows []AttendanceRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT s.name AS subject, a.date, a.status
		FROM attendance a JOIN subjects s ON a.subject_id = s.id
		ORDER BY a.date
	`)
	return rows, err
}

// MonthCounts aggregates conducted (status other than Cancelled) and attended
// rows for one "YYYY-MM" month directly in the store.
func (r *Repository) MonthCounts(ctx context.Context, month string) (conducted, attended int, err error) {
	row := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		SELECT
			COUNT(CASE WHEN status <> 'Cancelled' THEN 1 END) AS conducted,
			COUNT(CASE WHEN status = 'Attended' THEN 1 END) AS attended
		FROM attendance
		WHERE substr(date, 1, 7) = ?
	`), month)
	err = row.Scan(&conducted, &attended)
	return conducted, attended, err
}
