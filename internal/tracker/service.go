package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service coordinates schedule management and daily attendance marking. The
// clock is injected so handlers and tests control what "today" means.
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

// Today returns the service clock's current date string and weekday name.
func (s *Service) Today() (date, weekday string) {
	t := s.now()
	return t.Format("2006-01-02"), t.Weekday().String()
}

// Subjects lists all subjects.
func (s *Service) Subjects(ctx context.Context) ([]Subject, error) {
	return s.repo.ListSubjects(ctx)
}

// Schedule lists the joined weekly schedule.
func (s *Service) Schedule(ctx context.Context) ([]ScheduleEntry, error) {
	return s.repo.Schedule(ctx)
}

// AddSubject registers a subject and one lecture row per weekday with a
// positive count. An existing name is reused; the submitted lecture rows
// attach to it. Returns a confirmation message.
func (s *Service) AddSubject(ctx context.Context, name string, perDayCounts map[string]int) (string, error) {
	if name == "" {
		return "", errors.New("subject name required")
	}
	subjectID, err := s.repo.EnsureSubject(ctx, name)
	if err != nil {
		return "", err
	}
	for _, day := range Weekdays {
		if n := perDayCounts[day]; n > 0 {
			if err := s.repo.InsertLecture(ctx, subjectID, day, n); err != nil {
				return "", err
			}
		}
	}
	return fmt.Sprintf("Subject %q and lectures added!", name), nil
}

// DeleteLecture removes one lecture row.
func (s *Service) DeleteLecture(ctx context.Context, id int64) error {
	return s.repo.DeleteLecture(ctx, id)
}

// TodaySlots expands today's scheduled lectures into individual occurrence
// slots, each carrying its recorded status or "Blank".
func (s *Service) TodaySlots(ctx context.Context) ([]Slot, error) {
	date, weekday := s.Today()
	lectures, err := s.repo.lecturesOn(ctx, weekday)
	if err != nil {
		return nil, err
	}
	var slots []Slot
	for _, lec := range lectures {
		for n := 1; n <= lec.NumberPerDay; n++ {
			status, err := s.repo.statusFor(ctx, date, lec.SubjectID, n)
			if err != nil {
				return nil, err
			}
			if status == "" {
				status = StatusBlank
			}
			slots = append(slots, Slot{
				SubjectID:     lec.SubjectID,
				Subject:       lec.Subject,
				LectureID:     lec.LectureID,
				LectureNumber: n,
				Status:        status,
			})
		}
	}
	return slots, nil
}

// MarkToday persists statuses for today's slots in a single transaction. Only
// slots present in today's schedule are written; missing or unknown statuses
// default to Blank. The operation is idempotent.
func (s *Service) MarkToday(ctx context.Context, statuses map[SlotKey]string) error {
	slots, err := s.TodaySlots(ctx)
	if err != nil {
		return err
	}
	date, _ := s.Today()

	tx, err := s.repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, slot := range slots {
		status := statuses[SlotKey{SubjectID: slot.SubjectID, LectureNumber: slot.LectureNumber}]
		if !ValidStatus(status) {
			status = StatusBlank
		}
		if err := s.repo.upsertStatus(ctx, tx, date, slot.SubjectID, slot.LectureNumber, status); err != nil {
			return err
		}
	}
	return tx.Commit()
}
