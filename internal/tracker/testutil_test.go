package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"classtrack/internal/store"
)

// wednesday is the fixed test clock: 2024-03-13 was a Wednesday.
var wednesday = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, now time.Time) *Service {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return NewService(NewRepository(db.Client), func() time.Time { return now })
}

// seedAttendance inserts one attendance row directly, bypassing the
// today-only marking path so reports can be fed arbitrary dates.
func seedAttendance(t *testing.T, s *Service, date string, subjectID int64, lectureNumber int, status string) {
	t.Helper()
	_, err := s.repo.db.Exec(s.repo.db.Rebind(`
		INSERT INTO attendance (date, subject_id, lecture_number, status) VALUES (?, ?, ?, ?)
	`), date, subjectID, lectureNumber, status)
	require.NoError(t, err)
}

func mustAddSubject(t *testing.T, s *Service, name string, counts map[string]int) int64 {
	t.Helper()
	_, err := s.AddSubject(context.Background(), name, counts)
	require.NoError(t, err)
	id, err := s.repo.EnsureSubject(context.Background(), name)
	require.NoError(t, err)
	return id
}
