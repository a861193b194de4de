package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodaySlotsExpansion(t *testing.T) {
	s := newTestService(t, wednesday)
	ctx := context.Background()

	mathID := mustAddSubject(t, s, "Math", map[string]int{"Wednesday": 2})
	mustAddSubject(t, s, "Physics", map[string]int{"Wednesday": 1, "Thursday": 3})

	slots, err := s.TodaySlots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 3, "two Math slots and one Physics slot on a Wednesday")

	for _, slot := range slots {
		assert.Equal(t, StatusBlank, slot.Status)
	}
	assert.Equal(t, mathID, slots[0].SubjectID)
	assert.Equal(t, 1, slots[0].LectureNumber)
	assert.Equal(t, 2, slots[1].LectureNumber)
}

func TestMarkTodayIdempotent(t *testing.T) {
	s := newTestService(t, wednesday)
	ctx := context.Background()

	mathID := mustAddSubject(t, s, "Math", map[string]int{"Wednesday": 2})

	statuses := map[SlotKey]string{
		{SubjectID: mathID, LectureNumber: 1}: StatusAttended,
		{SubjectID: mathID, LectureNumber: 2}: StatusCancelled,
	}
	require.NoError(t, s.MarkToday(ctx, statuses))

	slots, err := s.TodaySlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusAttended, slots[0].Status)
	assert.Equal(t, StatusCancelled, slots[1].Status)

	// Resubmitting must update in place, not duplicate.
	require.NoError(t, s.MarkToday(ctx, statuses))
	rows, err := s.repo.AllRows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Changing one slot overwrites the prior status.
	statuses[SlotKey{SubjectID: mathID, LectureNumber: 2}] = StatusAttended
	require.NoError(t, s.MarkToday(ctx, statuses))
	slots, err = s.TodaySlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusAttended, slots[1].Status)
}

func TestMarkTodayMissingSlotDefaultsBlank(t *testing.T) {
	s := newTestService(t, wednesday)
	ctx := context.Background()

	mathID := mustAddSubject(t, s, "Math", map[string]int{"Wednesday": 2})

	require.NoError(t, s.MarkToday(ctx, map[SlotKey]string{
		{SubjectID: mathID, LectureNumber: 1}: StatusAttended,
	}))

	slots, err := s.TodaySlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusAttended, slots[0].Status)
	assert.Equal(t, StatusBlank, slots[1].Status)

	rows, err := s.repo.AllRows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2, "blank slots are stored, not skipped")
}

func TestMarkTodayUnknownStatusCoercedToBlank(t *testing.T) {
	s := newTestService(t, wednesday)
	ctx := context.Background()

	mathID := mustAddSubject(t, s, "Math", map[string]int{"Wednesday": 1})

	require.NoError(t, s.MarkToday(ctx, map[SlotKey]string{
		{SubjectID: mathID, LectureNumber: 1}: "Maybe",
	}))

	slots, err := s.TodaySlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusBlank, slots[0].Status)
}

func TestDuplicateSubjectAttachesLectures(t *testing.T) {
	s := newTestService(t, wednesday)
	ctx := context.Background()

	first := mustAddSubject(t, s, "Math", map[string]int{"Wednesday": 1})
	second := mustAddSubject(t, s, "Math", map[string]int{"Monday": 1})
	assert.Equal(t, first, second, "re-registering a name reuses the subject row")

	subjects, err := s.Subjects(ctx)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)

	schedule, err := s.Schedule(ctx)
	require.NoError(t, err)
	require.Len(t, schedule, 2, "submitted lecture rows attach to the existing subject")
}

func TestScheduleCalendarOrdering(t *testing.T) {
	s := newTestService(t, wednesday)
	ctx := context.Background()

	mustAddSubject(t, s, "Algo", map[string]int{"Friday": 1, "Monday": 2, "Wednesday": 1})
	mustAddSubject(t, s, "Zoology", map[string]int{"Monday": 1})

	schedule, err := s.Schedule(ctx)
	require.NoError(t, err)
	require.Len(t, schedule, 4)

	assert.Equal(t, "Algo", schedule[0].Subject)
	assert.Equal(t, "Monday", schedule[0].DayOfWeek)
	assert.Equal(t, "Wednesday", schedule[1].DayOfWeek)
	assert.Equal(t, "Friday", schedule[2].DayOfWeek)
	assert.Equal(t, "Zoology", schedule[3].Subject)
}

func TestDeleteLectureKeepsAttendance(t *testing.T) {
	s := newTestService(t, wednesday)
	ctx := context.Background()

	mathID := mustAddSubject(t, s, "Math", map[string]int{"Wednesday": 1})
	require.NoError(t, s.MarkToday(ctx, map[SlotKey]string{
		{SubjectID: mathID, LectureNumber: 1}: StatusAttended,
	}))

	schedule, err := s.Schedule(ctx)
	require.NoError(t, err)
	require.Len(t, schedule, 1)

	require.NoError(t, s.DeleteLecture(ctx, schedule[0].LectureID))

	schedule, err = s.Schedule(ctx)
	require.NoError(t, err)
	assert.Empty(t, schedule)

	rows, err := s.repo.AllRows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "attendance rows survive lecture deletion")
}

func TestAddSubjectRequiresName(t *testing.T) {
	s := newTestService(t, wednesday)
	_, err := s.AddSubject(context.Background(), "", map[string]int{"Monday": 1})
	assert.Error(t, err)
}
