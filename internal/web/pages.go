package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classtrack/internal/tracker"
)

// Dashboard renders the aggregated statistics page.
func (h *Handler) Dashboard(c *gin.Context) {
	dash, err := h.Tracker.BuildDashboard(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "could not build dashboard")
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"subject_stats":      dash.SubjectStats,
		"pie_stats":          dash.Pie,
		"has_data":           dash.HasData,
		"monthly":            dash.Monthly,
		"prediction_percent": dash.Prediction.Percent,
		"missed":             dash.Prediction.Missed,
	})
}

// GetMarkAttendance renders today's expanded lecture slots.
func (h *Handler) GetMarkAttendance(c *gin.Context) {
	slots, err := h.Tracker.TodaySlots(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "could not load today's schedule")
		return
	}
	date, weekday := h.Tracker.Today()
	c.HTML(http.StatusOK, "mark_attendance.html", gin.H{
		"today_schedule": slots,
		"date":           date,
		"weekday":        weekday,
	})
}

// PostMarkAttendance persists the submitted statuses for today's slots. The
// form keys stay "<subjectName>_<lectureNumber>", but only keys matching a
// slot in today's schedule are read; everything else is ignored.
func (h *Handler) PostMarkAttendance(c *gin.Context) {
	slots, err := h.Tracker.TodaySlots(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "could not load today's schedule")
		return
	}

	statuses := make(map[tracker.SlotKey]string, len(slots))
	for _, slot := range slots {
		key := fmt.Sprintf("%s_%d", slot.Subject, slot.LectureNumber)
		statuses[tracker.SlotKey{SubjectID: slot.SubjectID, LectureNumber: slot.LectureNumber}] =
			c.DefaultPostForm(key, tracker.StatusBlank)
	}
	if err := h.Tracker.MarkToday(c.Request.Context(), statuses); err != nil {
		c.String(http.StatusInternalServerError, "could not save attendance")
		return
	}
	marksTotal.Add(float64(len(slots)))
	c.Redirect(http.StatusFound, "/mark_attendance")
}

// Subjects renders the subjects page and handles its two form actions.
func (h *Handler) Subjects(c *gin.Context) {
	ctx := c.Request.Context()
	message := ""

	if c.Request.Method == http.MethodPost {
		switch {
		case c.PostForm("add_subject") != "":
			counts := make(map[string]int, len(tracker.Weekdays))
			for _, day := range tracker.Weekdays {
				if n, err := strconv.Atoi(c.PostForm("num_" + day)); err == nil {
					counts[day] = n
				}
			}
			msg, err := h.Tracker.AddSubject(ctx, c.PostForm("subject_name"), counts)
			if err != nil {
				message = "Could not add subject"
			} else {
				message = msg
			}
		case c.PostForm("delete_lecture") != "":
			if id, err := strconv.ParseInt(c.PostForm("delete_lecture"), 10, 64); err == nil {
				if err := h.Tracker.DeleteLecture(ctx, id); err == nil {
					message = "Lecture deleted."
				}
			}
		}
	}

	subjects, err := h.Tracker.Subjects(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "could not list subjects")
		return
	}
	schedule, err := h.Tracker.Schedule(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "could not load schedule")
		return
	}
	c.HTML(http.StatusOK, "subjects.html", gin.H{
		"subjects": subjects,
		"schedule": schedule,
		"message":  message,
	})
}

// DeleteLecture removes one lecture by path id and redirects back.
func (h *Handler) DeleteLecture(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/subjects")
		return
	}
	_ = h.Tracker.DeleteLecture(c.Request.Context(), id)
	c.Redirect(http.StatusFound, "/subjects")
}

// Semesters renders the static informational page.
func (h *Handler) Semesters(c *gin.Context) {
	c.HTML(http.StatusOK, "semesters.html", gin.H{})
}
