// Package web holds the page and API handlers. Each handler composes
// repository-backed service calls inside the request and renders a view model
// or redirects.
package web

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"classtrack/internal/auth"
	"classtrack/internal/tracker"
)

var (
	marksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classtrack_attendance_marks_total",
		Help: "Attendance slots written by mark-attendance submissions.",
	})
	otpIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classtrack_otp_issued_total",
		Help: "OTP codes issued by registration attempts.",
	})
)

// Handler carries the services and auth settings the routes need.
type Handler struct {
	Tracker   *tracker.Service
	Auth      *auth.Service
	JWTIssuer string
	JWTKey    string
	AccessTTL time.Duration
}
