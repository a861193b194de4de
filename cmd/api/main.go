package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/httpmiddleware"
	"classtrack/internal/mailer"
	"classtrack/internal/store"
	"classtrack/internal/tracker"
	"classtrack/internal/web"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(context.Background()); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr, cfg.RedisDB, cfg.RedisTimeout)

	var mail mailer.Mailer
	switch cfg.MailBackend {
	case "smtp":
		mail = mailer.SMTP{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}
	case "sendgrid":
		mail = mailer.Sendgrid{APIKey: cfg.SendgridAPIKey, From: cfg.MailFrom}
	default:
		mail = mailer.Console{}
	}

	var limiter httpmiddleware.Limiter
	if cfg.RateBackend == "redis" {
		limiter = httpmiddleware.NewRedisLimiter(redisClient.Client, "classtrack:auth", cfg.RateLimitPerMin, time.Minute)
	} else {
		limiter = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	}

	trackerSvc := tracker.NewService(tracker.NewRepository(db.Client), time.Now)
	authSvc := auth.NewService(auth.NewRepository(db.Client), mail, cfg.OTPTTL, time.Now)

	h := &web.Handler{
		Tracker:   trackerSvc,
		Auth:      authSvc,
		JWTIssuer: cfg.JWTIssuer,
		JWTKey:    cfg.JWTSigningKey,
		AccessTTL: cfg.AccessTTL,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(securityHeaders())

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("classtrack_session", sessionStore))

	r.LoadHTMLGlob(cfg.TemplateGlob)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", web.Healthz(db, redisClient))

	r.GET("/", func(c *gin.Context) {
		if sessions.Default(c).Get(auth.SessionUserID) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Redirect(http.StatusFound, "/login")
	})

	limited := r.Group("/", httpmiddleware.GinMiddleware(limiter))
	limited.GET("/register", h.GetRegister)
	limited.POST("/register", h.PostRegister)
	limited.GET("/verify-otp", h.GetVerify)
	limited.POST("/verify-otp", h.PostVerify)
	limited.GET("/login", h.GetLogin)
	limited.POST("/login", h.PostLogin)
	r.POST("/logout", h.PostLogout)

	authed := r.Group("/", auth.RequireSession())
	authed.GET("/dashboard", h.Dashboard)
	authed.GET("/mark_attendance", h.GetMarkAttendance)
	authed.POST("/mark_attendance", h.PostMarkAttendance)
	authed.GET("/subjects", h.Subjects)
	authed.POST("/subjects", h.Subjects)
	authed.POST("/delete_lecture/:id", h.DeleteLecture)
	authed.GET("/semesters", h.Semesters)

	r.POST("/api/token", h.PostToken)
	api := r.Group("/api", auth.APIAuth(cfg.JWTSigningKey, cfg.JWTIssuer))
	api.GET("/stats", h.GetStats)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
