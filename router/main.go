package router

import (
	"log"
	"os"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/database"
	"github.com/MertKocakaplan/aceit-sub001/handlers"
	admin_handlers "github.com/MertKocakaplan/aceit-sub001/handlers/admin"
	auth_handlers "github.com/MertKocakaplan/aceit-sub001/handlers/auth"
	plan_handlers "github.com/MertKocakaplan/aceit-sub001/handlers/plan"
	pomodoro_handlers "github.com/MertKocakaplan/aceit-sub001/handlers/pomodoro"
	session_handlers "github.com/MertKocakaplan/aceit-sub001/handlers/session"
	solver_handlers "github.com/MertKocakaplan/aceit-sub001/handlers/solver"
	subject_handlers "github.com/MertKocakaplan/aceit-sub001/handlers/subject"
	"github.com/MertKocakaplan/aceit-sub001/services"
	"github.com/MertKocakaplan/aceit-sub001/services/storage"
	"github.com/MertKocakaplan/aceit-sub001/utils/auth"
	"github.com/MertKocakaplan/aceit-sub001/utils/cache"
	"github.com/MertKocakaplan/aceit-sub001/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "aceit-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	})

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs brute force protection and the solver quota. The API
	// stays functional without it.
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection and solver quotas are disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Object storage for solver question photos, optional
	var spaces *storage.SpacesClient
	if os.Getenv("SPACES_BUCKET") != "" {
		spaces, err = storage.NewSpacesClientFromEnv()
		if err != nil {
			log.Printf("Warning: Failed to configure object storage: %v. Question photos are disabled.", err)
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	settingsService := services.NewSettingsService(db, os.Getenv("SETTINGS_KEY"))
	planService := services.NewPlanService(db)
	planGenerator := services.NewPlanGenerator(db, planService, settingsService)
	sessionService := services.NewSessionService(db)
	pomodoroService := services.NewPomodoroService(db)
	solverService := services.NewSolverService(db, redisCache, settingsService, spaces)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	subjectHandler := subject_handlers.NewSubjectHandler(db)
	planHandler := plan_handlers.NewPlanHandler(db, planService, planGenerator)
	sessionHandler := session_handlers.NewSessionHandler(db, sessionService)
	pomodoroHandler := pomodoro_handlers.NewPomodoroHandler(db, pomodoroService)
	solverHandler := solver_handlers.NewSolverHandler(db, solverService)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", func(c *fiber.Ctx) error { return handlers.HandleCheckHealth(c, store) })

	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Subject and exam catalog (public)
	api.Get("/subjects", subjectHandler.ListSubjects)
	api.Get("/subjects/:id/topics", subjectHandler.ListTopics)
	api.Get("/exam-years", subjectHandler.ListExamYears)
	api.Get("/exam-years/:id/topic-counts", subjectHandler.ListTopicCounts)

	// Study plans (protected)
	plans := api.Group("/plans", authMiddleware.Required())
	plans.Get("/", planHandler.ListPlans)
	plans.Post("/", planHandler.CreatePlan)
	plans.Post("/generate", planHandler.GeneratePlan)
	plans.Get("/active", planHandler.GetActivePlan)
	plans.Get("/:id", planHandler.GetPlan)
	plans.Get("/:id/week", planHandler.GetWeek)
	plans.Post("/:id/activate", planHandler.ActivatePlan)
	plans.Delete("/:id", planHandler.DeletePlan)

	// Slot completion (protected)
	api.Patch("/slots/:id/completion", authMiddleware.Required(), planHandler.SetSlotCompletion)

	// Study sessions (protected)
	sessions := api.Group("/sessions", authMiddleware.Required())
	sessions.Get("/", sessionHandler.ListSessions)
	sessions.Post("/", sessionHandler.LogSession)
	sessions.Get("/summary", sessionHandler.GetSummary)
	sessions.Get("/daily", sessionHandler.GetDailyStats)
	sessions.Delete("/:id", sessionHandler.DeleteSession)

	// Pomodoro timer (protected)
	pomodoro := api.Group("/pomodoro", authMiddleware.Required())
	pomodoro.Get("/", pomodoroHandler.GetHistory)
	pomodoro.Post("/", pomodoroHandler.LogInterval)
	pomodoro.Get("/stats", pomodoroHandler.GetStats)

	// AI question solver (protected)
	solver := api.Group("/solver", authMiddleware.Required())
	solver.Post("/", solverHandler.Solve)
	solver.Get("/", solverHandler.GetHistory)
	solver.Get("/quota", solverHandler.GetQuota)
	solver.Get("/:id", solverHandler.GetQuery)
	solver.Delete("/:id", solverHandler.DeleteQuery)

	// Admin panel (admin only)
	admin := api.Group("/admin", authMiddleware.RequireAdmin())

	admin.Get("/analytics", func(c *fiber.Ctx) error { return admin_handlers.GetPlatformStats(c, store) })
	admin.Get("/cron-logs", func(c *fiber.Ctx) error { return admin_handlers.ListCronJobLogs(c, store) })

	admin.Get("/users", func(c *fiber.Ctx) error { return admin_handlers.ListUsers(c, store) })
	admin.Get("/users/:id", func(c *fiber.Ctx) error { return admin_handlers.GetUser(c, store) })
	admin.Put("/users/:id", middleware.AdminAuditLog(db, "user_update", "users"), func(c *fiber.Ctx) error { return admin_handlers.UpdateUser(c, store) })
	admin.Delete("/users/:id", middleware.AdminAuditLog(db, "user_delete", "users"), func(c *fiber.Ctx) error { return admin_handlers.DeleteUser(c, store) })
	admin.Post("/users/:id/reset-password", middleware.AdminAuditLog(db, "password_reset", "users"), func(c *fiber.Ctx) error { return admin_handlers.ResetUserPassword(c, store) })

	admin.Get("/exam-years", func(c *fiber.Ctx) error { return admin_handlers.ListExamYears(c, store) })
	admin.Post("/exam-years", middleware.AdminAuditLog(db, "exam_year_create", "exam_years"), func(c *fiber.Ctx) error { return admin_handlers.CreateExamYear(c, store) })
	admin.Put("/exam-years/:id", middleware.AdminAuditLog(db, "exam_year_update", "exam_years"), func(c *fiber.Ctx) error { return admin_handlers.UpdateExamYear(c, store) })
	admin.Put("/exam-years/:id/topic-counts", middleware.AdminAuditLog(db, "topic_count_update", "topic_question_counts"), func(c *fiber.Ctx) error { return admin_handlers.SetTopicCount(c, store) })
	admin.Post("/exam-years/:id/import", middleware.AdminAuditLog(db, "topic_count_import", "topic_question_counts"), func(c *fiber.Ctx) error { return admin_handlers.ImportTopicCounts(c, store) })

	admin.Post("/subjects", middleware.AdminAuditLog(db, "subject_create", "subjects"), func(c *fiber.Ctx) error { return admin_handlers.CreateSubject(c, store) })
	admin.Put("/subjects/:id", middleware.AdminAuditLog(db, "subject_update", "subjects"), func(c *fiber.Ctx) error { return admin_handlers.UpdateSubject(c, store) })
	admin.Delete("/subjects/:id", middleware.AdminAuditLog(db, "subject_delete", "subjects"), func(c *fiber.Ctx) error { return admin_handlers.DeleteSubject(c, store) })
	admin.Post("/subjects/:id/topics", middleware.AdminAuditLog(db, "topic_create", "subjects"), func(c *fiber.Ctx) error { return admin_handlers.CreateTopic(c, store) })
	admin.Delete("/topics/:id", middleware.AdminAuditLog(db, "topic_delete", "subjects"), func(c *fiber.Ctx) error { return admin_handlers.DeleteTopic(c, store) })

	admin.Get("/audit", func(c *fiber.Ctx) error { return admin_handlers.ListAuditLogs(c, store) })
	admin.Get("/audit/:id", func(c *fiber.Ctx) error { return admin_handlers.GetAuditLog(c, store) })

	admin.Get("/settings", func(c *fiber.Ctx) error { return admin_handlers.ListSettings(c, store) })
	admin.Get("/settings/:key", func(c *fiber.Ctx) error { return admin_handlers.GetSetting(c, store) })
	admin.Put("/settings/:key", middleware.AdminAuditLog(db, "setting_update", "settings"), func(c *fiber.Ctx) error { return admin_handlers.UpsertSetting(c, store) })
	admin.Delete("/settings/:key", middleware.AdminAuditLog(db, "setting_delete", "settings"), func(c *fiber.Ctx) error { return admin_handlers.DeleteSetting(c, store) })
}
