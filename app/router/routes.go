// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/amirphl/Porseman/app/dto"
	"github.com/amirphl/Porseman/app/handlers"
	"github.com/amirphl/Porseman/app/middleware"
	"github.com/amirphl/Porseman/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers groups every handler the router mounts
type Handlers struct {
	Auth       handlers.AuthHandlerInterface
	Question   handlers.QuestionHandlerInterface
	Answer     handlers.AnswerHandlerInterface
	Vote       handlers.VoteHandlerInterface
	Tag        handlers.TagHandlerInterface
	Collection handlers.CollectionHandlerInterface
	Profile    handlers.ProfileHandlerInterface
	Search     handlers.SearchHandlerInterface
	Admin      handlers.AdminHandlerInterface
	Media      handlers.MediaHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	h        Handlers
	authMW   *middleware.AuthMiddleware
	allowedO []string
	db       *gorm.DB
	rc       *redis.Client
}

// NewFiberRouter creates a new Fiber router. db and rc back the health
// check; rc may be nil when caching is disabled.
func NewFiberRouter(h Handlers, authMW *middleware.AuthMiddleware, allowedOrigins []string, db *gorm.DB, rc *redis.Client) Router {
	// Configure Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Porseman API",
		ServerHeader: "Porseman",
		ErrorHandler: errorHandler,
		BodyLimit:    10 * 1024 * 1024, // 10MB, avatars included
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:      app,
		h:        h,
		authMW:   authMW,
		allowedO: allowedOrigins,
		db:       db,
		rc:       rc,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Prometheus scrape endpoint, outside the API group
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// Apply general rate limiting to all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        2000,            // Maximum 2000 requests (matches nginx api zone)
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")

	// Apply stricter rate limiting to auth endpoints (aligned with nginx)
	auth.Use(limiter.New(limiter.Config{
		Max:        20,              // Maximum 20 requests (matches nginx auth zone)
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))

	// Auth endpoints
	auth.Post("/signup", r.h.Auth.Signup)
	auth.Post("/login", r.h.Auth.Login)
	auth.Post("/refresh", r.h.Auth.RefreshToken)
	auth.Post("/logout", r.h.Auth.Logout, r.authMW.Authenticate())

	// Question endpoints. Reads work anonymously, the optional auth
	// only fills in per-user state like the saved flag.
	questions := api.Group("/questions")
	questions.Get("/", r.h.Question.List)
	questions.Post("/", r.h.Question.Ask, r.authMW.Authenticate())
	questions.Get("/:uuid", r.h.Question.Get, r.authMW.OptionalAuth())
	questions.Put("/:uuid", r.h.Question.Edit, r.authMW.Authenticate())
	questions.Delete("/:uuid", r.h.Question.Delete, r.authMW.Authenticate())
	questions.Post("/:uuid/views", r.h.Question.RecordView, r.authMW.OptionalAuth())
	questions.Post("/:uuid/vote", r.h.Vote.ToggleQuestionVote, r.authMW.Authenticate())
	questions.Post("/:uuid/save", r.h.Collection.ToggleSave, r.authMW.Authenticate())
	questions.Get("/:uuid/answers", r.h.Answer.List, r.authMW.OptionalAuth())
	questions.Post("/:uuid/answers", r.h.Answer.Post, r.authMW.Authenticate())

	// Answer endpoints
	answers := api.Group("/answers")
	answers.Delete("/:uuid", r.h.Answer.Delete, r.authMW.Authenticate())
	answers.Post("/:uuid/vote", r.h.Vote.ToggleAnswerVote, r.authMW.Authenticate())

	// Tag endpoints
	tags := api.Group("/tags")
	tags.Get("/popular", r.h.Tag.ListPopular)
	tags.Get("/search", r.h.Tag.Search)
	tags.Get("/:name/questions", r.h.Tag.Questions)

	// Collection endpoints
	collections := api.Group("/collections")
	collections.Get("/saved", r.h.Collection.ListSaved, r.authMW.Authenticate())

	// Profile endpoints
	api.Put("/profile", r.h.Profile.Update, r.authMW.Authenticate())
	users := api.Group("/users")
	users.Get("/:username", r.h.Profile.Get)
	users.Get("/:username/stats", r.h.Profile.Stats)
	users.Get("/:username/top", r.h.Profile.TopPosts)

	// Global search
	api.Get("/search", r.h.Search.GlobalSearch)

	// Media endpoints
	media := api.Group("/media")
	media.Post("/avatar", r.h.Media.UploadAvatar, r.authMW.Authenticate())
	media.Get("/avatar/:uuid", r.h.Media.GetAvatar)

	// Admin endpoints
	admin := api.Group("/admin")
	admin.Post("/auth/captcha/init", r.h.Admin.InitCaptcha)
	admin.Post("/auth/captcha/verify", r.h.Admin.Login)
	admin.Get("/users", r.h.Admin.ListUsers, r.authMW.AdminAuthenticate())
	admin.Post("/users/status", r.h.Admin.SetUserActiveStatus, r.authMW.AdminAuthenticate())
	admin.Get("/users/export", r.h.Admin.ExportUsers, r.authMW.AdminAuthenticate())

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' https:; connect-src 'self' https:; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.allowedO,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Skip compression for binary content
			contentType := c.Get("Content-Type")
			return strings.Contains(contentType, "image/") ||
				strings.Contains(contentType, "video/") ||
				strings.Contains(contentType, "audio/")
		},
	}))

	// Prometheus request metrics
	r.app.Use(middleware.Metrics())

	// Advanced logging middleware
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks in production
			return c.Path() == "/api/v1/health"
		},
	}))

	// Custom security middleware
	r.app.Use(r.securityMiddleware)

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Custom security middleware
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	// Add security headers
	c.Set("X-Response-Time", utils.UTCNow().Format(time.RFC3339))
	c.Set("Server", "Porseman")

	// Continue to next middleware
	return c.Next()
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint. Pings the database and, when configured, redis;
// a failing database turns the whole check unhealthy, a failing redis only
// degrades it (the API serves without its caches).
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	dbStatus := "ok"
	if sqlDB, err := r.db.DB(); err != nil {
		dbStatus = "error"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "error"
	}

	cacheStatus := "disabled"
	if r.rc != nil {
		cacheStatus = "ok"
		if err := r.rc.Ping(ctx).Err(); err != nil {
			cacheStatus = "error"
		}
	}

	healthy := dbStatus == "ok"
	status := fiber.StatusOK
	message := "Service is healthy"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		message = "Service is unhealthy"
	}

	return c.Status(status).JSON(dto.APIResponse{
		Success: healthy,
		Message: message,
		Data: fiber.Map{
			"database":  dbStatus,
			"cache":     cacheStatus,
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "porseman-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
