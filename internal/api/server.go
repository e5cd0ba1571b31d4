package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/middleware"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

type Server struct {
	echo   *echo.Echo
	config *config.Config
	db     *gorm.DB
	svc    *Services
	redis  *redis.Client
	auth   *middleware.AuthMiddleware
	log    *logger.Logger
}

// NewServer wires the middleware stack and routes. redisClient may be nil.
func NewServer(cfg *config.Config, db *gorm.DB, svc *Services, redisClient *redis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		config: cfg,
		db:     db,
		svc:    svc,
		redis:  redisClient,
		auth:   middleware.NewAuthMiddleware(cfg.JWT.Secret),
		log:    logger.New("SERVER"),
	}

	e.HTTPErrorHandler = middleware.ErrorHandler(s.log)
	e.Validator = &middleware.CustomValidator{}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			s.log.Debug("%s %s %d %s %s", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP)
			return nil
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit(bodyLimit(cfg.Upload.MaxBytes)))
	e.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RedisClient:    redisClient,
		EndpointLimits: s.endpointLimits(),
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	s.registerRoutes()
	return s
}

// endpointLimits moves the default /api limits under the configured prefix.
func (s *Server) endpointLimits() map[string]middleware.EndpointLimit {
	limits := middleware.DefaultEndpointLimits()
	prefix := strings.TrimRight(s.config.Server.APIPrefix, "/")
	if prefix == "/api" {
		return limits
	}
	for key, limit := range limits {
		method, path, _ := strings.Cut(key, ":")
		if rest, ok := strings.CutPrefix(path, "/api/"); ok {
			delete(limits, key)
			limits[method+":"+prefix+"/"+rest] = limit
		}
	}
	return limits
}

// bodyLimit leaves room for form fields next to the largest allowed image.
func bodyLimit(maxUpload int64) string {
	const slack = 1 << 20
	return fmt.Sprintf("%dK", (maxUpload+slack+1023)/1024)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start() error {
	s.log.Info("Listening on %s", s.config.Server.Addr())
	if err := s.echo.Start(s.config.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) healthCheck(c echo.Context) error {
	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.config.Server.IOTimeout)
	defer cancel()

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["status"], status["database"] = "degraded", "unreachable"
		code = http.StatusServiceUnavailable
	}
	if s.redis != nil {
		status["redis"] = "ok"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			status["redis"] = "unreachable"
		}
	}

	return c.JSON(code, status)
}
