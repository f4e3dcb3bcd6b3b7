package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/auth"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/logger"
)

// AuthContext lifts the acting user from the trusted gateway headers into
// the request context. Identity resolution happens upstream.
func AuthContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		userID := req.Header.Get(auth.XUserIDHeader)
		if userID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "user-id is empty")
		}
		userRole := req.Header.Get(auth.XUserRoleHeader)
		if userRole == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "user-role is empty")
		}
		ctx := auth.SetAuthContext(req.Context(), auth.User{
			ID:   userID,
			Name: req.Header.Get(auth.XUserNameHeader),
			Role: auth.Role(userRole),
		})
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig() middleware.RequestLoggerConfig {
	cfg := logger.Log{LogLevel: zapcore.DebugLevel, Sink: ""}
	log := logger.NewLogger(cfg, "echo")
	c := middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
	return c
}
