package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/auth"
	md "github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/middleware"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/validate"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/reporting/internal/model"
)

type Handler struct {
	reportingSvc ReportingService
	log          *zap.Logger
}

func New(reportingSvc ReportingService, log *zap.Logger) *Handler {
	return &Handler{
		reportingSvc: reportingSvc,
		log:          log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{StackSize: 4 << 10}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.AuthContext,
	)
	api.GET("/audit", h.ListAudit)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListAudit(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsStaff(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "staff only")
	}

	filter := model.Filter{
		EntityType: c.QueryParam("entityType"),
		EntityID:   c.QueryParam("entityId"),
		EventType:  c.QueryParam("eventType"),
	}
	var err error
	if successParam := c.QueryParam("success"); successParam != "" {
		success, err := strconv.ParseBool(successParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("success is invalid"))
		}
		filter.Success = &success
	}
	if fromParam := c.QueryParam("from"); fromParam != "" {
		if filter.From, err = time.Parse(time.RFC3339, fromParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("from is invalid"))
		}
	}
	if toParam := c.QueryParam("to"); toParam != "" {
		if filter.To, err = time.Parse(time.RFC3339, toParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("to is invalid"))
		}
	}
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if filter.Page, err = strconv.Atoi(pageParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("page is invalid"))
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if filter.Size, err = strconv.Atoi(sizeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("size is invalid"))
		}
	}

	entries, err := h.reportingSvc.List(ctx, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}
