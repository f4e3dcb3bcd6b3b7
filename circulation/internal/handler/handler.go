package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/Kidemi04/Library-Self-Checkout-System-sub001/docs"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/errs"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/auth"
	md "github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/middleware"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/validate"
)

type Handler struct {
	circulationSvc CirculationService
	log            *zap.Logger
}

func New(circulationSvc CirculationService, log *zap.Logger) *Handler {
	return &Handler{
		circulationSvc: circulationSvc,
		log:            log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.AuthContext,
	)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:bookUid", h.GetBook)
	api.POST("/books", h.CreateBook)
	api.POST("/books/:bookUid/copies", h.AddCopy)
	api.PATCH("/copies/:copyUid/status", h.UpdateCopyStatus)

	api.POST("/loans", h.Checkout)
	api.GET("/loans", h.ListLoans)
	api.POST("/loans/:loanUid/renew", h.RenewLoan)
	api.POST("/returns", h.Checkin)

	api.POST("/holds", h.PlaceHold)
	api.GET("/holds", h.ListHolds)
	api.DELETE("/holds/:holdUid", h.CancelHold)
	api.POST("/holds/sweep", h.SweepHolds)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps engine error kinds onto status codes. The engine carries
// no presentation text; the raw error message is the API contract.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrBookNotFound),
		errors.Is(err, errs.ErrCopyNotFound),
		errors.Is(err, errs.ErrLoanNotFound),
		errors.Is(err, errs.ErrHoldNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidBorrower),
		errors.Is(err, errs.ErrInvalidTarget),
		errors.Is(err, errs.ErrInvalidDueDate),
		errors.Is(err, errs.ErrAmbiguousIdentifier),
		errors.Is(err, errs.ErrInvalidHoldState),
		errors.Is(err, errs.ErrInvalidCopyStatus),
		errors.Is(err, errs.ErrCopyFreelyAvailable),
		errors.Is(err, errs.ErrRenewalNotAllowed):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNoCopyAvailable),
		errors.Is(err, errs.ErrAlreadyOnLoan),
		errors.Is(err, errs.ErrAlreadyReturned),
		errors.Is(err, errs.ErrDuplicateHold),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrHoldAlreadyResolved):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) Checkout(c echo.Context) error {
	var req model.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	loan, err := h.circulationSvc.Checkout(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) Checkin(c echo.Context) error {
	var req model.CheckinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	loan, err := h.circulationSvc.Checkin(c.Request().Context(), req.Identifier)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) RenewLoan(c echo.Context) error {
	loan, err := h.circulationSvc.RenewLoan(c.Request().Context(), c.Param("loanUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) PlaceHold(c echo.Context) error {
	var req model.PlaceHoldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	hold, err := h.circulationSvc.PlaceHold(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, hold)
}

func (h *Handler) CancelHold(c echo.Context) error {
	if err := h.circulationSvc.CancelHold(c.Request().Context(), c.Param("holdUid")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SweepHolds(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsStaff(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, errs.ErrForbidden.Error())
	}
	result, err := h.circulationSvc.SweepExpiredHolds(ctx)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ListBooks(c echo.Context) error {
	var (
		err  error
		page int
		size int
	)
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("page is invalid"))
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("size is invalid"))
		}
	}

	books, err := h.circulationSvc.ListBooks(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	bookUid := c.Param("bookUid")

	type bookWithCopies struct {
		model.Book `json:",inline"`
		Copies     []model.Copy `json:"copies"`
	}
	var resp bookWithCopies

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		book, err := h.circulationSvc.GetBook(ctx, bookUid)
		if err != nil {
			return err
		}
		resp.Book = book
		return nil
	})
	gg.Go(func() error {
		copies, err := h.circulationSvc.ListCopies(ctx, bookUid)
		if err != nil {
			return err
		}
		resp.Copies = copies
		return nil
	})
	if err := gg.Wait(); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	book, err := h.circulationSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) AddCopy(c echo.Context) error {
	var req model.AddCopyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	copy, err := h.circulationSvc.AddCopy(c.Request().Context(), c.Param("bookUid"), req.Barcode)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, copy)
}

func (h *Handler) UpdateCopyStatus(c echo.Context) error {
	var req model.CopyStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	copy, err := h.circulationSvc.UpdateCopyStatus(c.Request().Context(), c.Param("copyUid"), req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, copy)
}

func (h *Handler) ListLoans(c echo.Context) error {
	loans, err := h.circulationSvc.ListLoans(c.Request().Context(), c.QueryParam("borrowerId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) ListHolds(c echo.Context) error {
	holds, err := h.circulationSvc.ListHolds(c.Request().Context(), c.QueryParam("patronId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, holds)
}
