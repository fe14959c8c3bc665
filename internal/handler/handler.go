package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-rental/internal/errs"
	"github.com/Astemirdum/library-rental/internal/model"
	"github.com/Astemirdum/library-rental/pkg/auth"
	md "github.com/Astemirdum/library-rental/pkg/middleware"
	"github.com/Astemirdum/library-rental/pkg/validate"
)

type Handler struct {
	borrowingSvc BorrowingService
	bookSvc      BookService
	log          *zap.Logger
}

func New(borrowingSvc BorrowingService, bookSvc BookService, log *zap.Logger) *Handler {
	return &Handler{
		borrowingSvc: borrowingSvc,
		bookSvc:      bookSvc,
		log:          log,
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
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.JwtAuthentication,
	)

	api.POST("/borrowings", h.CreateBorrowing)
	api.GET("/borrowings", h.ListBorrowings)
	api.GET("/borrowings/:id", h.GetBorrowing)
	api.PATCH("/borrowings/:id/return", h.ReturnBorrowing)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.POST("/books", h.CreateBook)
	api.DELETE("/books/:id", h.DeleteBook)

	api.GET("/payments", h.ListPayments)
	api.GET("/payments/success", h.PaymentSuccess)
	api.GET("/payments/cancel", h.PaymentCancel)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateBorrowing(c echo.Context) error {
	var req model.CreateBorrowingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	username, _, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	req.Username = username

	if err := c.Validate(req); err != nil {
		return err
	}

	resp, err := h.borrowingSvc.CreateBorrowing(c.Request().Context(), req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListBorrowings(c echo.Context) error {
	ctx := c.Request().Context()
	username, _, ok := auth.FromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	filter := model.ListBorrowingsFilter{
		Username: username,
		UserID:   c.QueryParam("user_id"),
	}
	var err error
	if filter.Page, filter.Size, err = paging(c); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if isActiveParam := c.QueryParam("is_active"); isActiveParam != "" {
		isActive, err := strconv.ParseBool(isActiveParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("is_active is invalid"))
		}
		filter.IsActive = &isActive
	}

	borrowings, err := h.borrowingSvc.ListBorrowings(ctx, filter, auth.IsAdmin(ctx))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, borrowings)
}

func (h *Handler) GetBorrowing(c echo.Context) error {
	ctx := c.Request().Context()
	username, _, ok := auth.FromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("id is invalid"))
	}

	borrowing, err := h.borrowingSvc.GetBorrowing(ctx, id, username, auth.IsAdmin(ctx))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, borrowing)
}

func (h *Handler) ReturnBorrowing(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("id is invalid"))
	}

	resp, err := h.borrowingSvc.ReturnBorrowing(ctx, id, auth.IsAdmin(ctx))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, errs.ErrForbidden.Error())
	}
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, err := h.bookSvc.CreateBook(ctx, req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("id is invalid"))
	}
	book, err := h.bookSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	books, err := h.bookSvc.ListBooks(c.Request().Context(), page, size)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, errs.ErrForbidden.Error())
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("id is invalid"))
	}
	if err := h.bookSvc.DeleteBook(ctx, id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()
	username, _, ok := auth.FromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	if auth.IsAdmin(ctx) {
		username = ""
	}
	payments, err := h.borrowingSvc.ListPayments(ctx, username)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *Handler) PaymentSuccess(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("session_id is required"))
	}
	payment, err := h.borrowingSvc.ConfirmPayment(c.Request().Context(), sessionID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *Handler) PaymentCancel(c echo.Context) error {
	return c.String(http.StatusOK, "Payment can be made later. The session is available for 24 hours.")
}

func paging(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return 0, 0, errors.New("page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return 0, 0, errors.New("size is invalid")
		}
	}
	return page, size, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrAlreadyReturned),
		errors.Is(err, errs.ErrInvalidRequest),
		errors.Is(err, errs.ErrOutOfStock):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
