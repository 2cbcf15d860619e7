package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/polyakovs/library-lending/library/internal/errs"
	"github.com/polyakovs/library-lending/library/internal/model"
	md "github.com/polyakovs/library-lending/pkg/middleware"
	"github.com/polyakovs/library-lending/pkg/validate"
)

type Handler struct {
	librarySvc LibraryService
	log        *zap.Logger
}

func New(librarySvc LibraryService, log *zap.Logger) *Handler {
	return &Handler{
		librarySvc: librarySvc,
		log:        log,
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
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/books", h.AddBook)
	api.GET("/books", h.ListBooks)
	api.GET("/books/search", h.SearchBooks)
	api.GET("/books/:bookId/available", h.AvailableCount)

	api.GET("/categories", h.ListCategories)
	api.POST("/categories", h.AddCategory)
	api.GET("/publishers", h.ListPublishers)
	api.POST("/publishers", h.AddPublisher)

	api.POST("/members", h.AddMember)
	api.GET("/members", h.ListMembers)

	api.POST("/loans", h.IssueLoan)
	api.POST("/loans/:loanId/return", h.ReturnLoan)
	api.GET("/loans", h.ListLoans)
	api.GET("/loans/recent", h.RecentLoans)

	api.GET("/stats", h.DashboardStats)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) AddBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	book, err := h.librarySvc.AddBook(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDuplicateISBN):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, errs.ErrReference):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.librarySvc.ListBooks(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) SearchBooks(c echo.Context) error {
	prefix := c.QueryParam("q")
	if prefix == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("q is required"))
	}
	books, err := h.librarySvc.SearchBooks(c.Request().Context(), prefix)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) AvailableCount(c echo.Context) error {
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("bookId is invalid"))
	}
	count, err := h.librarySvc.AvailableCount(c.Request().Context(), bookID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"bookId": bookID, "available": count})
}

func (h *Handler) ListCategories(c echo.Context) error {
	items, err := h.librarySvc.ListCategories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddCategory(c echo.Context) error {
	return addNamed(c, h.librarySvc.AddCategory)
}

func (h *Handler) ListPublishers(c echo.Context) error {
	items, err := h.librarySvc.ListPublishers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddPublisher(c echo.Context) error {
	return addNamed(c, h.librarySvc.AddPublisher)
}

type namedRequest struct {
	Name string `json:"name" validate:"required"`
}

// addNamed covers the two simple reference lookups, category and
// publisher, which share a create-by-name contract.
func addNamed[T any](c echo.Context, fn func(ctx context.Context, name string) (T, error)) error {
	var req namedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	item, err := fn(c.Request().Context(), req.Name)
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateName) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) AddMember(c echo.Context) error {
	var req model.CreateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	member, err := h.librarySvc.AddMember(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, member)
}

func (h *Handler) ListMembers(c echo.Context) error {
	members, err := h.librarySvc.ListMembers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, members)
}

func (h *Handler) IssueLoan(c echo.Context) error {
	var req model.IssueLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	loan, err := h.librarySvc.IssueLoan(c.Request().Context(), req.BookID, req.MemberID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNoCopyAvailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, errs.ErrMemberNotFound), errors.Is(err, errs.ErrBookNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	loanID, err := strconv.Atoi(c.Param("loanId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("loanId is invalid"))
	}
	loan, err := h.librarySvc.ReturnLoan(c.Request().Context(), loanID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrAlreadyReturned):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) ListLoans(c echo.Context) error {
	filter := model.LoanFilter(c.QueryParam("filter"))
	if filter == "" {
		filter = model.FilterAll
	}
	if !filter.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("filter is invalid"))
	}
	loans, err := h.librarySvc.LoansFiltered(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loans)
}

const defaultRecentLimit = 5

func (h *Handler) RecentLoans(c echo.Context) error {
	limit := defaultRecentLimit
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		var err error
		if limit, err = strconv.Atoi(limitParam); err != nil || limit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("limit is invalid"))
		}
	}
	loans, err := h.librarySvc.RecentLoans(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) DashboardStats(c echo.Context) error {
	stats, err := h.librarySvc.DashboardStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
