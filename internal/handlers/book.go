package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/apperr"
	"github.com/Skotchmaster/bookly/internal/es"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/service/search"
	"github.com/Skotchmaster/bookly/internal/util"
)

// BookHandler keeps the whole book list in memory. Concurrent writers can
// race on the slice, which is fine for what this endpoint is.
type BookHandler struct {
	Books  []models.Book
	NextID int
	ES     *elasticsearch.Client
	Index  string
}

func NewBookHandler(esClient *elasticsearch.Client, index string) *BookHandler {
	return &BookHandler{
		Books:  []models.Book{},
		NextID: 1,
		ES:     esClient,
		Index:  index,
	}
}

func (h *BookHandler) indexBook(c echo.Context, book models.Book) {
	if h.ES == nil {
		return
	}
	if err := es.IndexBook(c.Request().Context(), h.ES, h.Index, book); err != nil {
		logging.FromContext(c.Request().Context()).Error("book index failed", "id", book.ID, "error", err)
	}
}

func (h *BookHandler) dropFromIndex(c echo.Context, id int) {
	if h.ES == nil {
		return
	}
	if err := es.DeleteBook(c.Request().Context(), h.ES, h.Index, id); err != nil {
		logging.FromContext(c.Request().Context()).Error("book unindex failed", "id", id, "error", err)
	}
}

func (h *BookHandler) GetBooks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Books)
}

func (h *BookHandler) CreateBook(c echo.Context) error {
	var book models.Book
	if err := c.Bind(&book); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if book.ID == 0 {
		book.ID = h.NextID
	}
	if book.ID >= h.NextID {
		h.NextID = book.ID + 1
	}
	h.Books = append(h.Books, book)

	h.indexBook(c, book)

	return c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) GetBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	for _, book := range h.Books {
		if book.ID == id {
			return c.JSON(http.StatusOK, book)
		}
	}
	return apperr.ErrBookNotFound
}

func (h *BookHandler) PatchBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	// pointer fields so absent keys leave the stored value alone
	var req struct {
		Title         *string `json:"title"`
		Author        *string `json:"author"`
		Publisher     *string `json:"publisher"`
		PublishedDate *string `json:"published_date"`
		PageCount     *int    `json:"page_count"`
		Language      *string `json:"language"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	for i := range h.Books {
		if h.Books[i].ID != id {
			continue
		}
		if req.Title != nil {
			h.Books[i].Title = *req.Title
		}
		if req.Author != nil {
			h.Books[i].Author = *req.Author
		}
		if req.Publisher != nil {
			h.Books[i].Publisher = *req.Publisher
		}
		if req.PublishedDate != nil {
			h.Books[i].PublishedDate = *req.PublishedDate
		}
		if req.PageCount != nil {
			h.Books[i].PageCount = *req.PageCount
		}
		if req.Language != nil {
			h.Books[i].Language = *req.Language
		}

		h.indexBook(c, h.Books[i])
		return c.JSON(http.StatusOK, h.Books[i])
	}
	return apperr.ErrBookNotFound
}

func (h *BookHandler) DeleteBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	for i, book := range h.Books {
		if book.ID == id {
			h.Books = append(h.Books[:i], h.Books[i+1:]...)
			h.dropFromIndex(c, id)
			return c.JSON(http.StatusOK, echo.Map{})
		}
	}
	return apperr.ErrBookNotFound
}

func (h *BookHandler) SearchBooks(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, books, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "books": books})
}
