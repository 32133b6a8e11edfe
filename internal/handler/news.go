package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchday/football-news-api/internal/auth"
	"github.com/matchday/football-news-api/internal/middleware"
	"github.com/matchday/football-news-api/internal/model"
	"github.com/matchday/football-news-api/internal/queue"
	"github.com/matchday/football-news-api/internal/repository"
	queue_publisher "github.com/matchday/football-news-api/internal/service"
)

// NewsHandler exposes article listings and authoring.  Published articles
// are public; drafts are visible only to their author or an admin.
type NewsHandler struct {
	News *repository.NewsRepo
}

func NewNewsHandler(n *repository.NewsRepo) *NewsHandler {
	return &NewsHandler{News: n}
}

type newsReq struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	IsBreaking  *bool  `json:"is_breaking"`
	IsPublished *bool  `json:"is_published"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a title into a URL slug, appending a timestamp suffix so
// repeated titles get distinct slugs.
func slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if len(s) > 80 {
		s = s[:80]
	}
	return fmt.Sprintf("%s-%d", s, time.Now().UnixMilli())
}

// List handles GET /api/news: published articles only, newest first.
func (h *NewsHandler) List(c echo.Context) error {
	p := getPage(c)
	f := repository.NewsFilter{
		Category: c.QueryParam("category"),
		AuthorID: c.QueryParam("author"),
		Search:   strings.TrimSpace(c.QueryParam("search")),
	}
	if v := c.QueryParam("breaking"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid breaking value"})
		}
		f.Breaking = &b
	}
	items, total, err := h.News.ListPublished(c.Request().Context(), f, p.limit, p.offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "pagination": newPagination(total, p)})
}

// Breaking handles GET /api/news/breaking.
func (h *NewsHandler) Breaking(c echo.Context) error {
	limit := 10
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 50 {
		limit = v
	}
	items, err := h.News.ListBreaking(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /api/news/:idOrSlug.  Runs behind optional auth: drafts
// render only for their author or an admin, and view counting skips drafts.
func (h *NewsHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	key := c.Param("id")

	var n *model.News
	var err error
	if id, convErr := strconv.ParseUint(key, 10, 64); convErr == nil && id > 0 {
		n, err = h.News.GetByID(ctx, id)
	} else {
		n, err = h.News.GetBySlug(ctx, key)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if !n.IsPublished {
		u, ok := middleware.UserFrom(c)
		if !ok || !auth.CanModify(u.ID, u.AccountType, n.AuthorID) {
			// Drafts are indistinguishable from missing articles.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return c.JSON(http.StatusOK, n)
	}

	if err := h.News.IncrementViews(ctx, n.ID); err == nil {
		n.ViewCount++
	}
	return c.JSON(http.StatusOK, n)
}

// Create handles POST /api/news.  Any authenticated user may draft; the
// published_at timestamp is set when is_published is true.
func (h *NewsHandler) Create(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	var req newsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
	}

	n := &model.News{
		AuthorID: u.ID,
		Title:    title,
		Slug:     slugify(title),
		Summary:  strings.TrimSpace(req.Summary),
		Content:  req.Content,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
	if req.IsBreaking != nil {
		n.IsBreaking = *req.IsBreaking
	}
	if req.IsPublished != nil && *req.IsPublished {
		n.IsPublished = true
		now := time.Now().UTC()
		n.PublishedAt = &now
	}
	if err := h.News.Create(c.Request().Context(), n); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create news"})
	}
	if n.IsPublished {
		h.announce(n)
	}
	return c.JSON(http.StatusCreated, n)
}

// Update handles PUT /api/news/:id: author or admin.  Publishing a draft
// stamps published_at and emits a news.published event.
func (h *NewsHandler) Update(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	id, okID := paramID(c, "id")
	if !okID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	n, err := h.News.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !auth.CanModify(u.ID, u.AccountType, n.AuthorID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Insufficient permissions"})
	}

	var req newsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		n.Title = title
	}
	if req.Summary != "" {
		n.Summary = strings.TrimSpace(req.Summary)
	}
	if req.Content != "" {
		n.Content = req.Content
	}
	if req.Category != "" {
		n.Category = req.Category
	}
	if req.ImageURL != "" {
		n.ImageURL = req.ImageURL
	}
	if req.IsBreaking != nil {
		n.IsBreaking = *req.IsBreaking
	}
	justPublished := false
	if req.IsPublished != nil {
		if *req.IsPublished && !n.IsPublished {
			now := time.Now().UTC()
			n.PublishedAt = &now
			justPublished = true
		}
		n.IsPublished = *req.IsPublished
	}
	if err := h.News.Update(c.Request().Context(), n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if justPublished {
		h.announce(n)
	}
	return c.JSON(http.StatusOK, n)
}

// Delete handles DELETE /api/news/:id: author or admin.
func (h *NewsHandler) Delete(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	id, okID := paramID(c, "id")
	if !okID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	n, err := h.News.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !auth.CanModify(u.ID, u.AccountType, n.AuthorID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Insufficient permissions"})
	}
	if err := h.News.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// announce publishes a news.published event without blocking the request.
// Broker failures are logged inside the publisher and otherwise ignored.
func (h *NewsHandler) announce(n *model.News) {
	ev := queue.NewsPublishedEvent{
		NewsID:     n.ID,
		AuthorID:   n.AuthorID,
		Title:      n.Title,
		Slug:       n.Slug,
		Category:   n.Category,
		IsBreaking: n.IsBreaking,
	}
	if n.PublishedAt != nil {
		ev.PublishedAt = n.PublishedAt.Format(time.RFC3339)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishNewsPublished(ctx, ev)
	}()
}
