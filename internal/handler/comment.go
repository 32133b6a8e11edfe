package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matchday/football-news-api/internal/auth"
	"github.com/matchday/football-news-api/internal/middleware"
	"github.com/matchday/football-news-api/internal/model"
	"github.com/matchday/football-news-api/internal/repository"
)

// CommentHandler exposes the comment thread under an article.  Threads are
// one level deep: a reply's parent must be a top-level comment on the same
// article.
type CommentHandler struct {
	Comments *repository.CommentRepo
	News     *repository.NewsRepo
}

func NewCommentHandler(c *repository.CommentRepo, n *repository.NewsRepo) *CommentHandler {
	return &CommentHandler{Comments: c, News: n}
}

type commentReq struct {
	Content  string  `json:"content"`
	ParentID *uint64 `json:"parent_id"`
}

// ListByNews handles GET /api/news/:id/comments: top-level comments, newest
// first.
func (h *CommentHandler) ListByNews(c echo.Context) error {
	newsID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.News.GetByID(c.Request().Context(), newsID); err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	p := getPage(c)
	items, total, err := h.Comments.ListByNews(c.Request().Context(), newsID, p.limit, p.offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "pagination": newPagination(total, p)})
}

// Replies handles GET /api/comments/:id/replies, oldest first.
func (h *CommentHandler) Replies(c echo.Context) error {
	parentID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Comments.GetByID(c.Request().Context(), parentID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	p := getPage(c)
	items, total, err := h.Comments.ListReplies(c.Request().Context(), parentID, p.limit, p.offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "pagination": newPagination(total, p)})
}

// Create handles POST /api/news/:id/comments.  Commenting is limited to
// published articles; replies must target a top-level comment on the same
// article.
func (h *CommentHandler) Create(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	newsID, okID := paramID(c, "id")
	if !okID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	n, err := h.News.GetByID(c.Request().Context(), newsID)
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !n.IsPublished {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "News not found"})
	}

	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}
	if req.ParentID != nil {
		parent, err := h.Comments.GetByID(c.Request().Context(), *req.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrCommentNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "Comment not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if parent.NewsID != newsID || parent.ParentID != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid parent comment"})
		}
	}

	cm := &model.Comment{
		NewsID:   newsID,
		UserID:   u.ID,
		ParentID: req.ParentID,
		Content:  content,
	}
	if err := h.Comments.Create(c.Request().Context(), cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create comment"})
	}
	return c.JSON(http.StatusCreated, cm)
}

// Update handles PUT /api/comments/:id.  Only the author may edit; admins
// can delete but not rewrite other users' words.
func (h *CommentHandler) Update(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	id, okID := paramID(c, "id")
	if !okID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cm, err := h.Comments.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if cm.UserID != u.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Insufficient permissions"})
	}

	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}
	if err := h.Comments.UpdateContent(c.Request().Context(), id, content); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	cm.Content = content
	cm.IsEdited = true
	return c.JSON(http.StatusOK, cm)
}

// Delete handles DELETE /api/comments/:id: author or admin.  The row is
// soft-deleted so reply threads keep their shape.
func (h *CommentHandler) Delete(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	id, okID := paramID(c, "id")
	if !okID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cm, err := h.Comments.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !auth.CanModify(u.ID, u.AccountType, cm.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Insufficient permissions"})
	}
	if err := h.Comments.SoftDelete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
