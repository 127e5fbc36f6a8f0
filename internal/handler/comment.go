package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/engine"
	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// CommentHandler serves thread comments and the like toggle. A comment
// targets one thread through (ref_type, ref_id).
type CommentHandler struct {
	Comments *repository.CommentRepo
	Engine   *engine.Engine
}

func NewCommentHandler(comments *repository.CommentRepo, e *engine.Engine) *CommentHandler {
	if comments == nil || e == nil {
		panic("nil dependency passed to NewCommentHandler")
	}
	return &CommentHandler{Comments: comments, Engine: e}
}

type commentBody struct {
	Content string `json:"content"`
	RefType string `json:"ref_type"`
	RefID   uint64 `json:"ref_id"`
}

func (h *CommentHandler) Create(c echo.Context) error {
	var body commentBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	refType, ok := model.ParseRefType(body.RefType)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ref_type must be INQUIRY, FEEDBACK or NOTICE"})
	}
	if body.Content == "" || body.RefID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content and ref_id are required"})
	}

	cm := model.Comment{
		Content:  body.Content,
		AuthorID: principal(c).UserID,
		RefType:  refType,
		RefID:    body.RefID,
	}
	if err := h.Comments.Create(c.Request().Context(), &cm); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, commentView(&cm))
}

// ListForThread returns the comments of one thread, oldest first.
func (h *CommentHandler) ListForThread(c echo.Context) error {
	refType, ok := model.ParseRefType(c.QueryParam("ref_type"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ref_type must be INQUIRY, FEEDBACK or NOTICE"})
	}
	refID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid thread id"})
	}
	list, err := h.Comments.ListForThread(c.Request().Context(), refType, refID)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	views := make([]echo.Map, 0, len(list))
	for _, cm := range list {
		views = append(views, commentView(cm))
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": views})
}

type commentUpdateBody struct {
	Content string `json:"content"`
}

func (h *CommentHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	var body commentUpdateBody
	if err := c.Bind(&body); err != nil || body.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}
	err := h.Comments.UpdateByAuthor(c.Request().Context(), id, principal(c).UserID, body.Content)
	switch {
	case errors.Is(err, repository.ErrCommentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your comment"})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike flips the caller's like mark on a comment and reports the
// new state.
func (h *CommentHandler) ToggleLike(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	liked, err := h.Comments.ToggleLike(c.Request().Context(), id, principal(c).UserID)
	if errors.Is(err, repository.ErrCommentNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

func (h *CommentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	if _, err := h.Engine.DeleteRoot(c.Request().Context(), principal(c), engine.RootComment, id); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func commentView(cm *model.Comment) echo.Map {
	return echo.Map{
		"id":         cm.ID,
		"content":    cm.Content,
		"author_id":  cm.AuthorID,
		"ref_type":   cm.RefType,
		"ref_id":     cm.RefID,
		"likes":      cm.Likes,
		"created_at": cm.CreatedAt,
		"updated_at": cm.UpdatedAt,
	}
}
