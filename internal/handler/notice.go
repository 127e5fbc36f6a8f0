package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/engine"
	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// NoticeHandler serves staff announcements. Deletion goes through the
// integrity engine so the cascade policy lives in one place.
type NoticeHandler struct {
	Notices *repository.NoticeRepo
	Engine  *engine.Engine
}

func NewNoticeHandler(notices *repository.NoticeRepo, e *engine.Engine) *NoticeHandler {
	if notices == nil || e == nil {
		panic("nil dependency passed to NewNoticeHandler")
	}
	return &NoticeHandler{Notices: notices, Engine: e}
}

type noticeBody struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

func (h *NoticeHandler) Create(c echo.Context) error {
	var body noticeBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Title == "" || body.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
	}
	n := model.Notice{
		Title:     body.Title,
		Category:  body.Category,
		Content:   body.Content,
		CreatorID: principal(c).UserID,
	}
	if err := h.Notices.Create(c.Request().Context(), &n); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, noticeView(&n))
}

func (h *NoticeHandler) List(c echo.Context) error {
	notices, err := h.Notices.List(c.Request().Context())
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	views := make([]echo.Map, 0, len(notices))
	for _, n := range notices {
		views = append(views, noticeView(n))
	}
	return c.JSON(http.StatusOK, echo.Map{"notices": views})
}

func (h *NoticeHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notice id"})
	}
	n, err := h.Notices.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNoticeNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "notice not found"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, noticeView(n))
}

func (h *NoticeHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notice id"})
	}
	var body noticeBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err := h.Notices.Update(c.Request().Context(), id, body.Title, body.Category, body.Content)
	if errors.Is(err, repository.ErrNoticeNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "notice not found"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NoticeHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notice id"})
	}
	if _, err := h.Engine.DeleteRoot(c.Request().Context(), principal(c), engine.RootNotice, id); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func noticeView(n *model.Notice) echo.Map {
	return echo.Map{
		"id":         n.ID,
		"title":      n.Title,
		"category":   n.Category,
		"content":    n.Content,
		"creator_id": n.CreatorID,
		"created_at": n.CreatedAt,
		"updated_at": n.UpdatedAt,
	}
}
