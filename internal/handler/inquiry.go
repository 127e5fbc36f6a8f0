package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/engine"
	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// InquiryHandler serves member Q&A threads.
type InquiryHandler struct {
	Inquiries *repository.InquiryRepo
	Engine    *engine.Engine
}

func NewInquiryHandler(inquiries *repository.InquiryRepo, e *engine.Engine) *InquiryHandler {
	if inquiries == nil || e == nil {
		panic("nil dependency passed to NewInquiryHandler")
	}
	return &InquiryHandler{Inquiries: inquiries, Engine: e}
}

type inquiryBody struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

func (h *InquiryHandler) Create(c echo.Context) error {
	var body inquiryBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Title == "" || body.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
	}
	q := model.Inquiry{
		Title:     body.Title,
		Category:  body.Category,
		Content:   body.Content,
		CreatorID: principal(c).UserID,
	}
	if err := h.Inquiries.Create(c.Request().Context(), &q); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, inquiryView(&q))
}

func (h *InquiryHandler) List(c echo.Context) error {
	list, err := h.Inquiries.List(c.Request().Context())
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	views := make([]echo.Map, 0, len(list))
	for _, q := range list {
		views = append(views, inquiryView(q))
	}
	return c.JSON(http.StatusOK, echo.Map{"inquiries": views})
}

func (h *InquiryHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inquiry id"})
	}
	q, err := h.Inquiries.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrInquiryNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "inquiry not found"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, inquiryView(q))
}

// Update is creator-only; staff edit through deletion and reposting.
func (h *InquiryHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inquiry id"})
	}
	var body inquiryBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err := h.Inquiries.UpdateByCreator(c.Request().Context(), id, principal(c).UserID,
		body.Title, body.Category, body.Content)
	switch {
	case errors.Is(err, repository.ErrInquiryNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "inquiry not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your inquiry"})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InquiryHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inquiry id"})
	}
	if _, err := h.Engine.DeleteRoot(c.Request().Context(), principal(c), engine.RootInquiry, id); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func inquiryView(q *model.Inquiry) echo.Map {
	return echo.Map{
		"id":         q.ID,
		"title":      q.Title,
		"category":   q.Category,
		"content":    q.Content,
		"creator_id": q.CreatorID,
		"created_at": q.CreatedAt,
		"updated_at": q.UpdatedAt,
	}
}
