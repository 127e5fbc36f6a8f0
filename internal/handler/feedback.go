package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/engine"
	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// FeedbackHandler serves member suggestion threads.
type FeedbackHandler struct {
	Feedback *repository.FeedbackRepo
	Engine   *engine.Engine
}

func NewFeedbackHandler(feedback *repository.FeedbackRepo, e *engine.Engine) *FeedbackHandler {
	if feedback == nil || e == nil {
		panic("nil dependency passed to NewFeedbackHandler")
	}
	return &FeedbackHandler{Feedback: feedback, Engine: e}
}

type feedbackBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *FeedbackHandler) Create(c echo.Context) error {
	var body feedbackBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Title == "" || body.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
	}
	f := model.Feedback{
		Title:     body.Title,
		Content:   body.Content,
		CreatorID: principal(c).UserID,
	}
	if err := h.Feedback.Create(c.Request().Context(), &f); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, feedbackView(&f))
}

func (h *FeedbackHandler) List(c echo.Context) error {
	list, err := h.Feedback.List(c.Request().Context())
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	views := make([]echo.Map, 0, len(list))
	for _, f := range list {
		views = append(views, feedbackView(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"feedback": views})
}

func (h *FeedbackHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid feedback id"})
	}
	f, err := h.Feedback.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrFeedbackNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "feedback not found"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, feedbackView(f))
}

func (h *FeedbackHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid feedback id"})
	}
	var body feedbackBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err := h.Feedback.UpdateByCreator(c.Request().Context(), id, principal(c).UserID,
		body.Title, body.Content)
	switch {
	case errors.Is(err, repository.ErrFeedbackNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "feedback not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your feedback"})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FeedbackHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid feedback id"})
	}
	if _, err := h.Engine.DeleteRoot(c.Request().Context(), principal(c), engine.RootFeedback, id); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func feedbackView(f *model.Feedback) echo.Map {
	return echo.Map{
		"id":         f.ID,
		"title":      f.Title,
		"content":    f.Content,
		"creator_id": f.CreatorID,
		"created_at": f.CreatedAt,
		"updated_at": f.UpdatedAt,
	}
}
