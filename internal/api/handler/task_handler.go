package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
)

// TaskHandler serves tasks and their comment threads.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type taskRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"max=2000"`
	IsCompleted bool   `json:"isCompleted" form:"isCompleted"`
	EmployeeID  uint   `json:"employeeId" form:"employeeId" validate:"required"`
	Version     int    `json:"version" form:"version"`
}

type commentRequest struct {
	Content string `json:"content" form:"content"`
}

// List returns the tasks visible to the caller, filtered by ?searchTitle,
// ?searchDescription and ?isCompleted.
func (h *TaskHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	completed, err := optionalBool(c, "isCompleted")
	if err != nil {
		return err
	}
	tasks, err := h.service.List(c.Request().Context(), p, domain.TaskFilter{
		Title:       strings.TrimSpace(c.QueryParam("searchTitle")),
		Description: strings.TrimSpace(c.QueryParam("searchDescription")),
		IsCompleted: completed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Details(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	details, err := h.service.Details(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

func (h *TaskHandler) AddComment(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	comment, err := h.service.AddComment(c.Request().Context(), p, id, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *TaskHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	in, err := bindTask(c)
	if err != nil {
		return err
	}
	t, err := h.service.Create(c.Request().Context(), p, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TaskHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	in, err := bindTask(c)
	if err != nil {
		return err
	}
	t, err := h.service.Update(c.Request().Context(), p, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindTask(c echo.Context) (ports.TaskInput, error) {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return ports.TaskInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.TaskInput{}, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return ports.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		EmployeeID:  req.EmployeeID,
		Version:     req.Version,
	}, nil
}
