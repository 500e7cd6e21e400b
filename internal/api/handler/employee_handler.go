package handler

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
)

//go:embed assets/default_avatar.png
var defaultAvatar []byte

const (
	dateLayout    = "2006-01-02"
	maxAvatarSize = 2 << 20
)

// EmployeeHandler serves employee records and their avatars.
type EmployeeHandler struct {
	service ports.EmployeeService
	now     func() time.Time
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service, now: time.Now}
}

// employeeRequest is accepted as JSON or as multipart form fields next to an
// optional "avatar" file.
type employeeRequest struct {
	FirstName   string `json:"firstName" form:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" form:"lastName" validate:"required,max=100"`
	Username    string `json:"username" form:"username" validate:"required,max=100"`
	DateOfBirth string `json:"dateOfBirth" form:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Specialty   string `json:"specialty" form:"specialty" validate:"required,max=100"`
	HireDate    string `json:"hireDate" form:"hireDate" validate:"required,datetime=2006-01-02"`
	Version     int    `json:"version" form:"version"`
}

type employeeResponse struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	FullName    string `json:"fullName"`
	Username    string `json:"username"`
	DateOfBirth string `json:"dateOfBirth"`
	Age         int    `json:"age"`
	Specialty   string `json:"specialty"`
	HireDate    string `json:"hireDate"`
	HasAvatar   bool   `json:"hasAvatar"`
	AvatarURL   string `json:"avatarUrl"`
	Version     int    `json:"version"`
}

func (h *EmployeeHandler) toResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		FullName:    e.FullName(),
		Username:    e.Username,
		DateOfBirth: e.DateOfBirth.Format(dateLayout),
		Age:         e.AgeAt(h.now()),
		Specialty:   e.Specialty,
		HireDate:    e.HireDate.Format(dateLayout),
		HasAvatar:   e.HasAvatar(),
		AvatarURL:   fmt.Sprintf("/employees/%d/avatar", e.ID),
		Version:     e.Version,
	}
}

// List returns employees filtered by ?searchName and ?searchSpecialty.
func (h *EmployeeHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), domain.EmployeeFilter{
		Name:      strings.TrimSpace(c.QueryParam("searchName")),
		Specialty: strings.TrimSpace(c.QueryParam("searchSpecialty")),
	})
	if err != nil {
		return err
	}
	out := make([]employeeResponse, 0, len(items))
	for i := range items {
		out = append(out, h.toResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	e, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.toResponse(e))
}

func (h *EmployeeHandler) Create(c echo.Context) error {
	in, err := h.bindInput(c)
	if err != nil {
		return err
	}
	e, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.toResponse(e))
}

// Update saves changes guarded by the submitted version. A request without an
// avatar file keeps the stored one.
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	in, err := h.bindInput(c)
	if err != nil {
		return err
	}
	e, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.toResponse(e))
}

func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Avatar streams the stored image, or the default one when the employee has
// none or does not exist.
func (h *EmployeeHandler) Avatar(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	data, contentType, err := h.service.Avatar(c.Request().Context(), id)
	if err != nil && !errors.Is(err, domain.ErrEmployeeNotFound) {
		return err
	}
	if len(data) == 0 {
		return c.Blob(http.StatusOK, "image/png", defaultAvatar)
	}
	return c.Blob(http.StatusOK, contentType, data)
}

func (h *EmployeeHandler) bindInput(c echo.Context) (ports.EmployeeInput, error) {
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return ports.EmployeeInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.EmployeeInput{}, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	// Both already passed the datetime rule.
	dob, _ := time.Parse(dateLayout, req.DateOfBirth)
	hired, _ := time.Parse(dateLayout, req.HireDate)

	in := ports.EmployeeInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Username:    req.Username,
		DateOfBirth: dob,
		Specialty:   req.Specialty,
		HireDate:    hired,
		Version:     req.Version,
	}

	data, contentType, err := readAvatar(c)
	if err != nil {
		return ports.EmployeeInput{}, err
	}
	in.Avatar, in.AvatarType = data, contentType
	return in, nil
}

// readAvatar returns the uploaded "avatar" file of a multipart request, if
// any. Only images up to maxAvatarSize are accepted.
func readAvatar(c echo.Context) ([]byte, string, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, "", nil
	}
	fh, err := c.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "invalid avatar upload")
	}
	if fh.Size > maxAvatarSize {
		return nil, "", fmt.Errorf("%w: avatar exceeds %d bytes", domain.ErrValidation, maxAvatarSize)
	}
	contentType := fh.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("%w: avatar must be an image", domain.ErrValidation)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxAvatarSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read avatar: %w", err)
	}
	if len(data) > maxAvatarSize {
		return nil, "", fmt.Errorf("%w: avatar exceeds %d bytes", domain.ErrValidation, maxAvatarSize)
	}
	return data, contentType, nil
}
