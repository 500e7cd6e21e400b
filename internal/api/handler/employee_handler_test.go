package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staffboard/todo-system/internal/core/domain"
)

func seededEmployees() *stubEmployeeService {
	return &stubEmployeeService{employees: map[uint]*domain.Employee{
		1: {
			ID:          1,
			FirstName:   "Ivan",
			LastName:    "Ivanov",
			Username:    "ivanov",
			DateOfBirth: time.Date(1990, time.May, 15, 0, 0, 0, 0, time.UTC),
			Specialty:   "Developer",
			HireDate:    time.Date(2020, time.January, 10, 0, 0, 0, 0, time.UTC),
			Avatar:      []byte{0xff, 0xd8, 0xff},
			AvatarType:  "image/jpeg",
			Version:     3,
		},
		2: {ID: 2, FirstName: "Maria", LastName: "Petrova", Username: "petrova", Specialty: "Designer"},
	}}
}

func newEmployeeHandler(svc *stubEmployeeService) *EmployeeHandler {
	h := NewEmployeeHandler(svc)
	h.now = func() time.Time { return time.Date(2025, time.May, 14, 12, 0, 0, 0, time.UTC) }
	return h
}

func TestEmployeeHandler_Get(t *testing.T) {
	h := newEmployeeHandler(seededEmployees())

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/employees/1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	var body employeeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Age != 34 {
		t.Fatalf("expected age 34 the day before the birthday, got %d", body.Age)
	}
	if body.FullName != "Ivan Ivanov" || !body.HasAvatar || body.DateOfBirth != "1990-05-15" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestEmployeeHandler_Get_NotFoundAndBadID(t *testing.T) {
	h := newEmployeeHandler(seededEmployees())
	e := newEcho()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/employees/99", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("99")
	if err := h.Get(c); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/employees/abc", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")
	var he *echo.HTTPError
	if err := h.Get(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestEmployeeHandler_List_PassesFilters(t *testing.T) {
	svc := seededEmployees()
	h := newEmployeeHandler(svc)

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/employees?searchName=iva&searchSpecialty=Dev", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if svc.listed.Name != "iva" || svc.listed.Specialty != "Dev" {
		t.Fatalf("unexpected filter %+v", svc.listed)
	}
	var body []employeeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(body))
	}
}

func multipartEmployee(t *testing.T, withAvatar bool, avatarType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"firstName":   "Olga",
		"lastName":    "Kuznetsova",
		"username":    "kuznetsova",
		"dateOfBirth": "1995-02-28",
		"specialty":   "QA",
		"hireDate":    "2023-06-01",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withAvatar {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="avatar"; filename="olga.png"`)
		hdr.Set("Content-Type", avatarType)
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write([]byte("\x89PNG fake"))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestEmployeeHandler_Create_MultipartWithAvatar(t *testing.T) {
	svc := seededEmployees()
	h := newEmployeeHandler(svc)

	body, contentType := multipartEmployee(t, true, "image/png")
	req := httptest.NewRequest(http.MethodPost, "/employees", body)
	req.Header.Set(echo.HeaderContentType, contentType)

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	in := svc.created
	if in == nil || in.Username != "kuznetsova" || in.AvatarType != "image/png" || string(in.Avatar) != "\x89PNG fake" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if !in.DateOfBirth.Equal(time.Date(1995, time.February, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date of birth %v", in.DateOfBirth)
	}
}

func TestEmployeeHandler_Create_RejectsNonImageAvatar(t *testing.T) {
	svc := seededEmployees()
	h := newEmployeeHandler(svc)

	body, contentType := multipartEmployee(t, true, "application/pdf")
	req := httptest.NewRequest(http.MethodPost, "/employees", body)
	req.Header.Set(echo.HeaderContentType, contentType)

	e := newEcho()
	c := e.NewContext(req, httptest.NewRecorder())

	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if svc.created != nil {
		t.Fatal("service must not be called")
	}
}

func TestEmployeeHandler_Create_InvalidDate(t *testing.T) {
	h := newEmployeeHandler(seededEmployees())

	e := newEcho()
	req := jsonRequest(http.MethodPost, "/employees",
		`{"firstName":"A","lastName":"B","username":"ab","dateOfBirth":"15/05/1990","specialty":"QA","hireDate":"2020-01-01"}`)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEmployeeHandler_Update_PassesVersion(t *testing.T) {
	svc := seededEmployees()
	svc.updateErr = domain.ErrConcurrencyConflict
	h := newEmployeeHandler(svc)

	e := newEcho()
	req := jsonRequest(http.MethodPut, "/employees/1",
		`{"firstName":"Ivan","lastName":"Ivanov","username":"ivanov","dateOfBirth":"1990-05-15","specialty":"Lead","hireDate":"2020-01-10","version":2}`)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Update(c); !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
	}
	if svc.updated == nil || svc.updated.Version != 2 || svc.updated.Avatar != nil {
		t.Fatalf("unexpected update input: %+v", svc.updated)
	}
}

func TestEmployeeHandler_Delete(t *testing.T) {
	svc := seededEmployees()
	h := newEmployeeHandler(svc)

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/employees/2", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if _, ok := svc.employees[2]; ok {
		t.Fatal("employee 2 should be gone")
	}
}

func TestEmployeeHandler_Avatar(t *testing.T) {
	cases := []struct {
		name        string
		id          string
		contentType string
		body        []byte
	}{
		{"stored image", "1", "image/jpeg", []byte{0xff, 0xd8, 0xff}},
		{"no upload", "2", "image/png", defaultAvatar},
		{"unknown employee", "42", "image/png", defaultAvatar},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newEmployeeHandler(seededEmployees())
			e := newEcho()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/employees/"+tc.id+"/avatar", nil), rec)
			c.SetParamNames("id")
			c.SetParamValues(tc.id)

			if err := h.Avatar(c); err != nil {
				t.Fatalf("Avatar returned error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if ct := rec.Header().Get(echo.HeaderContentType); ct != tc.contentType {
				t.Fatalf("expected content type %s, got %s", tc.contentType, ct)
			}
			if !bytes.Equal(rec.Body.Bytes(), tc.body) {
				t.Fatal("unexpected avatar bytes")
			}
		})
	}
}

func TestDefaultAvatarIsPNG(t *testing.T) {
	if !bytes.HasPrefix(defaultAvatar, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatal("embedded default avatar is not a PNG")
	}
}
