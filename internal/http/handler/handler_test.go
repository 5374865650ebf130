package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/OnteruYallaiah21/Getiva-app/internal/auth"
	"github.com/OnteruYallaiah21/Getiva-app/internal/http/middleware"
	"github.com/OnteruYallaiah21/Getiva-app/internal/model"
	"github.com/OnteruYallaiah21/Getiva-app/internal/service"
	serviceMocks "github.com/OnteruYallaiah21/Getiva-app/internal/service/mocks"
)

// asUser seeds the session locals the way middleware.RequireUser does, so
// handlers can be tested in isolation.
func asUser(username, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UsernameLocalKey, username)
		c.Locals(middleware.RoleLocalKey, role)
		return c.Next()
	}
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	signer := auth.NewTokenSigner([]byte("test-secret"), time.Hour)
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Post("/login", Login(mockSvc, signer))

	t.Run("success returns a parseable token", func(t *testing.T) {
		mockSvc.On("Verify", mock.Anything, "demo", "secret").
			Return(&model.User{Username: "demo", Role: model.RoleUser}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"username":"demo","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body loginResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "demo", body.Username)
		assert.Equal(t, model.RoleUser, body.Role)

		sess, err := signer.Parse(body.Token)
		require.NoError(t, err)
		assert.Equal(t, "demo", sess.Username)
		mockSvc.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockSvc.On("Verify", mock.Anything, "demo", "nope").
			Return(nil, service.ErrInvalidCredentials).Once()

		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"username":"demo","password":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"username":"demo"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "CREDENTIALS_REQUIRED", body.Error.Code)
	})
}

func TestListApplications(t *testing.T) {
	mockSvc := new(serviceMocks.MockApplicationService)
	app := fiber.New()
	app.Get("/applications", asUser("demo", model.RoleUser), ListApplications(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "demo", 10, 0).
			Return(&service.ApplicationListResult{
				Items: []model.Application{{ID: 2, Company: "Acme"}, {ID: 1, Company: "Globex"}},
				Total: 2,
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/applications?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Applications []model.Application `json:"applications"`
			Total        int                 `json:"total"`
			Username     string              `json:"username"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Len(t, body.Applications, 2)
		assert.Equal(t, 2, body.Total)
		assert.Equal(t, "demo", body.Username)
		mockSvc.AssertExpectations(t)
	})

	t.Run("default limit requests whole collection", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "demo", 0, 0).
			Return(&service.ApplicationListResult{Items: []model.Application{}, Total: 0}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/applications", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/applications?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_LIMIT", body.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "demo", 0, 0).
			Return(nil, errors.New("io fail")).Once()

		req := httptest.NewRequest(http.MethodGet, "/applications", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateApplication(t *testing.T) {
	mockSvc := new(serviceMocks.MockApplicationService)
	app := fiber.New()
	app.Post("/applications", asUser("demo", model.RoleUser), CreateApplication(mockSvc))

	t.Run("success with file", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"company":        "Acme",
			"jobdescription": "SWE",
		}, "resume.pdf", []byte("%PDF"))

		mockSvc.On("Create", mock.Anything, "demo", mock.MatchedBy(func(in service.CreateApplicationInput) bool {
			return in.Company == "Acme" && in.File != nil && in.File.Filename == "resume.pdf"
		})).Return(&model.Application{ID: 1, Company: "Acme", Status: model.StatusApplied}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/applications", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Application
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 1, result.ID)
		assert.Equal(t, model.StatusApplied, result.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("success without file", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"company": "Globex"}, "", nil)

		mockSvc.On("Create", mock.Anything, "demo", mock.MatchedBy(func(in service.CreateApplicationInput) bool {
			return in.Company == "Globex" && in.File == nil
		})).Return(&model.Application{ID: 2, Company: "Globex"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/applications", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("blank company", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"company": ""}, "", nil)

		mockSvc.On("Create", mock.Anything, "demo", mock.Anything).
			Return(nil, service.ErrCompanyRequired).Once()

		req := httptest.NewRequest(http.MethodPost, "/applications", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "COMPANY_REQUIRED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"company": "Acme"}, "virus.exe", []byte("x"))

		mockSvc.On("Create", mock.Anything, "demo", mock.Anything).
			Return(nil, service.ErrFileType).Once()

		req := httptest.NewRequest(http.MethodPost, "/applications", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_TYPE_NOT_ALLOWED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestUpdateApplication(t *testing.T) {
	mockSvc := new(serviceMocks.MockApplicationService)
	app := fiber.New()
	app.Put("/applications/:id", asUser("demo", model.RoleUser), UpdateApplication(mockSvc))

	t.Run("partial update only touches present fields", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"status": "interview"}, "", nil)

		mockSvc.On("Update", mock.Anything, "demo", 3, mock.MatchedBy(func(in service.UpdateApplicationInput) bool {
			return in.Company == nil && in.Status != nil && *in.Status == "interview" && in.File == nil
		})).Return(&model.Application{ID: 3, Status: "interview"}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/applications/3", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Application
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "interview", result.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("replacement file", func(t *testing.T) {
		body, contentType := multipartBody(t, nil, "cv.docx", []byte("x"))

		mockSvc.On("Update", mock.Anything, "demo", 3, mock.MatchedBy(func(in service.UpdateApplicationInput) bool {
			return in.File != nil && in.File.Filename == "cv.docx"
		})).Return(&model.Application{ID: 3, Filename: "cv.docx"}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/applications/3", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"status": "offer"}, "", nil)

		mockSvc.On("Update", mock.Anything, "demo", 99, mock.Anything).
			Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/applications/99", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"status": "offer"}, "", nil)

		req := httptest.NewRequest(http.MethodPut, "/applications/abc", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})
}

func TestDeleteApplication(t *testing.T) {
	mockSvc := new(serviceMocks.MockApplicationService)
	app := fiber.New()
	app.Delete("/applications/:id", asUser("demo", model.RoleUser), DeleteApplication(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "demo", 1).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/applications/1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "demo", 42).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/applications/42", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestAdminListApplications(t *testing.T) {
	mockSvc := new(serviceMocks.MockApplicationService)
	app := fiber.New()
	app.Get("/admin/applications/:username", asUser("admin", model.RoleAdmin), AdminListApplications(mockSvc))

	mockSvc.On("List", mock.Anything, "alice", 0, 0).
		Return(&service.ApplicationListResult{
			Items: []model.Application{{ID: 1, Company: "Acme"}},
			Total: 1,
		}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/admin/applications/alice", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Username string `json:"username"`
		Total    int    `json:"total"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "alice", body.Username)
	assert.Equal(t, 1, body.Total)
	mockSvc.AssertExpectations(t)
}

func TestUserHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	admin := app.Group("/admin", asUser("admin", model.RoleAdmin))
	admin.Get("/users", ListUsers(mockSvc))
	admin.Post("/users", CreateUser(mockSvc))
	admin.Put("/users/:username", UpdateUser(mockSvc))
	admin.Delete("/users/:username", DeleteUser(mockSvc))

	t.Run("list", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).
			Return([]model.User{{Username: "admin", Role: model.RoleAdmin}, {Username: "demo", Role: model.RoleUser}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Users []model.User `json:"users"`
			Total int          `json:"total"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Len(t, body.Users, 2)
		assert.Equal(t, 2, body.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("create", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, "alice", "pw123", "user").
			Return(&model.User{Username: "alice", Role: model.RoleUser}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/admin/users",
			strings.NewReader(`{"username":"alice","password":"pw123","role":"user"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("create duplicate", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, "alice", "pw123", "").
			Return(nil, service.ErrUserExists).Once()

		req := httptest.NewRequest(http.MethodPost, "/admin/users",
			strings.NewReader(`{"username":"alice","password":"pw123"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "USERNAME_TAKEN", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("update", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, "alice", mock.Anything, mock.Anything).
			Return(&model.User{Username: "alice", Role: model.RoleAdmin}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/admin/users/alice",
			strings.NewReader(`{"role":"admin"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("delete", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "alice").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/admin/users/alice", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("delete unknown", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "ghost").Return(service.ErrUserNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/admin/users/ghost", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	signer := auth.NewTokenSigner([]byte("test-secret"), time.Hour)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockApps := new(serviceMocks.MockApplicationService)
	mockUsers := new(serviceMocks.MockUserService)
	RegisterRoutes(app, db, signer, mockApps, mockUsers)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/applications", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "UNAUTHORIZED", res.Error.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/applications", nil)
		req.Header.Set("Authorization", "Bearer not-a-real-token")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("non-admin session on admin route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+signer.Issue("demo", model.RoleUser))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FORBIDDEN", res.Error.Code)
	})

	t.Run("valid session reaches the handler", func(t *testing.T) {
		mockApps.On("List", mock.Anything, "demo", 0, 0).
			Return(&service.ApplicationListResult{Items: []model.Application{}, Total: 0}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/applications", nil)
		req.Header.Set("Authorization", "Bearer "+signer.Issue("demo", model.RoleUser))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockApps.AssertExpectations(t)
	})
}
