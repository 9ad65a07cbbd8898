package controllers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reportaxial/reportaxial-api/models"
	"github.com/reportaxial/reportaxial-api/services"
)

func buildMultipartRequest(t *testing.T, url, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req, _ := http.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadAttachmentEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	seed := seedControllerPortal(t, db)
	ac := NewAttachmentController(services.NewProblemService(db))

	mock := services.NewMockAttachmentService()
	mock.SetAsMockForTesting()
	defer services.SetAttachmentService(nil)

	t.Run("store uploads a photo", func(t *testing.T) {
		mock.Clear()
		problem := seedControllerProblem(t, db, seed.store.ID, models.StatusPending)

		router := setupTestRouter()
		router.POST("/problems/:id/attachment", mockAuthMiddleware(seed.storeUser.ID, models.RoleStore), ac.Upload)

		req := buildMultipartRequest(t, fmt.Sprintf("/problems/%d/attachment", problem.ID), "broken-glass.jpg", []byte("fake jpeg bytes"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		data := decodeBody(t, w)["data"].(map[string]interface{})
		assert.NotEmpty(t, data["attachment_s3_key"])
		assert.Contains(t, data["attachment_url"], "mock=true")

		var updated models.Problem
		db.First(&updated, problem.ID)
		assert.NotNil(t, updated.AttachmentS3Key)
		assert.True(t, mock.AttachmentExists(*updated.AttachmentS3Key))
	})

	t.Run("replacing an attachment deletes the old object", func(t *testing.T) {
		mock.Clear()
		problem := seedControllerProblem(t, db, seed.store.ID, models.StatusPending)

		router := setupTestRouter()
		router.POST("/problems/:id/attachment", mockAuthMiddleware(seed.storeUser.ID, models.RoleStore), ac.Upload)

		req := buildMultipartRequest(t, fmt.Sprintf("/problems/%d/attachment", problem.ID), "first.png", []byte("first"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		var afterFirst models.Problem
		db.First(&afterFirst, problem.ID)
		firstKey := *afterFirst.AttachmentS3Key

		req = buildMultipartRequest(t, fmt.Sprintf("/problems/%d/attachment", problem.ID), "second.png", []byte("second"))
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		var afterSecond models.Problem
		db.First(&afterSecond, problem.ID)
		assert.NotEqual(t, firstKey, *afterSecond.AttachmentS3Key)
		assert.False(t, mock.AttachmentExists(firstKey))
		assert.True(t, mock.AttachmentExists(*afterSecond.AttachmentS3Key))
	})

	t.Run("rejects unsupported file type", func(t *testing.T) {
		problem := seedControllerProblem(t, db, seed.store.ID, models.StatusPending)

		router := setupTestRouter()
		router.POST("/problems/:id/attachment", mockAuthMiddleware(seed.storeUser.ID, models.RoleStore), ac.Upload)

		req := buildMultipartRequest(t, fmt.Sprintf("/problems/%d/attachment", problem.ID), "malware.exe", []byte("nope"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, decodeBody(t, w), "INVALID_INPUT")
	})

	t.Run("missing file field", func(t *testing.T) {
		problem := seedControllerProblem(t, db, seed.store.ID, models.StatusPending)

		router := setupTestRouter()
		router.POST("/problems/:id/attachment", mockAuthMiddleware(seed.storeUser.ID, models.RoleStore), ac.Upload)

		req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/problems/%d/attachment", problem.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("other store cannot attach", func(t *testing.T) {
		problem := seedControllerProblem(t, db, seed.store.ID, models.StatusPending)

		router := setupTestRouter()
		router.POST("/problems/:id/attachment", mockAuthMiddleware(seed.otherUser.ID, models.RoleStore), ac.Upload)

		req := buildMultipartRequest(t, fmt.Sprintf("/problems/%d/attachment", problem.ID), "photo.jpg", []byte("bytes"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assertErrorCode(t, decodeBody(t, w), "FORBIDDEN")
	})
}
