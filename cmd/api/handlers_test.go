package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sublingo/sublingo/internal/logging"
)

func TestUploadVideoRequiresFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	api := &API{logger: logging.NewNop()}
	router := gin.New()
	router.POST("/upload", api.uploadVideo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/upload", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No video file provided")
}

func TestProcessVideoValidatesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	api := &API{logger: logging.NewNop()}
	router := gin.New()
	router.POST("/videos/:id/process", api.processVideo)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing language", `{"burn": true}`},
		{"malformed json", `{"language":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/videos/abc/process", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandlersValidateBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &AuthHandlers{logger: logging.NewNop()}
	router := gin.New()
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/reset-password", h.resetPassword)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"register without email", "/register", `{"password": "longenough"}`},
		{"register short password", "/register", `{"email": "a@b.com", "password": "short"}`},
		{"register invalid email", "/register", `{"email": "not-an-email", "password": "longenough"}`},
		{"login without password", "/login", `{"email": "a@b.com"}`},
		{"reset without token", "/reset-password", `{"new_password": "longenough"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
