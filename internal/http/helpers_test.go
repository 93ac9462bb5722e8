package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/imgpdf/internal/converter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubEncoder returns a fake PDF listing the base names it was given.
type stubEncoder struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (s *stubEncoder) Encode(_ context.Context, paths []string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, append([]string(nil), paths...))
	if s.err != nil {
		return nil, s.err
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return []byte("%PDF-stub\n" + strings.Join(names, "\n")), nil
}

func (s *stubEncoder) lastCall() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return nil
	}
	return s.calls[len(s.calls)-1]
}

type uploadPart struct {
	name    string
	content string
}

func multipartBody(t *testing.T, field string, parts ...uploadPart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, p := range parts {
		w, err := writer.CreateFormFile(field, p.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(p.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRespondBadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondBadRequest(c, "input directory is required")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "input directory is required", resp.Error)
	assert.Equal(t, CodeInvalidInput, resp.Code)
}

func TestRespondConversionError_InvalidInput(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := fmt.Errorf("%w: directory '/nope' does not exist", converter.ErrInvalidInput)
	respondConversionError(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Contains(t, resp.Error, "does not exist")
	assert.Equal(t, CodeInvalidInput, resp.Code)
}

func TestRespondConversionError_Failure(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := fmt.Errorf("%w: encoding images: %w", converter.ErrConversionFailed, errors.New("corrupt image"))
	respondConversionError(c, err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Contains(t, resp.Error, "corrupt image")
	assert.Equal(t, CodeConversionFailed, resp.Code)
}

func TestRespondConversionError_UnclassifiedIsServerError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondConversionError(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
