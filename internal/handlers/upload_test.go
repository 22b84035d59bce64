package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, filename string, content []byte) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestUploadAcceptsUppercaseExtension(t *testing.T) {
	dir := t.TempDir()
	h := &UploadHandler{Dir: dir}

	rec, c := multipartRequest(t, "photo.PNG", []byte("fake image bytes"))
	require.NoError(t, h.Store(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Msg string `json:"msg"`
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.URL, "uploads/image-"))
	require.True(t, strings.HasSuffix(resp.URL, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.Base(resp.URL)))
	require.NoError(t, err)
	require.Equal(t, []byte("fake image bytes"), stored)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	h := &UploadHandler{Dir: t.TempDir()}

	// content does not matter, only the extension is checked
	_, c := multipartRequest(t, "payload.exe", []byte("GIF89a pretending"))
	err := h.Store(c)
	require.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestUploadRequiresFile(t *testing.T) {
	h := &UploadHandler{Dir: t.TempDir()}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Store(c)
	require.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}
