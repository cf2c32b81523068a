package validation

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"DueReportSaas/api/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUserIDFromJSON(t *testing.T) {
	body := `{"user_id":"u-42","other":1}`
	r := httptest.NewRequest(http.MethodPost, "/report/preview", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	id, err := ExtractUserID(r)
	require.NoError(t, err)
	assert.Equal(t, "u-42", id)

	rest, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(rest))
}

func TestExtractUserIDFromMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("user_id", "u-7"))
	fw, err := mw.CreateFormFile("files", "ledger.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Date,Interest,Nature\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/report/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	id, err := ExtractUserID(r)
	require.NoError(t, err)
	assert.Equal(t, "u-7", id)
	require.NotNil(t, r.MultipartForm)
	assert.Len(t, r.MultipartForm.File["files"], 1)
}

func TestExtractUserIDFromQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/report/notifications?user_id=u-1", nil)
	id, err := ExtractUserID(r)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id)
}

func TestExtractUserIDMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/report/notifications", nil)
	_, err := ExtractUserID(r)
	assert.Error(t, err)
}

func TestValidateSession(t *testing.T) {
	svc := auth.NewAuthService(nil, 0, time.Hour)
	auth.SetGlobalAuthService(svc)
	defer auth.SetGlobalAuthService(nil)

	assert.Nil(t, ValidateSession("u-1"))
	_, err := svc.OpenSession("u-1", "User One", "one@example.com", "")
	require.NoError(t, err)

	s := ValidateSession("u-1")
	require.NotNil(t, s)
	assert.Equal(t, "one@example.com", s.Email)
	assert.Nil(t, ValidateSession("u-2"))
}

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, checkStatus("Active"))
	assert.NoError(t, checkStatus(""))
	assert.ErrorIs(t, checkStatus("Inactive"), ErrUserInactive)
	assert.ErrorIs(t, checkStatus("locked"), ErrUserInactive)
}
