package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "roster/internal/domain/errors"
	"roster/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestErrorMiddleware() *ErrorMiddleware {
	return NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func recordError(t *testing.T, err error) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	newTestErrorMiddleware().HandleHTTPError(err, c)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec, resp
}

func TestHandleHTTPError_AppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "not found", err: domainerrors.ErrAccountNotFound, wantCode: http.StatusNotFound, wantErr: "ACCOUNT_NOT_FOUND"},
		{name: "duplicate email", err: domainerrors.ErrEmailTaken, wantCode: http.StatusConflict, wantErr: "EMAIL_TAKEN"},
		{name: "invalid credentials", err: domainerrors.ErrInvalidCredentials, wantCode: http.StatusUnauthorized, wantErr: "INVALID_CREDENTIALS"},
		{name: "validation", err: domainerrors.ErrValidationFailed, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_FAILED"},
		{name: "storage unavailable", err: domainerrors.ErrStorageUnavailable, wantCode: http.StatusServiceUnavailable, wantErr: "STORAGE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := recordError(t, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestHandleHTTPError_WrappedAppError(t *testing.T) {
	wrapped := errors.Wrap(domainerrors.ErrEmailTaken.WrapMessage("email already exists"), "registration failed")

	rec, resp := recordError(t, wrapped)

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMAIL_TAKEN", resp.Error.Code)
}

func TestHandleHTTPError_UnknownErrorStaysGeneric(t *testing.T) {
	rec, resp := recordError(t, errors.New("pq: connection exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, rec.Body.String(), "connection exploded")
}

func TestHandleHTTPError_EchoHTTPError(t *testing.T) {
	rec, resp := recordError(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "HTTP_ERROR", resp.Error.Code)
}
