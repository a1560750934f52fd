package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roster/internal/delivery/http/validator"
	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	mockUC "roster/internal/mocks/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerFixtures struct {
	e       *echo.Echo
	uc      *mockUC.MockAccountUsecase
	handler *AccountHandler
}

func createTestHandler(t *testing.T) handlerFixtures {
	e := echo.New()
	e.Validator = validator.New()

	uc := mockUC.NewMockAccountUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return handlerFixtures{
		e:       e,
		uc:      uc,
		handler: NewAccountHandler(uc, logger),
	}
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAccountHandler_Register_Success(t *testing.T) {
	fx := createTestHandler(t)

	account := &entity.Account{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$2a$10$secret",
		IsActive:     true,
		CreatedOn:    time.Now(),
	}

	fx.uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(account, nil)

	c, rec := newJSONContext(fx.e, http.MethodPost, "/api/accounts",
		`{"username":"alice","email":"alice@x.com","password":"secret1"}`)

	require.NoError(t, fx.handler.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    *AccountResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "alice", resp.Data.Username)
	assert.Equal(t, "alice@x.com", resp.Data.Email)

	// The hash must never appear in the transport payload.
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	assert.NotContains(t, rec.Body.String(), account.PasswordHash)
}

func TestAccountHandler_Register_ValidationFailure(t *testing.T) {
	fx := createTestHandler(t)

	c, _ := newJSONContext(fx.e, http.MethodPost, "/api/accounts",
		`{"username":"alice","email":"not-an-email","password":"secret1"}`)

	err := fx.handler.Register(c)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAccountHandler_List(t *testing.T) {
	fx := createTestHandler(t)

	accounts := []*entity.Account{
		{ID: uuid.New(), Username: "alice", Email: "alice@x.com"},
		{ID: uuid.New(), Username: "bob", Email: "bob@x.com"},
	}
	fx.uc.EXPECT().List(mock.Anything).Return(accounts, nil)

	c, rec := newJSONContext(fx.e, http.MethodGet, "/api/accounts", "")

	require.NoError(t, fx.handler.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []*AccountResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestAccountHandler_GetByEmail(t *testing.T) {
	fx := createTestHandler(t)

	account := &entity.Account{ID: uuid.New(), Username: "alice", Email: "alice@x.com"}
	fx.uc.EXPECT().GetByEmail(mock.Anything, "alice@x.com").Return(account, nil)

	c, rec := newJSONContext(fx.e, http.MethodGet, "/api/accounts/alice@x.com", "")
	c.SetParamNames("email")
	c.SetParamValues("alice@x.com")

	require.NoError(t, fx.handler.GetByEmail(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountHandler_GetByEmail_NotFound(t *testing.T) {
	fx := createTestHandler(t)

	fx.uc.EXPECT().
		GetByEmail(mock.Anything, "ghost@x.com").
		Return(nil, domainerrors.ErrAccountNotFound.WrapMessage("find account failed"))

	c, _ := newJSONContext(fx.e, http.MethodGet, "/api/accounts/ghost@x.com", "")
	c.SetParamNames("email")
	c.SetParamValues("ghost@x.com")

	err := fx.handler.GetByEmail(c)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountHandler_Update(t *testing.T) {
	fx := createTestHandler(t)

	updated := &entity.Account{ID: uuid.New(), Username: "alice2", Email: "alice@x.com"}
	fx.uc.EXPECT().
		UpdateByEmail(mock.Anything, "alice@x.com", mock.AnythingOfType("*usecase.UpdateInput")).
		Return(updated, nil)

	c, rec := newJSONContext(fx.e, http.MethodPut, "/api/accounts/alice@x.com", `{"username":"alice2"}`)
	c.SetParamNames("email")
	c.SetParamValues("alice@x.com")

	require.NoError(t, fx.handler.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountHandler_Delete(t *testing.T) {
	fx := createTestHandler(t)

	fx.uc.EXPECT().DeleteByEmail(mock.Anything, "alice@x.com").Return(nil)

	c, rec := newJSONContext(fx.e, http.MethodDelete, "/api/accounts/alice@x.com", "")
	c.SetParamNames("email")
	c.SetParamValues("alice@x.com")

	require.NoError(t, fx.handler.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountHandler_Login_Failure(t *testing.T) {
	fx := createTestHandler(t)

	fx.uc.EXPECT().
		Authenticate(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, errors.WithStack(domainerrors.ErrInvalidCredentials))

	c, _ := newJSONContext(fx.e, http.MethodPost, "/api/accounts/login",
		`{"email":"alice@x.com","password":"wrong"}`)

	err := fx.handler.Login(c)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}
