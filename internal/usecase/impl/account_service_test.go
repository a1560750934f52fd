package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	mockRepo "roster/internal/mocks/repository"
	mockSvc "roster/internal/mocks/service"
	"roster/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service usecase.AccountUsecase
	repo    *mockRepo.MockAccountRepository
	hasher  *mockSvc.MockPasswordHasher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	repo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAccountService(repo, hasher, logger)

	return accountServiceFixtures{
		service: service,
		repo:    repo,
		hasher:  hasher,
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Username: "alice",
		Email:    "Alice@X.com",
		Password: "secret1",
	}

	fx.hasher.EXPECT().Hash("secret1").Return("hashed_password", nil)

	fx.repo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(ctx context.Context, account *entity.Account) {
			account.ID = uuid.New()
			account.CreatedOn = time.Now()
		}).
		Return(nil)

	account, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "alice@x.com", account.Email, "email must be stored normalized")
	assert.Equal(t, "hashed_password", account.PasswordHash)
	assert.NotEqual(t, input.Password, account.PasswordHash)
	assert.True(t, account.IsActive)
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.False(t, account.CreatedOn.IsZero())
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Username: "bob",
		Email:    "alice@x.com",
		Password: "secret2",
	}

	fx.hasher.EXPECT().Hash("secret2").Return("hashed_password", nil)
	fx.repo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Return(domainerrors.ErrEmailTaken.WrapMessage("email already exists"))

	account, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, account)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
}

func TestAccountService_Register_InvalidEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	for _, email := range []string{"", "not-an-email", "a b@x.com", "alice@"} {
		input := &usecase.RegisterInput{
			Username: "alice",
			Email:    email,
			Password: "secret1",
		}

		account, err := fx.service.Register(ctx, input)

		require.Error(t, err, "email: %q", email)
		assert.Nil(t, account)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed), "email: %q", email)
	}
}

func TestAccountService_Register_MissingUsername(t *testing.T) {
	fx := createTestAccountService(t)

	account, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Username: "   ",
		Email:    "alice@x.com",
		Password: "secret1",
	})

	require.Error(t, err)
	assert.Nil(t, account)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAccountService_Register_EmptyPassword(t *testing.T) {
	fx := createTestAccountService(t)

	fx.hasher.EXPECT().Hash("").Return("", domainerrors.ErrEmptyPassword.WrapMessage("cannot hash password"))

	account, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "",
	})

	require.Error(t, err)
	assert.Nil(t, account)
	assert.True(t, errors.Is(err, domainerrors.ErrEmptyPassword))
}

func TestAccountService_List(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	stored := []*entity.Account{
		{ID: uuid.New(), Username: "alice", Email: "alice@x.com"},
		{ID: uuid.New(), Username: "bob", Email: "bob@x.com"},
	}

	fx.repo.EXPECT().FindAll(ctx).Return(stored, nil)

	accounts, err := fx.service.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, stored, accounts)
}

func TestAccountService_GetByEmail_NormalizesLookup(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	stored := &entity.Account{ID: uuid.New(), Username: "alice", Email: "alice@x.com"}

	fx.repo.EXPECT().FindByEmail(ctx, "alice@x.com").Return(stored, nil)

	account, err := fx.service.GetByEmail(ctx, "  ALICE@X.com ")

	require.NoError(t, err)
	assert.Equal(t, stored, account)
}

func TestAccountService_GetByEmail_NotFound(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	fx.repo.EXPECT().FindByEmail(ctx, "ghost@x.com").Return(nil, repository.ErrAccountNotFound)

	account, err := fx.service.GetByEmail(ctx, "ghost@x.com")

	require.Error(t, err)
	assert.Nil(t, account)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_UpdateByEmail_AppliesCallerChanges(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	updated := &entity.Account{ID: uuid.New(), Username: "alice2", Email: "alice@x.com"}

	fx.repo.EXPECT().
		UpdateByEmail(ctx, "alice@x.com", mock.AnythingOfType("entity.AccountChanges")).
		Run(func(ctx context.Context, email string, changes entity.AccountChanges) {
			require.NotNil(t, changes.Username)
			assert.Equal(t, "alice2", *changes.Username)
		}).
		Return(updated, nil)

	account, err := fx.service.UpdateByEmail(ctx, "Alice@X.com", &usecase.UpdateInput{Username: "alice2"})

	require.NoError(t, err)
	assert.Equal(t, updated, account)
}

func TestAccountService_UpdateByEmail_NotFound(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	fx.repo.EXPECT().
		UpdateByEmail(ctx, "ghost@x.com", mock.AnythingOfType("entity.AccountChanges")).
		Return(nil, repository.ErrAccountNotFound)

	account, err := fx.service.UpdateByEmail(ctx, "ghost@x.com", &usecase.UpdateInput{Username: "ghost"})

	require.Error(t, err)
	assert.Nil(t, account)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_DeleteByEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	fx.repo.EXPECT().DeleteByEmail(ctx, "alice@x.com").Return(nil)

	require.NoError(t, fx.service.DeleteByEmail(ctx, "alice@x.com"))
}

func TestAccountService_DeleteByEmail_NotFound(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	fx.repo.EXPECT().DeleteByEmail(ctx, "ghost@x.com").Return(repository.ErrAccountNotFound)

	err := fx.service.DeleteByEmail(ctx, "ghost@x.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_Authenticate_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	stored := &entity.Account{ID: uuid.New(), Username: "alice", Email: "alice@x.com", PasswordHash: "stored_hash"}

	fx.repo.EXPECT().FindByEmail(ctx, "alice@x.com").Return(stored, nil)
	fx.hasher.EXPECT().Check("secret1", "stored_hash").Return(true, nil)

	account, err := fx.service.Authenticate(ctx, &usecase.LoginInput{Email: "alice@x.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, stored, account)
}

func TestAccountService_Authenticate_WrongPassword(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	stored := &entity.Account{ID: uuid.New(), Username: "alice", Email: "alice@x.com", PasswordHash: "stored_hash"}

	fx.repo.EXPECT().FindByEmail(ctx, "alice@x.com").Return(stored, nil)
	fx.hasher.EXPECT().Check("secret2", "stored_hash").Return(false, nil)

	account, err := fx.service.Authenticate(ctx, &usecase.LoginInput{Email: "alice@x.com", Password: "secret2"})

	require.Error(t, err)
	assert.Nil(t, account)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_Authenticate_UnknownEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	fx.repo.EXPECT().FindByEmail(ctx, "ghost@x.com").Return(nil, repository.ErrAccountNotFound)
	// The unknown-email path still performs one hash comparison.
	fx.hasher.EXPECT().Check("anything", mock.AnythingOfType("string")).Return(false, nil)

	account, err := fx.service.Authenticate(ctx, &usecase.LoginInput{Email: "ghost@x.com", Password: "anything"})

	require.Error(t, err)
	assert.Nil(t, account)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestAccountService_Authenticate_FailuresLookIdentical(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	stored := &entity.Account{ID: uuid.New(), Email: "alice@x.com", PasswordHash: "stored_hash"}

	fx.repo.EXPECT().FindByEmail(ctx, "alice@x.com").Return(stored, nil)
	fx.hasher.EXPECT().Check("wrong", "stored_hash").Return(false, nil)
	_, wrongPasswordErr := fx.service.Authenticate(ctx, &usecase.LoginInput{Email: "alice@x.com", Password: "wrong"})

	fx.repo.EXPECT().FindByEmail(ctx, "ghost@x.com").Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Check("wrong", mock.AnythingOfType("string")).Return(false, nil)
	_, unknownEmailErr := fx.service.Authenticate(ctx, &usecase.LoginInput{Email: "ghost@x.com", Password: "wrong"})

	require.Error(t, wrongPasswordErr)
	require.Error(t, unknownEmailErr)

	var appErr1, appErr2 domainerrors.AppError
	require.True(t, errors.As(wrongPasswordErr, &appErr1))
	require.True(t, errors.As(unknownEmailErr, &appErr2))
	assert.Equal(t, appErr1.ErrorCode(), appErr2.ErrorCode())
	assert.Equal(t, appErr1.Message(), appErr2.Message())
}

func TestAccountService_Authenticate_MalformedStoredHash(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	stored := &entity.Account{ID: uuid.New(), Email: "alice@x.com", PasswordHash: "garbage"}

	fx.repo.EXPECT().FindByEmail(ctx, "alice@x.com").Return(stored, nil)
	fx.hasher.EXPECT().Check("secret1", "garbage").Return(false, domainerrors.ErrMalformedHash.WrapMessage("bad hash"))

	account, err := fx.service.Authenticate(ctx, &usecase.LoginInput{Email: "alice@x.com", Password: "secret1"})

	require.Error(t, err)
	assert.Nil(t, account)
	assert.True(t, errors.Is(err, domainerrors.ErrMalformedHash))
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "alice@x.com", want: "alice@x.com"},
		{raw: " ALICE@X.COM ", want: "alice@x.com"},
		{raw: "Bob.Smith@Example.org", want: "bob.smith@example.org"},
		{raw: "", wantErr: true},
		{raw: "   ", wantErr: true},
		{raw: "not-an-email", wantErr: true},
		{raw: "alice@", wantErr: true},
		{raw: "Alice Smith <alice@x.com>", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := normalizeEmail(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
