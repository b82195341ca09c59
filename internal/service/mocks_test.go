package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/events"
	"github.com/phrazzld/sophia-api/internal/store"
)

// newMockDB returns a sqlmock-backed database handle for exercising the
// transaction wrapper. Store calls are mocked separately, so only Begin,
// Commit, and Rollback reach this handle.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, dbMock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// MockQuoteStore mocks the store.QuoteStore interface
type MockQuoteStore struct {
	mock.Mock
}

func (m *MockQuoteStore) Create(ctx context.Context, quote *domain.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteStore) CreateBatch(ctx context.Context, quotes []*domain.Quote) error {
	args := m.Called(ctx, quotes)
	return args.Error(0)
}

func (m *MockQuoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	args := m.Called(ctx, id)
	quote, _ := args.Get(0).(*domain.Quote)
	return quote, args.Error(1)
}

func (m *MockQuoteStore) ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]*domain.Quote, error) {
	args := m.Called(ctx, requestID)
	quotes, _ := args.Get(0).([]*domain.Quote)
	return quotes, args.Error(1)
}

func (m *MockQuoteStore) GetRandom(ctx context.Context) (*domain.Quote, error) {
	args := m.Called(ctx)
	quote, _ := args.Get(0).(*domain.Quote)
	return quote, args.Error(1)
}

func (m *MockQuoteStore) WithTx(tx *sql.Tx) store.QuoteStore {
	return m
}

// MockRequestStore mocks the store.GenerationRequestStore interface
type MockRequestStore struct {
	mock.Mock
}

func (m *MockRequestStore) Create(ctx context.Context, request *domain.GenerationRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationRequest, error) {
	args := m.Called(ctx, id)
	request, _ := args.Get(0).(*domain.GenerationRequest)
	return request, args.Error(1)
}

func (m *MockRequestStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.RequestStatus,
	errorMessage string,
) error {
	args := m.Called(ctx, id, status, errorMessage)
	return args.Error(0)
}

func (m *MockRequestStore) WithTx(tx *sql.Tx) store.GenerationRequestStore {
	return m
}

// MockFavoriteStore mocks the store.FavoriteStore interface
type MockFavoriteStore struct {
	mock.Mock
}

func (m *MockFavoriteStore) Create(ctx context.Context, favorite *domain.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *MockFavoriteStore) Delete(ctx context.Context, userID uuid.UUID, quoteText string) error {
	args := m.Called(ctx, userID, quoteText)
	return args.Error(0)
}

func (m *MockFavoriteStore) GetByUserAndText(
	ctx context.Context,
	userID uuid.UUID,
	quoteText string,
) (*domain.Favorite, error) {
	args := m.Called(ctx, userID, quoteText)
	favorite, _ := args.Get(0).(*domain.Favorite)
	return favorite, args.Error(1)
}

func (m *MockFavoriteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Favorite, error) {
	args := m.Called(ctx, userID)
	favorites, _ := args.Get(0).([]*domain.Favorite)
	return favorites, args.Error(1)
}

func (m *MockFavoriteStore) WithTx(tx *sql.Tx) store.FavoriteStore {
	return m
}

// MockDailyQuoteStore mocks the store.DailyQuoteStore interface
type MockDailyQuoteStore struct {
	mock.Mock
}

func (m *MockDailyQuoteStore) Create(ctx context.Context, daily *domain.DailyQuote) error {
	args := m.Called(ctx, daily)
	return args.Error(0)
}

func (m *MockDailyQuoteStore) GetByDate(ctx context.Context, date string) (*domain.DailyQuote, error) {
	args := m.Called(ctx, date)
	daily, _ := args.Get(0).(*domain.DailyQuote)
	return daily, args.Error(1)
}

func (m *MockDailyQuoteStore) ListRecent(ctx context.Context, limit int) ([]*domain.DailyQuote, error) {
	args := m.Called(ctx, limit)
	dailies, _ := args.Get(0).([]*domain.DailyQuote)
	return dailies, args.Error(1)
}

func (m *MockDailyQuoteStore) WithTx(tx *sql.Tx) store.DailyQuoteStore {
	return m
}

// MockQuoteGenerator mocks the generation.QuoteGenerator interface
type MockQuoteGenerator struct {
	mock.Mock
}

func (m *MockQuoteGenerator) GenerateQuotes(
	ctx context.Context,
	theme string,
	count int,
) ([]*domain.Quote, error) {
	args := m.Called(ctx, theme, count)
	quotes, _ := args.Get(0).([]*domain.Quote)
	return quotes, args.Error(1)
}

// MockImageResolver mocks the ImageResolver interface
type MockImageResolver struct {
	mock.Mock
}

func (m *MockImageResolver) Resolve(ctx context.Context, quote *domain.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

// MockEventEmitter mocks the events.EventEmitter interface
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
