package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/sophia-api/internal/api/shared"
	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/service"
	"github.com/phrazzld/sophia-api/internal/service/auth"
)

// testLogger returns a logger that swallows output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withUser puts the authenticated user ID on the request context the way
// the auth middleware does.
func withUser(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// withPathParam attaches a chi route parameter to the request context.
func withPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// MockUserService is a mock implementation of service.UserService for testing
type MockUserService struct {
	GetUserFn        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetUserByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	CreateUserFn     func(ctx context.Context, email, password string) (*domain.User, error)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetUserByEmailFn != nil {
		return m.GetUserByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *MockUserService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, email, password)
	}
	return nil, nil
}

// MockJWTService is a mock implementation of auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return "access-token", nil
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, userID)
	}
	return "refresh-token", nil
}

func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidRefreshToken
}

// MockPasswordVerifier is a mock implementation of auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	CompareFn func(ctx context.Context, hashedPassword, password string) error
}

func (m *MockPasswordVerifier) Compare(ctx context.Context, hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(ctx, hashedPassword, password)
	}
	return nil
}

// MockQuoteService is a mock implementation of service.QuoteService for testing
type MockQuoteService struct {
	RequestGenerationFn   func(ctx context.Context, userID uuid.UUID, theme string, count int) (*domain.GenerationRequest, error)
	GetRequestForUserFn   func(ctx context.Context, requestID, userID uuid.UUID) (*domain.GenerationRequest, error)
	GetRequestFn          func(ctx context.Context, requestID uuid.UUID) (*domain.GenerationRequest, error)
	UpdateRequestStatusFn func(ctx context.Context, requestID uuid.UUID, status domain.RequestStatus, errorMessage string) error
	ListQuotesByRequestFn func(ctx context.Context, requestID uuid.UUID) ([]*domain.Quote, error)
	GetQuoteFn            func(ctx context.Context, quoteID uuid.UUID) (*domain.Quote, error)
	SaveQuotesFn          func(ctx context.Context, quotes []*domain.Quote) error
}

func (m *MockQuoteService) RequestGeneration(
	ctx context.Context,
	userID uuid.UUID,
	theme string,
	count int,
) (*domain.GenerationRequest, error) {
	if m.RequestGenerationFn != nil {
		return m.RequestGenerationFn(ctx, userID, theme, count)
	}
	return nil, nil
}

func (m *MockQuoteService) GetRequestForUser(
	ctx context.Context,
	requestID, userID uuid.UUID,
) (*domain.GenerationRequest, error) {
	if m.GetRequestForUserFn != nil {
		return m.GetRequestForUserFn(ctx, requestID, userID)
	}
	return nil, nil
}

func (m *MockQuoteService) GetRequest(
	ctx context.Context,
	requestID uuid.UUID,
) (*domain.GenerationRequest, error) {
	if m.GetRequestFn != nil {
		return m.GetRequestFn(ctx, requestID)
	}
	return nil, nil
}

func (m *MockQuoteService) UpdateRequestStatus(
	ctx context.Context,
	requestID uuid.UUID,
	status domain.RequestStatus,
	errorMessage string,
) error {
	if m.UpdateRequestStatusFn != nil {
		return m.UpdateRequestStatusFn(ctx, requestID, status, errorMessage)
	}
	return nil
}

func (m *MockQuoteService) ListQuotesByRequest(
	ctx context.Context,
	requestID uuid.UUID,
) ([]*domain.Quote, error) {
	if m.ListQuotesByRequestFn != nil {
		return m.ListQuotesByRequestFn(ctx, requestID)
	}
	return nil, nil
}

func (m *MockQuoteService) GetQuote(ctx context.Context, quoteID uuid.UUID) (*domain.Quote, error) {
	if m.GetQuoteFn != nil {
		return m.GetQuoteFn(ctx, quoteID)
	}
	return nil, nil
}

func (m *MockQuoteService) SaveQuotes(ctx context.Context, quotes []*domain.Quote) error {
	if m.SaveQuotesFn != nil {
		return m.SaveQuotesFn(ctx, quotes)
	}
	return nil
}

// MockFavoriteService is a mock implementation of service.FavoriteService for testing
type MockFavoriteService struct {
	ToggleFn func(ctx context.Context, userID uuid.UUID, quoteText, author, imageURL string) (bool, error)
	ListFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.Favorite, error)
}

func (m *MockFavoriteService) Toggle(
	ctx context.Context,
	userID uuid.UUID,
	quoteText, author, imageURL string,
) (bool, error) {
	if m.ToggleFn != nil {
		return m.ToggleFn(ctx, userID, quoteText, author, imageURL)
	}
	return false, nil
}

func (m *MockFavoriteService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Favorite, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID)
	}
	return nil, nil
}

// MockDailyService is a mock implementation of service.DailyService for testing
type MockDailyService struct {
	GetDailyQuoteFn func(ctx context.Context) (*domain.Quote, error)
	ListRecentFn    func(ctx context.Context, limit int) ([]service.DailyEntry, error)
}

func (m *MockDailyService) GetDailyQuote(ctx context.Context) (*domain.Quote, error) {
	if m.GetDailyQuoteFn != nil {
		return m.GetDailyQuoteFn(ctx)
	}
	return nil, nil
}

func (m *MockDailyService) ListRecent(ctx context.Context, limit int) ([]service.DailyEntry, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, limit)
	}
	return nil, nil
}

// MockCardRenderer is a mock implementation of CardRenderer for testing
type MockCardRenderer struct {
	RenderPNGFn  func(ctx context.Context, quote *domain.Quote) ([]byte, error)
	RenderHTMLFn func(quote *domain.Quote) ([]byte, error)
}

func (m *MockCardRenderer) RenderPNG(ctx context.Context, quote *domain.Quote) ([]byte, error) {
	if m.RenderPNGFn != nil {
		return m.RenderPNGFn(ctx, quote)
	}
	return nil, nil
}

func (m *MockCardRenderer) RenderHTML(quote *domain.Quote) ([]byte, error) {
	if m.RenderHTMLFn != nil {
		return m.RenderHTMLFn(quote)
	}
	return nil, nil
}

// MockFeedGenerator is a mock implementation of FeedGenerator for testing
type MockFeedGenerator struct {
	GenerateFn func(ctx context.Context) ([]byte, error)
}

func (m *MockFeedGenerator) Generate(ctx context.Context) ([]byte, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx)
	}
	return nil, nil
}

// Interface conformance checks for the mocks.
var (
	_ service.UserService     = (*MockUserService)(nil)
	_ service.QuoteService    = (*MockQuoteService)(nil)
	_ service.FavoriteService = (*MockFavoriteService)(nil)
	_ service.DailyService    = (*MockDailyService)(nil)
	_ auth.JWTService         = (*MockJWTService)(nil)
	_ auth.PasswordVerifier   = (*MockPasswordVerifier)(nil)
	_ CardRenderer            = (*MockCardRenderer)(nil)
	_ FeedGenerator           = (*MockFeedGenerator)(nil)
)
