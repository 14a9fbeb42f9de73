package e2e

import (
	"bytes"
	"context"
	"ditoolz-coins/internal/domain/dto"
	"ditoolz-coins/internal/domain/models"
	"ditoolz-coins/internal/handlers"
	"ditoolz-coins/internal/lib/jwt"
	"ditoolz-coins/internal/middlewares"
	"ditoolz-coins/internal/repository"
	"ditoolz-coins/internal/routes"
	"ditoolz-coins/internal/services"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*userRecord
	accounts     map[uuid.UUID]*models.CoinAccount
	transactions []models.CoinTransaction
	profiles     map[uuid.UUID]models.Profile
}

type userRecord struct {
	username string
	password []byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		users:    make(map[uuid.UUID]*userRecord),
		accounts: make(map[uuid.UUID]*models.CoinAccount),
		profiles: make(map[uuid.UUID]models.Profile),
	}
}

func (s *memoryStorage) SaveUser(ctx context.Context, username string, passHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.username == username {
			return repository.ErrUserAlreadyExists
		}
	}

	s.users[uuid.New()] = &userRecord{username: username, password: passHash}
	return nil
}

func (s *memoryStorage) GetUserByUsername(ctx context.Context, username string) (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, user := range s.users {
		if user.username == username {
			return id.String(), user.password, nil
		}
	}

	return "", nil, repository.ErrUserNotFound
}

func (s *memoryStorage) GetCoinAccount(ctx context.Context, userID uuid.UUID) (models.CoinAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return models.CoinAccount{}, repository.ErrAccountNotFound
	}
	return *acc, nil
}

func (s *memoryStorage) CreateCoinAccount(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[userID]; !ok {
		s.accounts[userID] = &models.CoinAccount{UserID: userID}
	}
	return nil
}

func (s *memoryStorage) SetCoinAccount(ctx context.Context, userID uuid.UUID, balance, lifetimeEarned int, lastAdWatch *time.Time, expectedBalance int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	if acc.Balance != expectedBalance {
		return repository.ErrBalanceConflict
	}

	acc.Balance = balance
	acc.LifetimeEarned = lifetimeEarned
	acc.LastAdWatch = lastAdWatch
	return nil
}

func (s *memoryStorage) InsertCoinTransaction(ctx context.Context, tx models.CoinTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = uuid.New()
	tx.CreatedAt = time.Now().UTC()
	s.transactions = append(s.transactions, tx)
	return nil
}

func (s *memoryStorage) GetCoinTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.CoinTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.CoinTransaction
	for i := len(s.transactions) - 1; i >= 0 && len(result) < limit; i-- {
		if s.transactions[i].UserID == userID {
			result = append(result, s.transactions[i])
		}
	}
	return result, nil
}

func (s *memoryStorage) GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return models.Profile{}, repository.ErrProfileNotFound
	}
	return profile, nil
}

func (s *memoryStorage) UpsertProfile(ctx context.Context, userID uuid.UUID, isPremium bool, premiumUntil *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[userID] = models.Profile{UserID: userID, IsPremium: isPremium, PremiumUntil: premiumUntil}
	return nil
}

func (s *memoryStorage) Close() error { return nil }

type memoryRedis struct {
	mu    sync.Mutex
	store map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{store: make(map[string]string)}
}

func (r *memoryRedis) StoreRefreshToken(ctx context.Context, userID, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[refreshToken] = userID
	return nil
}

type testServer struct {
	server  *httptest.Server
	storage *memoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	storage := newMemoryStorage()
	redisStorage := newMemoryRedis()
	jwtGen := jwt.NewGenerator("secret", time.Minute, 24*time.Hour)

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	authService := services.NewAuthService(log, storage, redisStorage, jwtGen)
	ledgerService := services.NewLedgerService(log, storage, storage, storage, 0)
	premiumService := services.NewPremiumService(log, storage, ledgerService)
	toolGate := services.NewToolGate(log, ledgerService)

	authHandler := handlers.NewAuthHandler(log, authService)
	walletHandler := handlers.NewWalletHandler(log, ledgerService)
	premiumHandler := handlers.NewPremiumHandler(log, premiumService)
	toolsHandler := handlers.NewToolsHandler(log, toolGate)

	authMiddleware := middlewares.NewAuthMiddleware(jwtGen)
	router := routes.InitRoutes(authHandler, walletHandler, premiumHandler, toolsHandler, authMiddleware)

	return &testServer{server: httptest.NewServer(router), storage: storage}
}

func (s *testServer) close() {
	s.server.Close()
}

func (s *testServer) url(path string) string {
	return s.server.URL + path
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	resp, err := http.Post(s.url("/api/auth"), "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Token string `json:"token"`
	}
	err = json.NewDecoder(resp.Body).Decode(&parsed)
	require.NoError(t, err)
	require.NotEmpty(t, parsed.Token)

	return parsed.Token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.url(path), reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	err := json.NewDecoder(resp.Body).Decode(&out)
	require.NoError(t, err)
	return out
}

func (s *testServer) getWallet(t *testing.T, token string) dto.WalletResponse {
	t.Helper()
	resp := s.do(t, http.MethodGet, "/api/wallet", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.WalletResponse](t, resp)
}

func TestWalletIsCreatedLazily(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	token := srv.login(t, "alice", "password123")

	wallet := srv.getWallet(t, token)
	require.Equal(t, 0, wallet.Balance)
	require.Equal(t, 0, wallet.LifetimeEarned)
	require.False(t, wallet.IsPremium)
	require.Len(t, wallet.History, 0)
}

func TestAdRewardAndCooldown(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	token := srv.login(t, "alice", "password123")

	resp := srv.do(t, http.MethodPost, "/api/wallet/earn-ad", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[dto.MutationResult](t, resp)
	require.True(t, result.Allowed)
	require.True(t, result.BalanceUpdated)
	require.True(t, result.LedgerRecorded)
	require.Equal(t, 5, result.Balance)
	require.Equal(t, 5, result.LifetimeEarned)

	resp = srv.do(t, http.MethodPost, "/api/wallet/earn-ad", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result = decode[dto.MutationResult](t, resp)
	require.False(t, result.Allowed)
	require.Equal(t, dto.ReasonCooldownActive, result.Reason)
	require.Equal(t, 5, result.Balance)

	wallet := srv.getWallet(t, token)
	require.Equal(t, 5, wallet.Balance)
	require.NotNil(t, wallet.LastAdWatch)
	require.Len(t, wallet.History, 1)
	require.Equal(t, "ad_reward", wallet.History[0].Type)
}

func TestPurchaseAndToolUsageFlow(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	token := srv.login(t, "alice", "password123")

	resp := srv.do(t, http.MethodPost, "/api/wallet/purchase/starter", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[dto.MutationResult](t, resp)
	require.True(t, result.Allowed)
	require.Equal(t, 100, result.Balance)
	require.Equal(t, 100, result.LifetimeEarned)

	resp = srv.do(t, http.MethodPost, "/api/tools/bg-remove/use", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decision := decode[dto.GateDecision](t, resp)
	require.True(t, decision.Allowed)
	require.Equal(t, 95, decision.Balance)

	resp = srv.do(t, http.MethodGet, "/api/tools/resize/access", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decision = decode[dto.GateDecision](t, resp)
	require.True(t, decision.Allowed)
	require.Equal(t, 92, decision.Balance)

	wallet := srv.getWallet(t, token)
	require.Equal(t, 92, wallet.Balance)
	require.Equal(t, 100, wallet.LifetimeEarned)
	require.Len(t, wallet.History, 3)
	require.Equal(t, "resize", wallet.History[0].ToolUsed)
}

func TestToolDeniedWithRedirectWhenBroke(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	token := srv.login(t, "alice", "password123")

	resp := srv.do(t, http.MethodPost, "/api/tools/ai-chat/use", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decision := decode[dto.GateDecision](t, resp)
	require.False(t, decision.Allowed)
	require.Equal(t, dto.ReasonInsufficientBalance, decision.Reason)
	require.Equal(t, "/purchase-coins", decision.RedirectTo)
	require.Equal(t, 0, decision.Balance)
}

func TestUnlistedToolIsFree(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	token := srv.login(t, "alice", "password123")

	resp := srv.do(t, http.MethodPost, "/api/tools/brand-new-tool/use", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decision := decode[dto.GateDecision](t, resp)
	require.True(t, decision.Allowed)
	require.Equal(t, dto.ReasonNoCostDefined, decision.Reason)

	wallet := srv.getWallet(t, token)
	require.Equal(t, 0, wallet.Balance)
	require.Len(t, wallet.History, 0)
}

func TestUnknownPackageIsRejected(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	token := srv.login(t, "alice", "password123")

	resp := srv.do(t, http.MethodPost, "/api/wallet/purchase/mega", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[dto.MutationResult](t, resp)
	require.False(t, result.Allowed)
	require.Equal(t, dto.ReasonInvalidPackage, result.Reason)

	wallet := srv.getWallet(t, token)
	require.Equal(t, 0, wallet.Balance)
}

func TestPremiumConversionFlow(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	token := srv.login(t, "alice", "password123")

	resp := srv.do(t, http.MethodPost, "/api/wallet/purchase/popular", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[dto.MutationResult](t, resp)
	require.Equal(t, 550, result.Balance)

	// First conversion commits directly.
	resp = srv.do(t, http.MethodPost, "/api/premium/convert", token, dto.ConvertPremiumRequest{Days: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	outcome := decode[dto.ConversionOutcome](t, resp)
	require.Equal(t, dto.ConversionCommitted, outcome.State)
	require.NotNil(t, outcome.PremiumUntil)
	require.WithinDuration(t, time.Now().Add(3*24*time.Hour), *outcome.PremiumUntil, time.Minute)
	require.True(t, outcome.LedgerRecorded)

	// A second conversion while active asks for confirmation first.
	resp = srv.do(t, http.MethodPost, "/api/premium/convert", token, dto.ConvertPremiumRequest{Days: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	outcome = decode[dto.ConversionOutcome](t, resp)
	require.Equal(t, dto.ConversionNeedsConfirmation, outcome.State)
	require.Equal(t, 3, outcome.DaysLeft)
	require.Equal(t, 1, outcome.DaysToAdd)
	require.Equal(t, 4, outcome.TotalDays)

	// Confirming extends from the current end, not from now.
	resp = srv.do(t, http.MethodPost, "/api/premium/confirm", token, dto.ConvertPremiumRequest{Days: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	outcome = decode[dto.ConversionOutcome](t, resp)
	require.Equal(t, dto.ConversionCommitted, outcome.State)
	require.NotNil(t, outcome.PremiumUntil)
	require.WithinDuration(t, time.Now().Add(4*24*time.Hour), *outcome.PremiumUntil, time.Minute)

	wallet := srv.getWallet(t, token)
	require.Equal(t, 200, wallet.Balance)
	require.True(t, wallet.IsPremium)
}

func TestPremiumConversionInsufficientBalance(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	token := srv.login(t, "alice", "password123")

	resp := srv.do(t, http.MethodPost, "/api/premium/convert", token, dto.ConvertPremiumRequest{Days: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	outcome := decode[dto.ConversionOutcome](t, resp)
	require.Equal(t, dto.ConversionFailed, outcome.State)
	require.Equal(t, dto.ReasonInsufficientBalance, outcome.Reason)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	resp := srv.do(t, http.MethodGet, "/api/wallet", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = srv.do(t, http.MethodPost, "/api/tools/bg-remove/use", "invalid-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestPackagesArePublic(t *testing.T) {
	srv := newTestServer(t)
	defer srv.close()

	resp, err := http.Get(srv.url("/api/packages"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	packages := decode[[]struct {
		ID    string `json:"id"`
		Coins int    `json:"coins"`
		Bonus int    `json:"bonus"`
	}](t, resp)
	require.Len(t, packages, 4)
	require.Equal(t, "starter", packages[0].ID)
	require.Equal(t, 100, packages[0].Coins)
}
