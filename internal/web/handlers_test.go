// internal/web/handlers_test.go
package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksim/internal/domain"
	"stocksim/internal/session"
	"stocksim/internal/util"
)

// stubAuth is a canned-response service.AuthService.
type stubAuth struct {
	user *domain.User
	err  error
}

func (s *stubAuth) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubAuth) Login(ctx context.Context, username, password string) (*domain.User, error) {
	return s.user, s.err
}

// stubTrading is a canned-response service.TradingService.
type stubTrading struct {
	quote     domain.Quote
	quoteErr  error
	trade     *domain.Trade
	tradeErr  error
	portfolio *domain.Portfolio
	trades    []domain.Trade
	symbols   []string
	err       error
}

func (s *stubTrading) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	return s.quote, s.quoteErr
}

func (s *stubTrading) Buy(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Trade, error) {
	return s.trade, s.tradeErr
}

func (s *stubTrading) Sell(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Trade, error) {
	return s.trade, s.tradeErr
}

func (s *stubTrading) Portfolio(ctx context.Context, userID int64) (*domain.Portfolio, error) {
	return s.portfolio, s.err
}

func (s *stubTrading) History(ctx context.Context, userID int64) ([]domain.Trade, error) {
	return s.trades, s.err
}

func (s *stubTrading) OwnedSymbols(ctx context.Context, userID int64) ([]string, error) {
	return s.symbols, s.err
}

type testServer struct {
	router   http.Handler
	sessions *session.MemoryStore
}

func newTestServer(t *testing.T, auth *stubAuth, trading *stubTrading) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewMemoryStore(time.Hour)
	handler, err := NewHandler(auth, trading, sessions, logger)
	require.NoError(t, err)
	return &testServer{
		router:   NewRouter(handler, logger),
		sessions: sessions,
	}
}

func (ts *testServer) login(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	token, err := ts.sessions.Create(context.Background(), userID)
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

func (ts *testServer) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func emptyPortfolio() *domain.Portfolio {
	return &domain.Portfolio{
		Cash:  domain.DefaultCash,
		Total: domain.DefaultCash,
	}
}

func TestIndex_RedirectsUnauthenticated(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{})

	rec := ts.get("/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestIndex_RejectsStaleSession(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{})

	rec := ts.get("/", &http.Cookie{Name: sessionCookieName, Value: "stale"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestNoCacheHeaders(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{})

	rec := ts.get("/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))
}

func TestIndex_RendersPortfolio(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{
		portfolio: &domain.Portfolio{
			Positions: []domain.Position{{
				Symbol: "AAA",
				Shares: 10,
				Price:  decimal.NewFromInt(50),
				Value:  decimal.NewFromInt(500),
			}},
			Cash:  decimal.RequireFromString("9500"),
			Total: decimal.NewFromInt(10000),
		},
	})
	cookie := ts.login(t, 1)

	rec := ts.get("/", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "AAA")
	assert.Contains(t, body, "$500.00")
	assert.Contains(t, body, "$9,500.00")
	assert.Contains(t, body, "$10,000.00")
}

func TestLogin_EstablishesSession(t *testing.T) {
	ts := newTestServer(t, &stubAuth{user: &domain.User{ID: 1, Username: "alice"}}, &stubTrading{
		portfolio: emptyPortfolio(),
	})

	rec := ts.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"hunter2"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")

	// The cookie now opens protected routes.
	rec = ts.get("/", sessionCookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := newTestServer(t, &stubAuth{err: util.ErrInvalidCredentials}, &stubTrading{})

	rec := ts.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid username and/or password")
}

func TestLogin_MissingFields(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{})

	rec := ts.postForm("/login", url.Values{"password": {"x"}}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "must provide username")

	rec = ts.postForm("/login", url.Values{"username": {"alice"}}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "must provide password")
}

func TestRegister_AutoLoginAndFlash(t *testing.T) {
	ts := newTestServer(t, &stubAuth{user: &domain.User{ID: 1, Username: "alice"}}, &stubTrading{
		portfolio: emptyPortfolio(),
	})

	rec := ts.postForm("/register", url.Values{
		"username":     {"alice"},
		"password":     {"hunter2"},
		"confirmation": {"hunter2"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "register must establish a session")

	rec = ts.get("/", sessionCookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Registered!")
}

func TestRegister_Validation(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{})

	rec := ts.postForm("/register", url.Values{
		"password":     {"hunter2"},
		"confirmation": {"hunter2"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username is required")

	rec = ts.postForm("/register", url.Values{
		"username":     {"alice"},
		"password":     {"hunter2"},
		"confirmation": {"different"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "passwords do not match")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ts := newTestServer(t, &stubAuth{err: util.ErrDuplicateUsername}, &stubTrading{})

	rec := ts.postForm("/register", url.Values{
		"username":     {"alice"},
		"password":     {"hunter2"},
		"confirmation": {"hunter2"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already exists")
}

func TestBuy_FlashesAndRedirects(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{
		trade:     domain.NewTrade("alice", "AAA", 10, decimal.NewFromInt(50)),
		portfolio: emptyPortfolio(),
	})
	cookie := ts.login(t, 1)

	rec := ts.postForm("/buy", url.Values{
		"symbol": {"AAA"},
		"shares": {"10"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// Flash shows on the next render, then clears.
	rec = ts.get("/", cookie)
	assert.Contains(t, rec.Body.String(), "Bought 10 shares of AAA for $500.00")
	rec = ts.get("/", cookie)
	assert.NotContains(t, rec.Body.String(), "Bought 10 shares")
}

func TestBuy_ShareValidation(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{})
	cookie := ts.login(t, 1)

	for raw, wantMessage := range map[string]string{
		"":    "must provide number of shares",
		"abc": "shares must be a whole number",
		"1.5": "shares must be a whole number",
		"0":   "number of shares must be positive",
		"-4":  "number of shares must be positive",
	} {
		rec := ts.postForm("/buy", url.Values{
			"symbol": {"AAA"},
			"shares": {raw},
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "shares=%q", raw)
		assert.Contains(t, rec.Body.String(), wantMessage, "shares=%q", raw)
	}
}

func TestBuy_MissingSymbol(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{})
	cookie := ts.login(t, 1)

	rec := ts.postForm("/buy", url.Values{"shares": {"10"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must provide symbol")
}

func TestBuy_InsufficientFunds(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{tradeErr: util.ErrInsufficientFunds})
	cookie := ts.login(t, 1)

	rec := ts.postForm("/buy", url.Values{
		"symbol": {"AAA"},
		"shares": {"10"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient balance")
}

func TestSell_ReportsAvailableShares(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{
		tradeErr: &util.InsufficientSharesError{Available: 6},
	})
	cookie := ts.login(t, 1)

	rec := ts.postForm("/sell", url.Values{
		"symbol": {"AAA"},
		"shares": {"10"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "you only have 6 shares available to sell")
}

func TestSellForm_ListsOwnedSymbols(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{symbols: []string{"AAA", "BBB"}})
	cookie := ts.login(t, 1)

	rec := ts.get("/sell", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="AAA">`)
	assert.Contains(t, rec.Body.String(), `<option value="BBB">`)
}

func TestQuote_ShowsPrice(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{
		quote: domain.Quote{Symbol: "AAPL", Price: decimal.RequireFromString("195.50")},
	})
	cookie := ts.login(t, 1)

	rec := ts.postForm("/quote", url.Values{"symbol": {"aapl"}}, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A share of AAPL costs $195.50.")
}

func TestQuote_InvalidSymbol(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{quoteErr: util.ErrInvalidSymbol})
	cookie := ts.login(t, 1)

	rec := ts.postForm("/quote", url.Values{"symbol": {"NOPE"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid symbol")
}

func TestHistory_EmptyState(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{})
	cookie := ts.login(t, 1)

	rec := ts.get("/history", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You have no transactions yet.")
}

func TestHistory_ShowsTrades(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{
		trades: []domain.Trade{
			{Symbol: "AAA", Shares: 10, Price: decimal.NewFromInt(50), TransactedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
			{Symbol: "AAA", Shares: -4, Price: decimal.NewFromInt(60), TransactedAt: time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)},
		},
	})
	cookie := ts.login(t, 1)

	rec := ts.get("/history", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "$50.00")
	assert.Contains(t, body, "-4")
	assert.Contains(t, body, "2024-03-01 09:30:00")
}

func TestLogout_DestroysSession(t *testing.T) {
	ts := newTestServer(t, &stubAuth{}, &stubTrading{portfolio: emptyPortfolio()})
	cookie := ts.login(t, 1)

	rec := ts.get("/logout", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// The old cookie no longer opens protected routes.
	rec = ts.get("/", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
