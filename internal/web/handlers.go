// internal/web/handlers.go
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"stocksim/internal/domain"
	"stocksim/internal/service"
	"stocksim/internal/session"
	"stocksim/internal/util"
)

// Handler serves the HTML surface of the application.
type Handler struct {
	auth      service.AuthService
	trading   service.TradingService
	sessions  session.Store
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewHandler creates a Handler with all page templates parsed.
func NewHandler(auth service.AuthService, trading service.TradingService, sessions session.Store, logger *slog.Logger) (*Handler, error) {
	templates, err := newTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		auth:      auth,
		trading:   trading,
		sessions:  sessions,
		templates: templates,
		logger:    logger,
	}, nil
}

// pageData carries the fields every page template can reference.
type pageData struct {
	LoggedIn bool
	Flash    string
}

// newPageData builds the shared template data, popping any pending flash
// message from the session.
func (h *Handler) newPageData(r *http.Request) pageData {
	data := pageData{}
	sess := sessionFromContext(r.Context())
	if sess == nil {
		return data
	}
	data.LoggedIn = true
	flash, err := h.sessions.PopFlash(r.Context(), sess.Token)
	if err != nil {
		h.logger.Error("failed to pop flash message", "error", err)
		return data
	}
	data.Flash = flash
	return data
}

// render executes the named page template into a buffer first so a template
// failure can still produce a clean 500.
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := h.templates[page]
	if !ok {
		h.logger.Error("unknown template", "page", page)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error("failed to render template", "page", page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type apologyData struct {
	pageData
	Message string
}

// apology renders the error page with the given status and message.
func (h *Handler) apology(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, status, "apology", apologyData{
		pageData: h.newPageData(r),
		Message:  message,
	})
}

// renderError maps a service error onto an apology page. Auth failures use
// 403 as the original did; business-rule rejections use 400.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case util.IsError(err, util.ErrInvalidCredentials):
		h.apology(w, r, http.StatusForbidden, "invalid username and/or password")
	case util.IsError(err, util.ErrDuplicateUsername):
		h.apology(w, r, http.StatusBadRequest, "username already exists")
	case util.IsError(err, util.ErrInvalidSymbol):
		h.apology(w, r, http.StatusBadRequest, "invalid symbol")
	case util.IsError(err, util.ErrInsufficientFunds):
		h.apology(w, r, http.StatusBadRequest, "insufficient balance")
	case util.IsError(err, util.ErrNoPosition):
		h.apology(w, r, http.StatusBadRequest, "you don't own any shares of this stock")
	case util.IsError(err, util.ErrInsufficientShares):
		h.apology(w, r, http.StatusBadRequest, err.Error())
	case util.IsError(err, util.ErrInvalidInput):
		h.apology(w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("unhandled service error", "error", err)
		h.apology(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// parseShares enforces the typed request boundary: the form field must be a
// positive whole number.
func parseShares(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("must provide number of shares: %w", util.ErrInvalidInput)
	}
	shares, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("shares must be a whole number: %w", util.ErrInvalidInput)
	}
	if shares <= 0 {
		return 0, fmt.Errorf("number of shares must be positive: %w", util.ErrInvalidInput)
	}
	return shares, nil
}

type indexData struct {
	pageData
	Portfolio *domain.Portfolio
}

// Index renders the portfolio.
// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	portfolio, err := h.trading.Portfolio(r.Context(), sess.UserID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "index", indexData{
		pageData:  h.newPageData(r),
		Portfolio: portfolio,
	})
}

// BuyForm shows the buy form.
// GET /buy
func (h *Handler) BuyForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "buy", h.newPageData(r))
}

// Buy executes a purchase.
// POST /buy
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	symbol := r.FormValue("symbol")
	if strings.TrimSpace(symbol) == "" {
		h.apology(w, r, http.StatusBadRequest, "must provide symbol")
		return
	}
	shares, err := parseShares(r.FormValue("shares"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	trade, err := h.trading.Buy(r.Context(), sess.UserID, symbol, shares)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.flash(r, fmt.Sprintf("Bought %d shares of %s for %s", trade.Shares, trade.Symbol, usd(trade.Amount())))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type sellData struct {
	pageData
	Symbols []string
}

// SellForm shows the sell form with the user's held symbols.
// GET /sell
func (h *Handler) SellForm(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	symbols, err := h.trading.OwnedSymbols(r.Context(), sess.UserID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "sell", sellData{
		pageData: h.newPageData(r),
		Symbols:  symbols,
	})
}

// Sell executes a sale.
// POST /sell
func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	symbol := r.FormValue("symbol")
	if strings.TrimSpace(symbol) == "" {
		h.apology(w, r, http.StatusBadRequest, "must select a symbol")
		return
	}
	shares, err := parseShares(r.FormValue("shares"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	trade, err := h.trading.Sell(r.Context(), sess.UserID, symbol, shares)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.flash(r, fmt.Sprintf("Sold %d shares of %s for %s", -trade.Shares, trade.Symbol, usd(trade.Amount())))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// QuoteForm shows the quote form.
// GET /quote
func (h *Handler) QuoteForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "quote", h.newPageData(r))
}

type quotedData struct {
	pageData
	Quote domain.Quote
}

// Quote looks up a symbol and shows its price.
// POST /quote
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := r.FormValue("symbol")
	if strings.TrimSpace(symbol) == "" {
		h.apology(w, r, http.StatusBadRequest, "must provide symbol")
		return
	}

	quote, err := h.trading.Quote(r.Context(), symbol)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, http.StatusOK, "quoted", quotedData{
		pageData: h.newPageData(r),
		Quote:    quote,
	})
}

type historyData struct {
	pageData
	Trades []domain.Trade
}

// History shows the user's full transaction ledger.
// GET /history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	trades, err := h.trading.History(r.Context(), sess.UserID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "history", historyData{
		pageData: h.newPageData(r),
		Trades:   trades,
	})
}

// RegisterForm shows the registration form.
// GET /register
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "register", pageData{})
}

// Register creates an account and logs the new user straight in.
// POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	confirmation := r.FormValue("confirmation")

	switch {
	case strings.TrimSpace(username) == "":
		h.apology(w, r, http.StatusBadRequest, "username is required")
		return
	case password == "":
		h.apology(w, r, http.StatusBadRequest, "password is required")
		return
	case password != confirmation:
		h.apology(w, r, http.StatusBadRequest, "passwords do not match")
		return
	}

	user, err := h.auth.Register(r.Context(), username, password, confirmation)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.startSession(w, r, user.ID, "Registered!")
}

// LoginForm shows the login form.
// GET /login
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login", pageData{})
}

// Login authenticates and establishes a session. Any pre-existing session
// is destroyed first, as the original did.
// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.destroySession(w, r)

	username := r.FormValue("username")
	password := r.FormValue("password")
	if strings.TrimSpace(username) == "" {
		h.apology(w, r, http.StatusForbidden, "must provide username")
		return
	}
	if password == "" {
		h.apology(w, r, http.StatusForbidden, "must provide password")
		return
	}

	user, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.startSession(w, r, user.ID, "")
}

// Logout clears the session unconditionally.
// GET /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.destroySession(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// startSession creates a session for the user, sets the cookie, optionally
// queues a flash message and redirects home.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID int64, flash string) {
	token, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		h.apology(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	setSessionCookie(w, token)
	if flash != "" {
		if err := h.sessions.SetFlash(r.Context(), token, flash); err != nil {
			h.logger.Error("failed to set flash message", "error", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// destroySession removes the current session, if any, and clears the cookie.
func (h *Handler) destroySession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to destroy session", "error", err)
		}
	}
	clearSessionCookie(w)
}

// flash queues a message on the current session for the next page render.
func (h *Handler) flash(r *http.Request, message string) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		return
	}
	if err := h.sessions.SetFlash(r.Context(), sess.Token, message); err != nil {
		h.logger.Error("failed to set flash message", "error", err)
	}
}
