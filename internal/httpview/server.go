// Package httpview serves the board to a single local viewer: the rendered
// image, click input mapped back onto the scene, and JSON state.
package httpview

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/chess3d/internal/adapter/chesspresenter"
	"github.com/park285/chess3d/internal/interaction"
	"github.com/park285/chess3d/internal/prefs"
	"github.com/park285/chess3d/internal/render"
	"github.com/park285/chess3d/pkg/chessdto"
)

const prefsTimeout = 2 * time.Second

// OpeningSource names the opening of the current game.
type OpeningSource interface {
	Opening() (code, title string)
}

type Server struct {
	ctrl      *interaction.Controller
	presenter *chesspresenter.Presenter
	layout    render.Layout
	prefs     prefs.Store
	openings  OpeningSource
	logger    *zap.Logger

	routes map[string]route

	mu   sync.RWMutex
	lang string
}

type route struct {
	method  string
	handler fasthttp.RequestHandler
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPrefs persists language changes to store.
func WithPrefs(store prefs.Store) Option {
	return func(s *Server) { s.prefs = store }
}

// WithOpenings adds the ECO opening to /state.
func WithOpenings(src OpeningSource) Option {
	return func(s *Server) { s.openings = src }
}

func NewServer(ctrl *interaction.Controller, presenter *chesspresenter.Presenter, layout render.Layout, lang string, opts ...Option) *Server {
	s := &Server{
		ctrl:      ctrl,
		presenter: presenter,
		layout:    layout,
		logger:    zap.NewNop(),
		lang:      lang,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes = map[string]route{
		"/":          {fasthttp.MethodGet, s.handleIndex},
		"/board.png": {fasthttp.MethodGet, s.handleBoard},
		"/state":     {fasthttp.MethodGet, s.handleState},
		"/help":      {fasthttp.MethodGet, s.handleHelp},
		"/languages": {fasthttp.MethodGet, s.handleLanguages},
		"/click":     {fasthttp.MethodPost, s.handleClick},
		"/reset":     {fasthttp.MethodPost, s.handleReset},
		"/language":  {fasthttp.MethodPost, s.handleLanguage},
	}
	return s
}

// RestoreLanguage switches to the stored language when one is saved and
// known to the catalog.
func (s *Server) RestoreLanguage(ctx context.Context) {
	stored := prefs.LanguageOr(ctx, s.prefs, "")
	if stored == "" || !s.presenter.Formatter().HasLanguage(stored) {
		return
	}
	s.mu.Lock()
	s.lang = stored
	s.mu.Unlock()
}

func (s *Server) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// Handler routes requests; unknown paths get 404, wrong methods 405.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		s.route(ctx)
		s.logger.Debug("http_request",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	r, ok := s.routes[string(ctx.Path())]
	if !ok {
		ctx.Error("not found", fasthttp.StatusNotFound)
		return
	}
	if string(ctx.Method()) != r.method {
		ctx.Response.Header.Set("Allow", r.method)
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	r.handler(ctx)
}

func (s *Server) handleIndex(ctx *fasthttp.RequestCtx) {
	lang := s.Language()
	f := s.presenter.Formatter()
	var b strings.Builder
	if err := pageTemplate.Execute(&b, pageData{
		Lang:      lang,
		State:     s.state(),
		Languages: f.Languages(),
	}); err != nil {
		s.internalError(ctx, err)
		return
	}
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBodyString(b.String())
}

func (s *Server) handleBoard(ctx *fasthttp.RequestCtx) {
	data, err := s.presenter.BoardPNG(context.Background(), s.ctrl.View(), s.Language())
	if err != nil {
		s.internalError(ctx, err)
		return
	}
	ctx.Response.Header.Set("Cache-Control", "no-store")
	ctx.SetContentType("image/png")
	ctx.SetBody(data)
}

func (s *Server) handleState(ctx *fasthttp.RequestCtx) {
	s.writeState(ctx, fasthttp.StatusOK)
}

func (s *Server) handleHelp(ctx *fasthttp.RequestCtx) {
	title, body := s.presenter.Formatter().Help(s.Language())
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"title": title, "text": body})
}

func (s *Server) handleLanguages(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, s.presenter.Formatter().Languages())
}

// handleClick takes image pixel coordinates, as laid out by /board.png.
func (s *Server) handleClick(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	x, errX := args.GetUint("x")
	y, errY := args.GetUint("y")
	if errX != nil || errY != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, chessdto.CodeBadRequest, "errors.bad_click", nil)
		return
	}
	_, err := s.ctrl.Click(s.layout.ScenePoint(image.Pt(x, y)))
	if errors.Is(err, interaction.ErrIllegalMove) {
		s.writeError(ctx, fasthttp.StatusConflict, chessdto.CodeIllegalMove, "errors.illegal_move", map[string]string{"Move": moveOf(err)})
		return
	}
	if err != nil {
		s.internalError(ctx, err)
		return
	}
	s.writeState(ctx, fasthttp.StatusOK)
}

func (s *Server) handleReset(ctx *fasthttp.RequestCtx) {
	s.ctrl.ResetGame()
	s.writeState(ctx, fasthttp.StatusOK)
}

func (s *Server) handleLanguage(ctx *fasthttp.RequestCtx) {
	code := strings.ToLower(strings.TrimSpace(string(ctx.QueryArgs().Peek("code"))))
	if !s.presenter.Formatter().HasLanguage(code) {
		s.writeError(ctx, fasthttp.StatusBadRequest, chessdto.CodeUnknownLanguage, "errors.unknown_language", map[string]string{"Code": code})
		return
	}
	if s.prefs != nil {
		pctx, cancel := context.WithTimeout(context.Background(), prefsTimeout)
		err := s.prefs.SetLanguage(pctx, code)
		cancel()
		if err != nil {
			// the switch still applies for this process
			s.logger.Warn("language_persist_failed", zap.String("code", code), zap.Error(err))
		}
	}
	s.mu.Lock()
	s.lang = code
	s.mu.Unlock()
	s.logger.Info("language_set", zap.String("code", code))
	s.writeState(ctx, fasthttp.StatusOK)
}

func (s *Server) writeState(ctx *fasthttp.RequestCtx, status int) {
	writeJSON(ctx, status, s.state())
}

func (s *Server) state() chessdto.ViewState {
	st := s.presenter.Formatter().ToViewState(s.ctrl.View(), s.Language())
	if s.openings != nil {
		if code, title := s.openings.Opening(); code != "" {
			st.Opening = &chessdto.Opening{Code: code, Name: title}
		}
	}
	return st
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, code, key string, data any) {
	msg := s.presenter.Formatter().Render(s.Language(), key, data)
	writeJSON(ctx, status, chessdto.DomainError{Code: code, Message: msg})
}

func (s *Server) internalError(ctx *fasthttp.RequestCtx, err error) {
	s.logger.Error("http_internal_error", zap.ByteString("path", ctx.Path()), zap.Error(err))
	writeJSON(ctx, fasthttp.StatusInternalServerError, chessdto.DomainError{Code: chessdto.CodeInternal, Message: err.Error(), Retryable: true})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		ctx.Error("encode response", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(payload)
}

// moveOf pulls the move notation out of an ErrIllegalMove error
// ("illegal move: e2e5: ...").
func moveOf(err error) string {
	parts := strings.SplitN(err.Error(), ": ", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Serve runs until ctx is cancelled, then shuts the server down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "chess3d",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("http_listen", zap.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
		if err := srv.Shutdown(); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
