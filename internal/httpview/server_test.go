package httpview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/park285/chess3d/internal/adapter/chesspresenter"
	"github.com/park285/chess3d/internal/board"
	"github.com/park285/chess3d/internal/interaction"
	"github.com/park285/chess3d/internal/msgcat"
	"github.com/park285/chess3d/internal/prefs"
	"github.com/park285/chess3d/internal/render"
	"github.com/park285/chess3d/internal/rules"
	"github.com/park285/chess3d/internal/scene"
	"github.com/park285/chess3d/pkg/chessdto"
)

// rejectingAuthority accepts nothing, so every attempted move is illegal.
type rejectingAuthority struct{ *rules.Engine }

func (rejectingAuthority) CommitMove(from, to board.Point, _ *board.PieceKind) error {
	return fmt.Errorf("%w: %v->%v", rules.ErrRejected, from, to)
}

type fixture struct {
	srv    *Server
	ctrl   *interaction.Controller
	layout render.Layout
	prefs  *prefs.MemoryStore
}

func newFixture(t *testing.T, authority rules.Authority) *fixture {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	layout := render.NewLayout(40)
	ctrl := interaction.NewController(authority, interaction.WithScene(scene.New()))
	presenter := chesspresenter.NewPresenter(render.NewPNGRenderer(layout, nil), chesspresenter.NewFormatter(cat))
	store := prefs.NewMemoryStore()
	return &fixture{
		srv:    NewServer(ctrl, presenter, layout, "en", WithPrefs(store)),
		ctrl:   ctrl,
		layout: layout,
		prefs:  store,
	}
}

func (f *fixture) do(t *testing.T, method, uri string) *fasthttp.RequestCtx {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	f.srv.Handler()(ctx)
	return ctx
}

func (f *fixture) click(t *testing.T, notation string) *fasthttp.RequestCtx {
	t.Helper()
	sq := board.MustSquare(int('8'-notation[1]), int(notation[0]-'a'))
	p := f.layout.SquareCenter(sq)
	return f.do(t, fasthttp.MethodPost, fmt.Sprintf("/click?x=%d&y=%d", p.X, p.Y))
}

func decodeState(t *testing.T, ctx *fasthttp.RequestCtx) chessdto.ViewState {
	t.Helper()
	var st chessdto.ViewState
	if err := json.Unmarshal(ctx.Response.Body(), &st); err != nil {
		t.Fatalf("decode state: %v (%s)", err, ctx.Response.Body())
	}
	return st
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) chessdto.DomainError {
	t.Helper()
	var de chessdto.DomainError
	if err := json.Unmarshal(ctx.Response.Body(), &de); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return de
}

func TestStateAndBoard(t *testing.T) {
	f := newFixture(t, rules.NewEngine())

	ctx := f.do(t, fasthttp.MethodGet, "/state")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	st := decodeState(t, ctx)
	if len(st.Pieces) != 32 || st.Language != "en" || st.SideToMove != "white" {
		t.Fatalf("state = %+v", st)
	}

	ctx = f.do(t, fasthttp.MethodGet, "/board.png")
	if got := string(ctx.Response.Header.ContentType()); got != "image/png" {
		t.Fatalf("content type = %q", got)
	}
	img, err := png.Decode(bytes.NewReader(ctx.Response.Body()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds() != f.layout.Bounds() {
		t.Fatalf("image bounds = %v", img.Bounds())
	}
}

func TestClickSelectsThenMoves(t *testing.T) {
	f := newFixture(t, rules.NewEngine())

	st := decodeState(t, f.click(t, "e2"))
	if st.Selected != "e2" || len(st.Destinations) != 2 {
		t.Fatalf("after e2: %+v", st)
	}
	st = decodeState(t, f.click(t, "e4"))
	if len(st.Moves) != 1 || st.Moves[0] != "e2e4" || st.SideToMove != "black" {
		t.Fatalf("after e4: %+v", st)
	}
	if st.Selected != "" {
		t.Fatalf("selection not cleared")
	}
}

func TestClickOffBoardDeselects(t *testing.T) {
	f := newFixture(t, rules.NewEngine())
	f.click(t, "e2")
	st := decodeState(t, f.do(t, fasthttp.MethodPost, "/click?x=1&y=1"))
	if st.Selected != "" {
		t.Fatalf("margin click should deselect")
	}
}

func TestClickRejectedMove(t *testing.T) {
	f := newFixture(t, rejectingAuthority{rules.NewEngine()})
	f.click(t, "e2")
	ctx := f.click(t, "e4")
	if ctx.Response.StatusCode() != fasthttp.StatusConflict {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	de := decodeError(t, ctx)
	if de.Code != chessdto.CodeIllegalMove || de.Message != "Illegal move: e2e4" {
		t.Fatalf("error = %+v", de)
	}
	if len(f.ctrl.Moves()) != 0 || f.ctrl.SideToMove() != board.White {
		t.Fatalf("rejected move changed state")
	}
}

func TestClickBadArgs(t *testing.T) {
	f := newFixture(t, rules.NewEngine())
	ctx := f.do(t, fasthttp.MethodPost, "/click?x=abc")
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	if de := decodeError(t, ctx); de.Code != chessdto.CodeBadRequest {
		t.Fatalf("error = %+v", de)
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t, rules.NewEngine())
	before := f.ctrl.GameID()
	f.click(t, "e2")
	f.click(t, "e4")

	st := decodeState(t, f.do(t, fasthttp.MethodPost, "/reset"))
	if len(st.Moves) != 0 || st.SideToMove != "white" || st.GameID == before {
		t.Fatalf("after reset: %+v", st)
	}
}

func TestLanguageSwitch(t *testing.T) {
	f := newFixture(t, rules.NewEngine())

	st := decodeState(t, f.do(t, fasthttp.MethodPost, "/language?code=ZH"))
	if st.Language != "zh" || st.Labels.Title != "3D 国际象棋" {
		t.Fatalf("state = %+v", st)
	}
	if got, _ := f.prefs.Language(context.Background()); got != "zh" {
		t.Fatalf("stored language = %q", got)
	}

	ctx := f.do(t, fasthttp.MethodPost, "/language?code=fr")
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	if de := decodeError(t, ctx); de.Code != chessdto.CodeUnknownLanguage {
		t.Fatalf("error = %+v", de)
	}
	if f.srv.Language() != "zh" {
		t.Fatalf("failed switch changed the language")
	}
}

func TestRestoreLanguage(t *testing.T) {
	f := newFixture(t, rules.NewEngine())
	_ = f.prefs.SetLanguage(context.Background(), "zh")
	f.srv.RestoreLanguage(context.Background())
	if f.srv.Language() != "zh" {
		t.Fatalf("language = %q", f.srv.Language())
	}

	_ = f.prefs.SetLanguage(context.Background(), "xx")
	f.srv.RestoreLanguage(context.Background())
	if f.srv.Language() != "zh" {
		t.Fatalf("unknown stored language should be ignored")
	}
}

func TestRouting(t *testing.T) {
	f := newFixture(t, rules.NewEngine())
	if c := f.do(t, fasthttp.MethodGet, "/nope").Response.StatusCode(); c != fasthttp.StatusNotFound {
		t.Fatalf("404 expected, got %d", c)
	}
	if c := f.do(t, fasthttp.MethodGet, "/click").Response.StatusCode(); c != fasthttp.StatusMethodNotAllowed {
		t.Fatalf("405 expected, got %d", c)
	}
}

func TestIndexAndHelp(t *testing.T) {
	f := newFixture(t, rules.NewEngine())
	body := string(f.do(t, fasthttp.MethodGet, "/").Response.Body())
	if !strings.Contains(body, "<title>3D Chess</title>") || !strings.Contains(body, `data-lang="zh"`) {
		t.Fatalf("index page missing parts")
	}

	var help map[string]string
	if err := json.Unmarshal(f.do(t, fasthttp.MethodGet, "/help").Response.Body(), &help); err != nil {
		t.Fatalf("decode help: %v", err)
	}
	if help["title"] != "3D Chess Help" || help["text"] == "" {
		t.Fatalf("help = %v", help)
	}
}

func TestClientAgainstServer(t *testing.T) {
	f := newFixture(t, rules.NewEngine())
	ln := fasthttputil.NewInmemoryListener()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	c := NewClient("http://chess3d.test", WithDialer(func(string) (net.Conn, error) { return ln.Dial() }))

	st, err := c.State(ctx)
	if err != nil || len(st.Pieces) != 32 {
		t.Fatalf("State = %+v, %v", st, err)
	}

	p := f.layout.SquareCenter(board.MustSquare(6, 4))
	st, err = c.Click(ctx, p.X, p.Y)
	if err != nil || st.Selected != "e2" {
		t.Fatalf("Click = %+v, %v", st, err)
	}

	_, err = c.SetLanguage(ctx, "fr")
	var de chessdto.DomainError
	if !errors.As(err, &de) || de.Code != chessdto.CodeUnknownLanguage {
		t.Fatalf("SetLanguage err = %v", err)
	}

	img, err := c.BoardPNG(ctx)
	if err != nil || len(img) == 0 {
		t.Fatalf("BoardPNG = %d bytes, %v", len(img), err)
	}

	st, err = c.Reset(ctx)
	if err != nil || st.Selected != "" {
		t.Fatalf("Reset = %+v, %v", st, err)
	}
}

type fixedOpening struct{ code, title string }

func (o fixedOpening) Opening() (string, string) { return o.code, o.title }

func TestStateOpening(t *testing.T) {
	f := newFixture(t, rules.NewEngine())
	if st := decodeState(t, f.do(t, fasthttp.MethodGet, "/state")); st.Opening != nil {
		t.Fatalf("opening without source = %+v", st.Opening)
	}

	WithOpenings(fixedOpening{})(f.srv)
	if st := decodeState(t, f.do(t, fasthttp.MethodGet, "/state")); st.Opening != nil {
		t.Fatalf("empty opening should be omitted: %+v", st.Opening)
	}

	WithOpenings(fixedOpening{code: "C60", title: "Ruy Lopez"})(f.srv)
	st := decodeState(t, f.do(t, fasthttp.MethodGet, "/state"))
	if st.Opening == nil || st.Opening.Code != "C60" || st.Opening.Name != "Ruy Lopez" {
		t.Fatalf("opening = %+v", st.Opening)
	}
	body := string(f.do(t, fasthttp.MethodGet, "/").Response.Body())
	if !strings.Contains(body, "C60 Ruy Lopez") {
		t.Fatalf("index page lacks opening")
	}
}
