package chessbuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/font"

	"github.com/park285/chess3d/internal/adapter/chesspresenter"
	"github.com/park285/chess3d/internal/config"
	"github.com/park285/chess3d/internal/httpview"
	"github.com/park285/chess3d/internal/interaction"
	"github.com/park285/chess3d/internal/msgcat"
	"github.com/park285/chess3d/internal/prefs"
	"github.com/park285/chess3d/internal/render"
	"github.com/park285/chess3d/internal/rules"
	"github.com/park285/chess3d/internal/scene"
)

const redisDialTimeout = 5 * time.Second

type Deps struct {
	Engine     *rules.Engine
	Scene      *scene.Scene
	Controller *interaction.Controller
	Catalog    *msgcat.Catalog
	Renderer   *render.PNGRenderer
	Presenter  *chesspresenter.Presenter
	Prefs      prefs.Store
	Server     *httpview.Server

	closers []func() error
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Deps{}

	// Engine
	engine := rules.NewEngine()
	if fen := strings.TrimSpace(cfg.StartFEN); fen != "" {
		e, err := rules.NewEngineFromFEN(fen)
		if err != nil {
			return nil, fmt.Errorf("start position: %w", err)
		}
		engine = e
	}
	d.Engine = engine

	d.Scene = scene.New()
	d.Controller = interaction.NewController(engine,
		interaction.WithLogger(logger.Named("interaction")),
		interaction.WithPromotionPolicy(interaction.FixedPromotion(cfg.Promotion)),
		interaction.WithScene(d.Scene),
		interaction.WithBoardChanged(func() { logger.Debug("board_changed") }),
	)

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	if !cat.HasLanguage(cfg.Language) {
		return nil, fmt.Errorf("language %q: %w", cfg.Language, msgcat.ErrUnknownLanguage)
	}
	d.Catalog = cat

	face, err := loadFace(cfg)
	if err != nil {
		return nil, err
	}
	layout := render.NewLayout(cfg.SquarePx)
	d.Renderer = render.NewPNGRenderer(layout, face)
	d.Presenter = chesspresenter.NewPresenter(d.Renderer, chesspresenter.NewFormatter(cat))

	// Preferences (Redis optional)
	if strings.TrimSpace(cfg.RedisURL) != "" {
		ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
		defer cancel()
		store, err := prefs.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("init prefs: %w", err)
		}
		d.Prefs = store
		d.closers = append(d.closers, store.Close)
	} else {
		logger.Info("prefs_memory", zap.String("reason", "REDIS_URL empty"))
		d.Prefs = prefs.NewMemoryStore()
	}

	d.Server = httpview.NewServer(d.Controller, d.Presenter, layout, cfg.Language,
		httpview.WithLogger(logger.Named("httpview")),
		httpview.WithPrefs(d.Prefs),
		httpview.WithOpenings(engine),
	)
	return d, nil
}

func loadFace(cfg *config.AppConfig) (font.Face, error) {
	if cfg.FontFile == "" {
		return render.DefaultFace(), nil
	}
	face, err := render.LoadFace(cfg.FontFile, cfg.FontSize)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return face, nil
}

// Close releases external connections.
func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
