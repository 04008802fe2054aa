package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/park285/chess3d/internal/board"
	"github.com/park285/chess3d/internal/chessbuilder"
	appcfg "github.com/park285/chess3d/internal/config"
	"github.com/park285/chess3d/internal/httpview"
	"github.com/park285/chess3d/internal/obslog"
)

const defaultServerURL = "http://127.0.0.1:8033"

func main() {
	serverFlag := &cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "base URL of a running chess3d server",
		Value:   defaultServerURL,
		Sources: cli.EnvVars("CHESS3D_SERVER_URL"),
	}
	clientFlags := []cli.Flag{serverFlag}

	if err := (&cli.Command{
		Name:  "chess3d",
		Usage: "interactive chess board served to a local viewer",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the board server (default)",
				Action: func(ctx context.Context, c *cli.Command) error { return runServe(ctx) },
			},
			{
				Name:      "render",
				Usage:     "write the board as PNG",
				ArgsUsage: "<file.png>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "fen", Usage: "start position in FEN"},
					&cli.StringFlag{Name: "moves", Usage: "comma separated moves to play first, e.g. e2e4,e7e5"},
					&cli.StringFlag{Name: "lang", Usage: "HUD language"},
				},
				Action: runRender,
			},
			{
				Name:   "state",
				Usage:  "print the server's view state as JSON",
				Flags:  clientFlags,
				Action: withClient(func(ctx context.Context, cl *httpview.Client, c *cli.Command) (any, error) { return cl.State(ctx) }),
			},
			{
				Name:      "click",
				Usage:     "click the board image at pixel x y",
				ArgsUsage: "<x> <y>",
				Flags:     clientFlags,
				Action: withClient(func(ctx context.Context, cl *httpview.Client, c *cli.Command) (any, error) {
					x, errX := strconv.Atoi(c.Args().Get(0))
					y, errY := strconv.Atoi(c.Args().Get(1))
					if errX != nil || errY != nil {
						return nil, fmt.Errorf("click needs integer x and y")
					}
					return cl.Click(ctx, x, y)
				}),
			},
			{
				Name:   "reset",
				Usage:  "start a new game",
				Flags:  clientFlags,
				Action: withClient(func(ctx context.Context, cl *httpview.Client, c *cli.Command) (any, error) { return cl.Reset(ctx) }),
			},
			{
				Name:      "language",
				Usage:     "switch the display language",
				ArgsUsage: "<code>",
				Flags:     clientFlags,
				Action: withClient(func(ctx context.Context, cl *httpview.Client, c *cli.Command) (any, error) {
					code := strings.TrimSpace(c.Args().First())
					if code == "" {
						return nil, fmt.Errorf("language code is required")
					}
					return cl.SetLanguage(ctx, code)
				}),
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error { return runServe(ctx) },
	}).Run(context.Background(), os.Args); err != nil {
		log.Fatalf("chess3d: %v", err)
	}
}

func runServe(ctx context.Context) error {
	if err := obslog.InitFromEnv(); err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	deps, err := chessbuilder.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init error: %w", err)
	}
	defer func() { _ = deps.Close() }()

	rctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	deps.Server.RestoreLanguage(rctx)
	cancel()

	sctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("chess3d_start",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("language", deps.Server.Language()),
		zap.String("game_id", deps.Controller.GameID()),
	)
	if err := deps.Server.ListenAndServe(sctx, cfg.HTTPAddr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("chess3d_stop")
	return nil
}

func runRender(ctx context.Context, c *cli.Command) error {
	out := strings.TrimSpace(c.Args().First())
	if out == "" {
		return fmt.Errorf("output file is required")
	}

	cfg, err := appcfg.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	// the render command never persists preferences
	cfg.RedisURL = ""
	if fen := strings.TrimSpace(c.String("fen")); fen != "" {
		cfg.StartFEN = fen
	}
	lang := cfg.Language
	if l := strings.TrimSpace(c.String("lang")); l != "" {
		lang = strings.ToLower(l)
	}

	deps, err := chessbuilder.New(cfg, zap.NewNop())
	if err != nil {
		return fmt.Errorf("init error: %w", err)
	}
	defer func() { _ = deps.Close() }()

	if err := playMoves(deps, c.String("moves")); err != nil {
		return err
	}

	png, err := deps.Presenter.BoardPNG(ctx, deps.Controller.View(), lang)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(png))
	return nil
}

// playMoves submits "e2e4"-style moves in order through the controller.
func playMoves(deps *chessbuilder.Deps, raw string) error {
	for _, mv := range strings.Split(raw, ",") {
		mv = strings.TrimSpace(mv)
		if mv == "" {
			continue
		}
		if len(mv) < 4 {
			return fmt.Errorf("move %q: want <from><to>", mv)
		}
		from, err := board.ParseSquare(mv[:2])
		if err != nil {
			return fmt.Errorf("move %q: %w", mv, err)
		}
		to, err := board.ParseSquare(mv[2:4])
		if err != nil {
			return fmt.Errorf("move %q: %w", mv, err)
		}
		if err := deps.Controller.AttemptMove(from, to); err != nil {
			return err
		}
	}
	return nil
}

type clientCall func(ctx context.Context, cl *httpview.Client, c *cli.Command) (any, error)

func withClient(call clientCall) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		cl := httpview.NewClient(c.String("server"), httpview.WithTimeout(5*time.Second))
		res, err := call(ctx, cl, c)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
}
