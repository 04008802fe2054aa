package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/park285/chess3d/internal/board"
)

type AppConfig struct {
	HTTPAddr string

	Language    string
	MessagesDir string

	RedisURL string

	SquarePx  int
	Promotion board.PieceKind

	// FontFile is an optional TrueType/OpenType face for HUD text. The
	// built-in face only covers ASCII.
	FontFile string
	FontSize float64

	// StartFEN, when set, replaces the standard starting position.
	StartFEN string
}

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrBadPromotion        = errors.New("promotion must be queen, rook, bishop or knight")
)

// SupportedLanguages are the embedded message catalogs.
var SupportedLanguages = []string{"zh", "en"}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPAddr:  "127.0.0.1:8033",
		Language:  "zh",
		SquarePx:  72,
		Promotion: board.Queen,
		FontSize:  16,
	}

	if v := strings.TrimSpace(os.Getenv("CHESS3D_HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS3D_LANGUAGE")); v != "" {
		cfg.Language = strings.ToLower(v)
	}
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("CHESS3D_MESSAGES_DIR"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.StartFEN = strings.TrimSpace(os.Getenv("CHESS3D_START_FEN"))
	cfg.FontFile = strings.TrimSpace(os.Getenv("CHESS3D_FONT_FILE"))
	if v := strings.TrimSpace(os.Getenv("CHESS3D_FONT_SIZE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 6 && f <= 72 {
			cfg.FontSize = f
		}
	}

	if v := strings.TrimSpace(os.Getenv("CHESS3D_SQUARE_PX")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 24 && n <= 256 {
			cfg.SquarePx = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS3D_PROMOTION")); v != "" {
		k, ok := board.ParsePieceKind(v)
		if !ok || k == board.Pawn || k == board.King {
			return nil, fmt.Errorf("CHESS3D_PROMOTION=%q: %w", v, ErrBadPromotion)
		}
		cfg.Promotion = k
	}

	if !IsSupportedLanguage(cfg.Language) {
		return nil, fmt.Errorf("CHESS3D_LANGUAGE=%q: %w", cfg.Language, ErrUnsupportedLanguage)
	}
	if cfg.HTTPAddr == "" {
		return nil, errors.New("CHESS3D_HTTP_ADDR is required")
	}

	return cfg, nil
}

func IsSupportedLanguage(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}
