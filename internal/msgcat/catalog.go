package msgcat

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	yaml "gopkg.in/yaml.v3"
)

//go:embed messages.*.yaml
var defaultFiles embed.FS

const DefaultLanguage = "zh"

var ErrUnknownLanguage = errors.New("unknown language")

// Catalog holds per-language string templates loaded from the embedded
// defaults and an optional override directory. Values are rendered with
// text/template (missing keys cause errors).
type Catalog struct {
	mu    sync.RWMutex
	langs map[string]map[string]string // language → flattened dot-keys → template text
}

// New loads the embedded messages.<lang>.yaml files and then applies
// overrides from dir if provided. Override files must use the same naming.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{langs: make(map[string]map[string]string)}

	if err := c.loadEmbedded(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) loadEmbedded() error {
	entries, err := fs.ReadDir(defaultFiles, ".")
	if err != nil {
		return fmt.Errorf("read embedded messages: %w", err)
	}
	for _, e := range entries {
		lang, ok := languageOf(e.Name())
		if !ok {
			continue
		}
		raw, err := fs.ReadFile(defaultFiles, e.Name())
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", e.Name(), err)
		}
		if err := c.applyYAML(lang, raw); err != nil {
			return fmt.Errorf("parse embedded %s: %w", e.Name(), err)
		}
	}
	return nil
}

// languageOf extracts "en" from "messages.en.yaml".
func languageOf(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".yaml" && ext != ".yml" {
		return "", false
	}
	parts := strings.Split(strings.TrimSuffix(name, filepath.Ext(name)), ".")
	if len(parts) != 2 || parts[0] != "messages" || parts[1] == "" {
		return "", false
	}
	return strings.ToLower(parts[1]), true
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read template dir: %w", err)
	}
	// Sort for deterministic order
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := languageOf(e.Name()); ok {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	// Guard against duplicate keys across override files of one language
	seen := make(map[string]string) // lang/key -> filename
	for _, name := range files {
		lang, _ := languageOf(name)
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		flat, err := parseYAMLToFlat(b)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k := range flat {
			id := lang + "/" + k
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("duplicate override key %q in %s and %s", k, prev, name)
			}
			seen[id] = name
		}
		c.merge(lang, flat)
	}
	return nil
}

func parseYAMLToFlat(b []byte) (map[string]string, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	flat := make(map[string]string)
	if err := flattenStrings(m, "", flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func (c *Catalog) applyYAML(lang string, b []byte) error {
	flat, err := parseYAMLToFlat(b)
	if err != nil {
		return err
	}
	c.merge(lang, flat)
	return nil
}

func (c *Catalog) merge(lang string, flat map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dst, ok := c.langs[lang]
	if !ok {
		dst = make(map[string]string, len(flat))
		c.langs[lang] = dst
	}
	for k, v := range flat {
		dst[k] = v
	}
}

func flattenStrings(src any, prefix string, out map[string]string) error {
	switch v := src.(type) {
	case map[string]any:
		for k, vv := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flattenStrings(vv, key, out); err != nil {
				return err
			}
		}
		return nil
	case map[any]any: // tolerate legacy YAML decoders
		tmp := make(map[string]any)
		for kk, vv := range v {
			tmp[fmt.Sprint(kk)] = vv
		}
		return flattenStrings(tmp, prefix, out)
	case string:
		if prefix == "" {
			return errors.New("string value without key prefix")
		}
		out[prefix] = v
		return nil
	case nil:
		return nil
	default:
		// Only string leaves are allowed to avoid type confusion
		return fmt.Errorf("unsupported value at %s: %T", prefix, v)
	}
}

// Languages returns the loaded language codes, sorted.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.langs))
	for l := range c.langs {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) HasLanguage(lang string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.langs[normalize(lang)]
	return ok
}

func normalize(lang string) string { return strings.ToLower(strings.TrimSpace(lang)) }

// Render executes a template by key for lang with the provided data.
// Keys missing from lang fall back to DefaultLanguage; missing everywhere is
// an error and the caller should provide a safe fallback.
func (c *Catalog) Render(lang, key string, data any) (string, error) {
	lang = normalize(lang)
	key = strings.TrimSpace(key)
	c.mu.RLock()
	if _, ok := c.langs[lang]; !ok {
		c.mu.RUnlock()
		return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, lang)
	}
	tpl, ok := c.langs[lang][key]
	if !ok {
		tpl, ok = c.langs[DefaultLanguage][key]
	}
	c.mu.RUnlock()
	if !ok || strings.TrimSpace(tpl) == "" {
		return "", fmt.Errorf("template not found: %s/%s", lang, key)
	}
	t, err := template.New(key).Option("missingkey=error").Parse(tpl)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Text renders key without data and returns the key itself on any error.
func (c *Catalog) Text(lang, key string) string {
	s, err := c.Render(lang, key, nil)
	if err != nil {
		return key
	}
	return s
}
