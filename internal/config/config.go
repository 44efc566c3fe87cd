// Package config reads astgen.toml and supplies the defaults used when no
// file exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"astgen/internal/layout"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "astgen.toml"

// DefaultDefinitions is the shipped definition set in load order.
var DefaultDefinitions = []string{
	"definitions/span.astdef",
	"definitions/literal.astdef",
	"definitions/operator.astdef",
	"definitions/js.astdef",
}

// Config is the resolved configuration of one run. Paths are relative to
// Root and slash-separated.
type Config struct {
	// Root is the directory definitions and outputs are resolved against.
	Root string
	// Path is the file the config came from; empty for defaults.
	Path string

	Definitions []string
	OutDir      string
	Package     string
	LayoutData  string
	SchemaPath  string
	Target      string

	FormatCommand []string
	NoFormat      bool
	Jobs          int
}

var (
	// ErrNoDefinitions indicates an empty [definitions].files list.
	ErrNoDefinitions = errors.New("no definition files")
	// ErrUnknownTarget indicates a [layout].target that is not supported.
	ErrUnknownTarget = errors.New("unknown layout target")
)

// Default returns the configuration used when no astgen.toml exists.
func Default() Config {
	return Config{
		Root:        ".",
		Definitions: append([]string(nil), DefaultDefinitions...),
		OutDir:      "ast",
		Package:     "ast",
		LayoutData:  "ast/layout.msgpack",
		Target:      layout.X86_64LinuxGNU().Triple,
	}
}

type fileConfig struct {
	Definitions struct {
		Files []string `toml:"files"`
	} `toml:"definitions"`
	Output struct {
		Dir        string `toml:"dir"`
		Package    string `toml:"package"`
		LayoutData string `toml:"layout_data"`
		Schema     string `toml:"schema"`
	} `toml:"output"`
	Layout struct {
		Target string `toml:"target"`
	} `toml:"layout"`
	Format struct {
		Enabled bool     `toml:"enabled"`
		Command []string `toml:"command"`
	} `toml:"format"`
	Run struct {
		Jobs int `toml:"jobs"`
	} `toml:"run"`
}

// Load parses path and overlays every key it defines onto Default. Root
// becomes the directory of path.
func Load(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg := Default()
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if meta.IsDefined("definitions", "files") {
		cfg.Definitions = fc.Definitions.Files
	}
	if meta.IsDefined("output", "dir") {
		cfg.OutDir = strings.TrimSpace(fc.Output.Dir)
	}
	if meta.IsDefined("output", "package") {
		cfg.Package = strings.TrimSpace(fc.Output.Package)
	}
	if meta.IsDefined("output", "layout_data") {
		cfg.LayoutData = strings.TrimSpace(fc.Output.LayoutData)
	}
	if meta.IsDefined("output", "schema") {
		cfg.SchemaPath = strings.TrimSpace(fc.Output.Schema)
	}
	if meta.IsDefined("layout", "target") {
		cfg.Target = strings.TrimSpace(fc.Layout.Target)
	}
	if meta.IsDefined("format", "enabled") {
		cfg.NoFormat = !fc.Format.Enabled
	}
	if meta.IsDefined("format", "command") {
		cfg.FormatCommand = fc.Format.Command
	}
	if meta.IsDefined("run", "jobs") {
		cfg.Jobs = fc.Run.Jobs
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that Load cannot express in types.
func (c *Config) Validate() error {
	if len(c.Definitions) == 0 {
		return ErrNoDefinitions
	}
	for _, p := range c.Definitions {
		if err := relative("definition", p); err != nil {
			return err
		}
	}
	if c.OutDir == "" {
		return errors.New("empty output dir")
	}
	for _, p := range []string{c.OutDir, c.LayoutData, c.SchemaPath} {
		if p == "" {
			continue
		}
		if err := relative("output", p); err != nil {
			return err
		}
	}
	if !isGoIdent(c.Package) {
		return fmt.Errorf("invalid package name %q", c.Package)
	}
	if _, ok := layout.LookupTarget(c.Target); !ok {
		return fmt.Errorf("%w %q (supported: %s)", ErrUnknownTarget, c.Target, strings.Join(layout.Triples(), ", "))
	}
	if c.Jobs < 0 {
		return fmt.Errorf("invalid jobs %d", c.Jobs)
	}
	return nil
}

func relative(what, p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("empty %s path", what)
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return fmt.Errorf("%s path %q must be relative", what, p)
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(p)))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%s path %q escapes the project root", what, p)
	}
	return nil
}

func isGoIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Find walks up from startDir to locate astgen.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads path when given, else the nearest astgen.toml above
// startDir, else Default rooted at startDir.
func Resolve(path, startDir string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	found, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if ok {
		return Load(found)
	}
	cfg := Default()
	if startDir != "" {
		cfg.Root = startDir
	}
	return cfg, nil
}
