// Package config loads the site configuration: studypress.yml when present,
// overridden by STUDYPRESS_* environment variables, with working defaults for
// everything so the tool runs in a bare content directory.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no -config flag is
// given.
const DefaultFile = "studypress.yml"

type Config struct {
	Title      string `yaml:"title"`
	ContentDir string `yaml:"content_dir"`
	OutputDir  string `yaml:"output_dir"`
	HTTPAddr   string `yaml:"http_addr"`

	// CORSOrigins allowed by the preview server.
	CORSOrigins []string `yaml:"cors_origins"`

	// Strict makes quiz authoring errors fail the build. When false they
	// degrade to warnings and the defective questions render non-gradable.
	Strict bool `yaml:"strict"`
}

func Default() Config {
	return Config{
		Title:       "Textbook",
		ContentDir:  "content",
		OutputDir:   "site",
		HTTPAddr:    ":8080",
		CORSOrigins: []string{"http://localhost:8080"},
		Strict:      true,
	}
}

// Load reads path (or DefaultFile if path is empty and it exists) and applies
// environment overrides on top. A missing explicit path is an error; a
// missing default file is not.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// defaults only
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.Title = envOr("STUDYPRESS_TITLE", cfg.Title)
	cfg.ContentDir = envOr("STUDYPRESS_CONTENT_DIR", cfg.ContentDir)
	cfg.OutputDir = envOr("STUDYPRESS_OUTPUT_DIR", cfg.OutputDir)
	cfg.HTTPAddr = envOr("STUDYPRESS_HTTP_ADDR", cfg.HTTPAddr)
	cfg.CORSOrigins = csvOr("STUDYPRESS_CORS_ORIGINS", cfg.CORSOrigins)
	cfg.Strict = envBool("STUDYPRESS_STRICT", cfg.Strict)

	return cfg, nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
