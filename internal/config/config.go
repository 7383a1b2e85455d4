// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Project   Project   `toml:"project"`
	Build     Build     `toml:"build"`
	Watch     Watch     `toml:"watch"`
	Serve     Serve     `toml:"serve"`
	Store     Store     `toml:"store"`
	Telemetry Telemetry `toml:"telemetry"`
	Inventory Inventory `toml:"inventory"`
	ORDS      ORDS      `toml:"ords"`
}

type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type Build struct {
	SourceDir string   `toml:"source_dir"`
	OutputDir string   `toml:"output_dir"`
	Formats   []string `toml:"formats"` // html, markdown
	Exclude   []string `toml:"exclude"` // glob patterns, relative to source_dir
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	Rate     float64       `toml:"rate"` // rebuilds per second
	Burst    int           `toml:"burst"`
}

type Serve struct {
	Addr string `toml:"addr"`
}

type Store struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Telemetry struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

type Inventory struct {
	Export  string   `toml:"export"`   // path the project inventory is written to
	BaseURL string   `toml:"base_url"` // public URL this project's pages are served under
	Imports []string `toml:"imports"`  // inventory files of other projects
}

type ORDS struct {
	Spec  string `toml:"spec"` // OpenAPI document path or URL
	Doc   string `toml:"doc"`  // document id of the generated reference page
	Title string `toml:"title"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Project.Name == "" {
		cfg.Project.Name = "plsqldoc"
	}
	if cfg.Project.Version == "" {
		cfg.Project.Version = "0.0.0"
	}
	if cfg.Build.SourceDir == "" {
		cfg.Build.SourceDir = "docs"
	}
	if cfg.Build.OutputDir == "" {
		cfg.Build.OutputDir = "site"
	}
	if len(cfg.Build.Formats) == 0 {
		cfg.Build.Formats = []string{"html"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.Rate == 0 {
		cfg.Watch.Rate = 2
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 1
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":8080"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "plsqldoc.db"
	}
	if cfg.ORDS.Doc == "" {
		cfg.ORDS.Doc = "api/rest"
	}
	if cfg.ORDS.Title == "" {
		cfg.ORDS.Title = "REST API"
	}
}
