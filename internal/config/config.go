package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config is shared by the shell and the daemon. Both read the same file so
// they agree on the socket location and browser choice.
type Config struct {
	// Browser is the Playwright browser to detect and install.
	Browser string `yaml:"browser"`
	// SocketDir overrides the directory the daemon socket lives in.
	SocketDir string `yaml:"socketDir,omitempty"`
	// Notify controls desktop notifications on install completion.
	Notify bool `yaml:"notify"`
	// Debug enables debug logging.
	Debug bool `yaml:"debug,omitempty"`
}

func Default() *Config {
	return &Config{
		Browser: "chromium",
		Notify:  true,
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "webrig")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "webrig")
	}
	return filepath.Join(home, ".config", "webrig")
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Load reads the config file from fs, falling back to defaults when the file
// is missing. A missing file is not an error.
func Load(fs afero.Fs) (*Config, error) {
	return LoadFrom(fs, Path())
}

func LoadFrom(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Browser == "" {
		cfg.Browser = "chromium"
	}

	return cfg, nil
}

// Save writes the config back out, creating the directory if needed.
func Save(fs afero.Fs, cfg *Config) error {
	return SaveTo(fs, Path(), cfg)
}

func SaveTo(fs afero.Fs, path string, cfg *Config) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return afero.WriteFile(fs, path, data, 0o644)
}
