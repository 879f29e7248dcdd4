// Package config loads the two-site configuration file. Every command
// needs both sites; there is no single-site mode.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mirrorctl/internal/element"
	"mirrorctl/internal/pairing"
)

const (
	envConfig      = "MIRRORCTL_CONFIG"
	envSrcPassword = "MIRRORCTL_SRC_PASSWORD"
	envDstPassword = "MIRRORCTL_DST_PASSWORD"
)

// Site is the connection profile of one cluster's management endpoint.
// The password may be left out of the file and supplied through
// MIRRORCTL_SRC_PASSWORD / MIRRORCTL_DST_PASSWORD instead.
type Site struct {
	Mvip          string `yaml:"mvip"`
	Username      string `yaml:"username"`
	Password      string `yaml:"password,omitempty"`
	SkipTLSVerify bool   `yaml:"skip_tls_verify,omitempty"`
}

func (s Site) validate(side string) error {
	if strings.TrimSpace(s.Mvip) == "" {
		return fmt.Errorf("%s: mvip must be set", side)
	}
	if strings.TrimSpace(s.Username) == "" {
		return fmt.Errorf("%s: username must be set", side)
	}
	return nil
}

// Config holds both site profiles. Src is the replication source for the
// whole invocation; there is no per-command override.
type Config struct {
	Src Site `yaml:"src"`
	Dst Site `yaml:"dst"`

	path string
}

// DefaultPath resolves the config file location, honoring the
// MIRRORCTL_CONFIG override.
func DefaultPath() string {
	if fromEnv := strings.TrimSpace(os.Getenv(envConfig)); fromEnv != "" {
		return fromEnv
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return filepath.Join(".config", "mirrorctl", "config.yaml")
		}
		return filepath.Join(home, ".config", "mirrorctl", "config.yaml")
	}
	return filepath.Join(dir, "mirrorctl", "config.yaml")
}

// Load reads and validates the config file at path, falling back to
// DefaultPath when path is empty.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg := &Config{path: path}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	if pw := os.Getenv(envSrcPassword); pw != "" {
		cfg.Src.Password = pw
	}
	if pw := os.Getenv(envDstPassword); pw != "" {
		cfg.Dst.Password = pw
	}

	if err := cfg.Src.validate("src"); err != nil {
		return nil, err
	}
	if err := cfg.Dst.validate("dst"); err != nil {
		return nil, err
	}
	if cfg.Src.Password == "" {
		return nil, fmt.Errorf("src: no password in file or %s", envSrcPassword)
	}
	if cfg.Dst.Password == "" {
		return nil, fmt.Errorf("dst: no password in file or %s", envDstPassword)
	}
	if cfg.Src.Mvip == cfg.Dst.Mvip {
		return nil, fmt.Errorf("src and dst point at the same endpoint %q", cfg.Src.Mvip)
	}
	return cfg, nil
}

// Path returns where the config was loaded from.
func (c *Config) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Dial connects both site sessions. Both must answer; a tool that can
// only see one side of a pair cannot validate anything.
func (c *Config) Dial(ctx context.Context) (src, dst pairing.SiteClient, err error) {
	srcClient, err := dialSite(ctx, c.Src)
	if err != nil {
		return nil, nil, fmt.Errorf("src: %w", err)
	}
	dstClient, err := dialSite(ctx, c.Dst)
	if err != nil {
		return nil, nil, fmt.Errorf("dst: %w", err)
	}
	if srcClient.ClusterName() == dstClient.ClusterName() {
		return nil, nil, fmt.Errorf("src and dst resolve to the same cluster %q", srcClient.ClusterName())
	}
	return srcClient, dstClient, nil
}

func dialSite(ctx context.Context, s Site) (*element.Client, error) {
	var opts []element.ClientOption
	if s.SkipTLSVerify {
		opts = append(opts, element.WithInsecureTLS())
	}
	client, err := element.NewClient(s.Mvip, s.Username, s.Password, opts...)
	if err != nil {
		return nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}
