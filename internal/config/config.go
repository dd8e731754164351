package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "lanpin"
	configFile = "config.yaml"
)

// Scan holds the resolver defaults. Durations are plain integers so the
// file stays trivial to hand-edit: seconds for the coarse knobs,
// milliseconds for the per-host one.
type Scan struct {
	// MaxHosts caps how many candidate addresses a subnet may hold
	// before the scan is refused.
	MaxHosts int `yaml:"max_hosts"`

	// Concurrency is the number of parallel probes.
	Concurrency int `yaml:"concurrency"`

	// ProbeTimeoutMS is the per-host reply deadline in milliseconds.
	ProbeTimeoutMS int `yaml:"probe_timeout_ms"`

	// TimeoutS bounds a whole scan, in seconds.
	TimeoutS int `yaml:"timeout_s"`

	// Prober selects the probing strategy: "auto", "arp" or "neighbor".
	Prober string `yaml:"prober"`
}

// Announce holds the announcer defaults.
type Announce struct {
	// Service is the DNS-SD service type the binding is published under.
	Service string `yaml:"service"`

	// Port is published in the SRV record.
	Port int `yaml:"port"`
}

// Settings is the on-disk configuration. Every field has a sane
// default; the file is optional.
type Settings struct {
	Scan     Scan     `yaml:"scan"`
	Announce Announce `yaml:"announce"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Scan: Scan{
			MaxHosts:       4096,
			Concurrency:    64,
			ProbeTimeoutMS: 1000,
			TimeoutS:       30,
			Prober:         "auto",
		},
		Announce: Announce{
			Service: "_workstation._tcp",
			Port:    80,
		},
	}
}

// Dir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/lanpin or $HOME/.config/lanpin
//   - macOS: $HOME/.config/lanpin
//   - Windows: %LOCALAPPDATA%\lanpin
func Dir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// Path returns the full path to the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads settings from path, filling unset fields from the
// defaults. A missing file yields the defaults without error.
func Load(path string) (*Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyDefaults(settings)
	return settings, nil
}

// LoadDefault loads settings from the per-user configuration file.
func LoadDefault() (*Settings, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// applyDefaults backfills zero-valued fields so a partial file still
// produces a complete configuration.
func applyDefaults(s *Settings) {
	d := Default()
	if s.Scan.MaxHosts <= 0 {
		s.Scan.MaxHosts = d.Scan.MaxHosts
	}
	if s.Scan.Concurrency <= 0 {
		s.Scan.Concurrency = d.Scan.Concurrency
	}
	if s.Scan.ProbeTimeoutMS <= 0 {
		s.Scan.ProbeTimeoutMS = d.Scan.ProbeTimeoutMS
	}
	if s.Scan.TimeoutS <= 0 {
		s.Scan.TimeoutS = d.Scan.TimeoutS
	}
	if s.Scan.Prober == "" {
		s.Scan.Prober = d.Scan.Prober
	}
	if s.Announce.Service == "" {
		s.Announce.Service = d.Announce.Service
	}
	if s.Announce.Port <= 0 {
		s.Announce.Port = d.Announce.Port
	}
}
