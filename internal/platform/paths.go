// Package platform resolves per-user config and data locations.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultAppName names the config and data directories.
const DefaultAppName = "tablero"

// Paths holds the resolved per-user locations for one app name.
type Paths struct {
	ConfigDir  string
	ConfigPath string
	SeedPath   string
	DataDir    string
	DBPath     string
	LogDir     string
}

// Options selects the app name and dev mode for path resolution.
type Options struct {
	AppName string
	DevMode bool
}

// BaseDirs are the user-level roots app directories are created under.
type BaseDirs struct {
	Config string
	Data   string
}

// envOverrides names, per GOOS, the variables that replace the config and data roots.
var envOverrides = map[string]struct{ config, data string }{
	"linux":   {config: "XDG_CONFIG_HOME", data: "XDG_DATA_HOME"},
	"windows": {config: "APPDATA", data: "LOCALAPPDATA"},
}

// DefaultPaths resolves paths for DefaultAppName on the running platform.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions resolves paths from the user dirs of the running platform.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	base, err := userBaseDirs(runtime.GOOS)
	if err != nil {
		return Paths{}, err
	}
	return Resolve(runtime.GOOS, os.Getenv, base, AppName(opts))
}

// AppName returns the directory name for opts. Dev mode gets its own "-dev" directories.
func AppName(opts Options) string {
	name := strings.TrimSpace(opts.AppName)
	if name == "" {
		name = DefaultAppName
	}
	if opts.DevMode {
		name += "-dev"
	}
	return name
}

// userBaseDirs returns the OS user dirs. Linux keeps data under ~/.local/share.
func userBaseDirs(goos string) (BaseDirs, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return BaseDirs{}, fmt.Errorf("user config dir: %w", err)
	}
	base := BaseDirs{Config: configDir, Data: configDir}
	if goos == "linux" {
		home, err := os.UserHomeDir()
		if err != nil {
			return BaseDirs{}, fmt.Errorf("user home dir: %w", err)
		}
		base.Data = filepath.Join(home, ".local", "share")
	}
	return base, nil
}

// Resolve builds Paths for appName under base, applying the env overrides of goos. getenv may be nil.
func Resolve(goos string, getenv func(string) string, base BaseDirs, appName string) (Paths, error) {
	if base.Config == "" || base.Data == "" {
		return Paths{}, fmt.Errorf("empty base dirs")
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, fmt.Errorf("empty app name")
	}
	if keys, ok := envOverrides[goos]; ok && getenv != nil {
		if v := getenv(keys.config); v != "" {
			base.Config = v
		}
		if v := getenv(keys.data); v != "" {
			base.Data = v
		}
	}

	configDir := filepath.Join(base.Config, appName)
	dataDir := filepath.Join(base.Data, appName)
	return Paths{
		ConfigDir:  configDir,
		ConfigPath: filepath.Join(configDir, "config.toml"),
		SeedPath:   filepath.Join(configDir, "seed.yaml"),
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, appName+".db"),
		LogDir:     filepath.Join(dataDir, "log"),
	}, nil
}
