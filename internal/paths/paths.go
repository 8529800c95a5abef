package paths

import (
	"os"
	"path/filepath"
)

type Paths struct {
	ConfigDir string
	DataDir   string
	CacheDir  string
}

// GetPaths returns all base paths respecting environment variables
func GetPaths() Paths {
	return Paths{
		ConfigDir: getDir("GOFQ_CONFIG_HOME", "XDG_CONFIG_HOME", ".config", "gofq"),
		DataDir:   getDir("GOFQ_DATA_HOME", "XDG_DATA_HOME", ".local/share", "gofq"),
		CacheDir:  getDir("GOFQ_CACHE_HOME", "XDG_CACHE_HOME", ".cache", "gofq"),
	}
}

func getDir(gofqEnv, xdgEnv, defaultBase, appName string) string {
	// 1. Check gofq-specific env
	if dir := os.Getenv(gofqEnv); dir != "" {
		return dir
	}

	// 2. Check XDG env
	if xdgBase := os.Getenv(xdgEnv); xdgBase != "" {
		return filepath.Join(xdgBase, appName)
	}

	// 3. Use default
	home, _ := os.UserHomeDir()
	return filepath.Join(home, defaultBase, appName)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if path := os.Getenv("GOFQ_CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join(GetPaths().ConfigDir, "config.yaml")
}

// GetDefaultOutdir returns the default download directory
func GetDefaultOutdir() string {
	if path := os.Getenv("GOFQ_OUTDIR"); path != "" {
		return path
	}
	return "DOWNLOADS"
}
