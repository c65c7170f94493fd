package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// AppName names the config and cache directories.
const AppName = "padaserve"

// sourceMarkers are entries any of which makes a directory a paradigm source.
var sourceMarkers = []string{"paradigms.yaml", "Noun", "Verb", "Pronouns", "words"}

// PathResolver resolves source, cache and config locations relative to
// the running binary
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}
	execDir := filepath.Dir(execPath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  execDir,
		homeDir:        homeDir,
		configDir:      platformConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: exec=%s, execDir=%s, configDir=%s",
		execPath, execDir, pr.configDir)
	return pr, nil
}

// platformConfigDir returns the appropriate config directory for the platform
func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, ".config", AppName)
	}
}

// GetSourceDir resolves the paradigm source directory.
// It tries, in order:
// 1. the user path as given (absolute or relative to the working dir)
// 2. relative to the executable directory
// 3. data/ next to the executable, its parent, and the config dir
// When nothing matches the user path is returned unchanged so that the
// loader reports it.
func (pr *PathResolver) GetSourceDir(userPath string) string {
	for _, path := range pr.sourceCandidates(userPath) {
		if IsSourceDir(path) {
			log.Debugf("Found paradigm source: %s", path)
			return path
		}
		log.Debugf("Paradigm source candidate not valid: %s", path)
	}
	return userPath
}

func (pr *PathResolver) sourceCandidates(userPath string) []string {
	var candidates []string
	if userPath != "" {
		candidates = append(candidates, userPath)
		if !filepath.IsAbs(userPath) {
			candidates = append(candidates, filepath.Join(pr.executableDir, userPath))
		}
	}
	return append(candidates,
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(filepath.Dir(pr.executableDir), "data"),
		filepath.Join(pr.configDir, "data"),
	)
}

// IsSourceDir reports whether path is a directory holding at least one
// paradigm source marker.
func IsSourceDir(path string) bool {
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return false
	}
	for _, m := range sourceMarkers {
		if FileExists(filepath.Join(path, m)) {
			return true
		}
	}
	return false
}

// GetCachePath returns the lexicon cache path. A relative name is placed
// in the user cache directory, falling back to the config directory.
func (pr *PathResolver) GetCachePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if dir, err := os.UserCacheDir(); err == nil {
		cacheDir := filepath.Join(dir, AppName)
		if pr.ensureDir(cacheDir) {
			return filepath.Join(cacheDir, name)
		}
	}
	return filepath.Join(pr.configDir, name)
}

// ensureDir creates the directory if needed and tests writability
func (pr *PathResolver) ensureDir(dir string) bool {
	if err := EnsureDir(dir); err != nil {
		log.Debugf("Cannot create directory %s: %v", dir, err)
		return false
	}
	return testWriteAccess(dir)
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()
	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}
	for _, envVar := range []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}
