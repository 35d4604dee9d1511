package config

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed *.yaml
var ConfigFS embed.FS

// DefaultName is the settings file used when none is given.
const DefaultName = "nav.yaml"

// Dir is the on-disk directory whose files override the embedded ones.
var Dir = "config"

// Read returns the named file from Dir if present, else the embedded copy.
func Read(name string) ([]byte, error) {
	clean := cleanConfigPath(name)
	if data, err := os.ReadFile(diskConfigPath(clean)); err == nil {
		return data, nil
	}
	return ConfigFS.ReadFile(clean)
}

// ModTime reports the modification time of the on-disk override, if any.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskConfigPath(cleanConfigPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanConfigPath(path string) string {
	if path == "" {
		return DefaultName
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, Dir+"/"); ok {
		return after
	}
	return s
}

func diskConfigPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
