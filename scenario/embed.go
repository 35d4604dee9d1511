package scenario

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Dir is the on-disk directory whose scripts override the embedded ones.
var Dir = filepath.Join("scenario", "scripts")

// LoadScript returns a scenario script by name. A path to an existing file is
// read directly, then Dir is tried, then the embedded copy. The ".tengo"
// extension is optional.
func LoadScript(name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("scenario: empty script name")
	}
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	base := filepath.Base(name)
	if filepath.Ext(base) == "" {
		base += ".tengo"
	}
	if data, err := os.ReadFile(filepath.Join(Dir, base)); err == nil {
		return data, nil
	}
	data, err := ScriptsFS.ReadFile("scripts/" + base)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", name, err)
	}
	return data, nil
}

// Names lists the embedded scripts without extension.
func Names() []string {
	entries, err := ScriptsFS.ReadDir("scripts")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".tengo"))
	}
	return out
}
