package config

import (
	"os"
	"path/filepath"
)

const AppName = "minledger"

func AppDir() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, AppName)
}

// ConfigPath is the file the node reads when no -config flag is given.
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}
