package core

import (
	"os"
	"path/filepath"
)

const appName = "gsuggest"

type Paths struct {
	DataDir    string
	ConfigDir  string
	LogFile    string
	ConfigFile string
}

var defaultPaths *Paths

func newPaths(homeDir string) *Paths {
	dataDir := filepath.Join(homeDir, ".local", "share", appName)
	configDir := filepath.Join(homeDir, ".config", appName)
	return &Paths{
		DataDir:    dataDir,
		ConfigDir:  configDir,
		LogFile:    filepath.Join(dataDir, appName+".log"),
		ConfigFile: filepath.Join(configDir, "config.yaml"),
	}
}

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		defaultPaths = newPaths(homeDir)

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

// ConfigFile is where the YAML configuration is read from. The directory is
// only created when a config file is written.
func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}
