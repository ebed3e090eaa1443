package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath determines the configuration file path.
// Priority:
// 1. the path passed in (from the -config flag)
// 2. ARTEMIS_EXTRAS_CONFIG_PATH environment variable
// 3. config.yaml / config.json in the current working directory
// 4. config.yaml / config.json in the executable's directory
// An empty result means no file; defaults are used.
func GetConfigPath(configFilePathFlag string) string {
	return getConfigPath(configFilePathFlag, NewOSEnvironment())
}

func getConfigPath(configFilePathFlag string, env Environment) string {
	if configFilePathFlag != "" {
		if fileExists(configFilePathFlag) {
			return configFilePathFlag
		}
	}

	if envPath, ok := env.Lookup(EnvConfigPath); ok && envPath != "" {
		if fileExists(envPath) {
			return envPath
		}
	}

	var locations []string
	cwd, errCwd := os.Getwd()
	if errCwd == nil {
		locations = append(locations, cwd)
	}
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		if exeDir != cwd {
			locations = append(locations, exeDir)
		}
	}

	for _, loc := range locations {
		for _, file := range []string{"config.yaml", "config.json"} {
			path := filepath.Join(loc, file)
			if fileExists(path) {
				return path
			}
		}
	}
	return ""
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
