package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default tdo data directory name (relative to home).
	DefaultDataDir = ".tdo"
	// ConfigFile is the optional configuration filename inside the data dir.
	ConfigFile = "config.yaml"
	// DBFile is the SQLite database filename.
	DBFile = "tdo.db"
	// StoreDir is the subdirectory for the diskv store.
	StoreDir = "store"
)

// DBPath returns the path of the SQLite database.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// StorePath returns the path of the diskv store.
func StorePath(dataDir string) string {
	return filepath.Join(dataDir, StoreDir)
}

// ConfigPath returns the path of the configuration file.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFile)
}
