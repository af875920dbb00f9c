package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	User      string
	UserFile  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("MINDMAZE_SERVER", "http://localhost:8000"),
		User:      os.Getenv("MINDMAZE_USER"),
		UserFile:  getEnvOrDefault("MINDMAZE_USER_FILE", defaultUserFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadUser loads the remembered player if none is set
func (c *Config) LoadUser() error {
	if c.User != "" {
		return nil
	}

	data, err := os.ReadFile(c.UserFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Nobody remembered yet
		}
		return err
	}

	c.User = strings.TrimSpace(string(data))
	return nil
}

// SaveUser remembers the player for later commands
func (c *Config) SaveUser(username string) error {
	c.User = username

	dir := filepath.Dir(c.UserFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.UserFile, []byte(username), 0600)
}

func defaultUserFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mindmaze/user"
	}
	return filepath.Join(home, ".mindmaze", "user")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
