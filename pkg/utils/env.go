package utils

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadConfig loads a .env file from the given directory if one exists.
// Missing files are fine; real environment variables always win.
func LoadConfig(path string) {
	envFile := filepath.Join(path, ".env")
	if err := godotenv.Load(envFile); err != nil {
		logrus.WithField("file", envFile).Debug("no .env file loaded")
	}
}
