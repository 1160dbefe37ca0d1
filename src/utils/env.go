package utils

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const ENV_FILENAME = ".env"

// InitEnvironmentVariables loads a .env file from the working directory when
// present. Production deployments are expected to set real environment
// variables, so a missing file is not an error.
func InitEnvironmentVariables() error {
	if os.Getenv("ENV") == "production" {
		log.Info("Running in production environment")
		return nil
	}

	if _, err := os.Stat(ENV_FILENAME); os.IsNotExist(err) {
		log.Debugf("no %s file found, using process environment", ENV_FILENAME)
		return nil
	}

	if err := godotenv.Load(ENV_FILENAME); err != nil {
		log.Warnf("failed to load %s file: %v", ENV_FILENAME, err)
	}

	return nil
}
