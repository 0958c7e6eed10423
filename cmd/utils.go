package cmd

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads environment variables from the file passed via -env, if
// any. Useful for local development; production relies on os.Environ only.
func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	if err := godotenv.Load(configPath); err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// SetupLogging configures the default slog handler from LOG_LEVEL/DEBUG.
func SetupLogging(level string, debug bool) {
	var slogLevel slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		slogLevel = slog.LevelDebug
	case "WARN", "WARNING":
		slogLevel = slog.LevelWarn
	case "ERROR":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	if debug {
		slogLevel = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(handler))
}
