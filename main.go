package main

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	dbpkg "github.com/fintanob/refbook/internal/db"
	"github.com/fintanob/refbook/internal/matches"
)

func main() {
	_ = godotenv.Load()

	logger := newLogger(env("LOG_LEVEL", "info"))

	d, err := dbpkg.Open(env("DB_PATH", "refbook.db"))
	if err != nil {
		logger.Fatal().Err(err).Msg("open db")
	}
	if err := matches.Migrate(d); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}
	repo := matches.NewRepository(d)

	r := gin.Default()
	// Trust only loopback by default; override via TRUSTED_PROXIES
	// (comma-separated CIDRs/IPs).
	tp := strings.Split(env("TRUSTED_PROXIES", "127.0.0.1,::1"), ",")
	for i := range tp {
		tp[i] = strings.TrimSpace(tp[i])
	}
	if err := r.SetTrustedProxies(tp); err != nil {
		logger.Fatal().Err(err).Msg("trusted proxies")
	}

	matches.RegisterRoutes(r, repo, logger)

	addr := env("ADDR", ":8080")
	logger.Info().Str("addr", addr).Msg("listening")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
