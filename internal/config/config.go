package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	// DB
	Env    string // "dev" | "prod"
	DBPath string // e.g. "./data/access.db"

	// Optional YAML seed fixture; empty means the built-in demo dataset.
	SeedPath string

	// Optional JSON-lines notification sink (file or FIFO); empty disables.
	NotifyPath string

	// Scan journal retention
	ScanRetentionDays  int // 0 = keep forever
	PruneIntervalHours int // how often the pruner runs (default 6)
}

func FromEnv() Config {
	addr := getenvDefault("ACCESS_HTTP_ADDR", ":8080")

	env := strings.ToLower(getenvDefault("ACCESS_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	return Config{
		HTTPAddr: addr,
		Env:      env,
		DBPath:   getenvDefault("ACCESS_DB_PATH", "./data/access.db"),

		SeedPath:   os.Getenv("ACCESS_SEED_PATH"),
		NotifyPath: os.Getenv("ACCESS_NOTIFY_PATH"),

		ScanRetentionDays:  getenvInt("ACCESS_SCAN_RETENTION_DAYS", 0),
		PruneIntervalHours: getenvInt("ACCESS_PRUNE_INTERVAL_HOURS", 6),
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
