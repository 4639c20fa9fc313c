package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"asvs-dashboard/internal/stats"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	// шкала уровней ASVS, отсортирована по возрастанию порога
	Levels []stats.LevelThreshold
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}

	levelsSpec := os.Getenv("ASVS_LEVELS")
	if levelsSpec == "" {
		levelsSpec = "L1:0,L2:50,L3:90"
	}
	levels, err := ParseLevels(levelsSpec)
	if err != nil {
		log.Fatalf("bad ASVS_LEVELS: %v", err)
	}
	cfg.Levels = levels

	return cfg
}

// ParseLevels разбирает шкалу вида "L1:0,L2:50,L3:90".
// Пороги должны строго возрастать — иначе присвоение уровня
// перестанет быть монотонным по проценту.
func ParseLevels(spec string) ([]stats.LevelThreshold, error) {
	var out []stats.LevelThreshold
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, minStr, ok := strings.Cut(part, ":")
		if !ok || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("bad level %q, want LABEL:PERCENT", part)
		}
		min, err := strconv.ParseFloat(strings.TrimSpace(minStr), 64)
		if err != nil {
			return nil, fmt.Errorf("bad threshold in %q: %v", part, err)
		}
		if min < 0 || min > 100 {
			return nil, fmt.Errorf("threshold in %q out of [0,100]", part)
		}
		if n := len(out); n > 0 && min <= out[n-1].MinPercent {
			return nil, fmt.Errorf("thresholds must be strictly increasing, got %q after %g", part, out[n-1].MinPercent)
		}
		out = append(out, stats.LevelThreshold{Label: strings.TrimSpace(label), MinPercent: min})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty level ladder")
	}
	return out, nil
}
