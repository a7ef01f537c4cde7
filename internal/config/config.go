package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ProjectID      string
	Port           string
	AllowedOrigins []string
	HorizonWeeks   int
}

func Load() Config {
	projectID := getenv("FIREBASE_PROJECT_ID", "")
	if projectID == "" {
		projectID = getenv("GOOGLE_CLOUD_PROJECT", "")
	}

	port := getenv("PORT", "8080")
	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000")

	horizonWeeks := 8
	if v := getenv("SCHEDULE_HORIZON_WEEKS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			horizonWeeks = n
		}
	}

	allowed := []string{}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			allowed = append(allowed, o)
		}
	}

	return Config{
		ProjectID:      projectID,
		Port:           port,
		AllowedOrigins: allowed,
		HorizonWeeks:   horizonWeeks,
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
