package config

import "time"

// DisplayConfig controls what the kiosk shows and how it rotates.
type DisplayConfig struct {
	TeamName       string
	AssetsDir      string // served at / for images; also the fs probe root
	ImageProbe     string // "fs" or "http"
	ImageBaseURL   string
	RotateInterval time.Duration
	ViewLock       string // "", "next", or "all"
}

func loadDisplay() DisplayConfig {
	seconds := intEnvOrDefault(envRotateSeconds, defaultRotateSeconds)
	return DisplayConfig{
		TeamName:       envOrDefault(envTeamName, defaultTeamName),
		AssetsDir:      envOrDefault(envAssetsDir, defaultAssetsDir),
		ImageProbe:     choiceEnvOrDefault(envImageProbe, defaultImageProbe, "fs", "http"),
		ImageBaseURL:   envOrDefault(envImageBaseURL, ""),
		RotateInterval: time.Duration(seconds) * time.Second,
		ViewLock:       choiceEnvOrDefault(envViewLock, "", "next", "all"),
	}
}
