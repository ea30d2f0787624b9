package config

// FeedConfig controls where the schedule and manifest documents come from.
type FeedConfig struct {
	ScheduleSource string // file path, http(s) URL, or "fixture"
	ManifestSource string
	Timeout        Duration
	Watch          bool // reload when file sources change on disk
}

func loadFeed() FeedConfig {
	return FeedConfig{
		ScheduleSource: envOrDefault(envScheduleSource, defaultScheduleSource),
		ManifestSource: envOrDefault(envManifestSource, defaultManifestSource),
		Timeout:        durationEnvOrDefault(envFeedTimeout, defaultFeedTimeout),
		Watch:          boolEnvOrDefault(envFeedWatch, defaultFeedWatch),
	}
}
