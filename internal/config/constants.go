package config

import "time"

const (
	envPort           = "PORT"
	envEnvFile        = "ENV_FILE"
	envScheduleSource = "SCHEDULE_SOURCE"
	envManifestSource = "MANIFEST_SOURCE"
	envFeedTimeout    = "FEED_TIMEOUT"
	envFeedWatch      = "FEED_WATCH"
	envAssetsDir      = "ASSETS_DIR"
	envImageProbe     = "IMAGE_PROBE"
	envImageBaseURL   = "IMAGE_BASE_URL"
	envRotateSeconds  = "ROTATE_SECONDS"
	envViewLock       = "VIEW_LOCK"
	envTeamName       = "TEAM_NAME"
	envFitStrategy    = "FIT_STRATEGY"
	envFitMeasurer    = "FIT_MEASURER"
	envChromeURL      = "CHROME_URL"
	envStageWidth     = "STAGE_WIDTH"
	envStageHeight    = "STAGE_HEIGHT"
	envSafePx         = "SAFE_PX"
	envAdminToken     = "ADMIN_TOKEN"
	envMetricsPort    = "METRICS_PORT"
	envMetricsOn      = "METRICS_ENABLED"
	envOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService    = "OTEL_SERVICE_NAME"
	envOtelInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort    = "4000"
	defaultEnvFile = ".env"
	// "fixture" serves the built-in sample season so the kiosk boots without data files.
	defaultScheduleSource = "fixture"
	defaultManifestSource = "fixture"
	defaultFeedTimeout    = 10 * Duration(time.Second)
	defaultFeedWatch      = false
	defaultAssetsDir      = "docs"
	defaultImageProbe     = "fs"
	defaultRotateSeconds  = 15
	defaultTeamName       = "Nebraska"
	defaultFitStrategy    = "scale"
	defaultFitMeasurer    = "estimate"
	defaultStageWidth     = 1920
	defaultStageHeight    = 1080
	defaultSafePx         = 25
	defaultMetricsPort    = "9090"
	defaultServiceName    = "husker-kiosk"
)
