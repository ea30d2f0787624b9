package config

// LayoutConfig controls the fit/scale engine.
type LayoutConfig struct {
	Strategy    string // "scale" or "density"
	Measurer    string // "estimate" or "browser"
	ChromeURL   string // remote debugging URL for the browser measurer; empty launches headless Chrome
	StageWidth  int
	StageHeight int
	SafePx      int
}

func loadLayout() LayoutConfig {
	return LayoutConfig{
		Strategy:    choiceEnvOrDefault(envFitStrategy, defaultFitStrategy, "scale", "density"),
		Measurer:    choiceEnvOrDefault(envFitMeasurer, defaultFitMeasurer, "estimate", "browser"),
		ChromeURL:   envOrDefault(envChromeURL, ""),
		StageWidth:  intEnvOrDefault(envStageWidth, defaultStageWidth),
		StageHeight: intEnvOrDefault(envStageHeight, defaultStageHeight),
		SafePx:      nonNegativeIntEnvOrDefault(envSafePx, defaultSafePx),
	}
}
