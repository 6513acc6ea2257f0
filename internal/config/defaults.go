package config

const (
	defaultLogDir            = "~/.local/share/deckflow/logs"
	defaultRendererCommand   = "soffice"
	defaultDPI               = 150
	defaultLowDPIWarning     = 60
	defaultHighDPIWarning    = 400
	defaultWorkspaceName     = "process"
	defaultImageDeckPrefix   = "images-"
	defaultPollIntervalMS    = 100
	defaultRenderTickMS      = 100
	defaultAssembleTickMS    = 500
	defaultSlideWidthInches  = 16
	defaultSlideHeightInches = 9
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Renderer: Renderer{
			Command: defaultRendererCommand,
		},
		Conversion: Conversion{
			DefaultDPI:        defaultDPI,
			LowDPIWarning:     defaultLowDPIWarning,
			HighDPIWarning:    defaultHighDPIWarning,
			WorkspaceName:     defaultWorkspaceName,
			ImageDeckPrefix:   defaultImageDeckPrefix,
			PollIntervalMS:    defaultPollIntervalMS,
			RenderTickMS:      defaultRenderTickMS,
			AssembleTickMS:    defaultAssembleTickMS,
			SlideWidthInches:  defaultSlideWidthInches,
			SlideHeightInches: defaultSlideHeightInches,
			VerifyOutput:      true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
