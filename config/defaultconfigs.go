package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawLastPlayedBackground: true,
		ShowCoordinates:          true,
		Colors: ConfigColors{
			WhitePiece:      231,
			BlackPiece:      16,
			Coordinates:     244,
			LastPlayedBG:    143,
			SuggestionArrow: 33,
			ManualArrow:     208,
			WinRateWhite:    255,
			WinRateBlack:    236,
		},
		Symbols: ConfigSymbols{
			ArrowBody:  '·',
			ArrowHead:  '◆',
			ArrowStart: '○',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Backend: BackendConfig{
			URL:        "http://127.0.0.1:5000",
			TimeoutSec: 120,
			Retries:    2,
		},
		Cache: CacheConfig{
			TTLSec: 7 * 24 * 3600,
		},
		Audio: AudioConfig{
			Volume: 0.6,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
