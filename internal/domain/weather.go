package domain

// Weather is an immutable snapshot of current conditions, as fetched from
// the weather collaborator. Code is a WMO weather interpretation code.
type Weather struct {
	Temperature float64 `json:"temperature"`  // °C
	Apparent    float64 `json:"apparent"`     // feels-like, drives the recommender
	WindSpeed   float64 `json:"wind_speed"`   // km/h
	UVIndex     float64 `json:"uv_index"`     //
	Code        int     `json:"weather_code"` // WMO code
	Icon        string  `json:"icon"`         // display glyph from IconForCode
}

// UVSeverity is the display tier for a UV index value.
type UVSeverity string

// UV severity tiers.
const (
	UVLow      UVSeverity = "Low"
	UVModerate UVSeverity = "Moderate"
	UVHigh     UVSeverity = "High"
	UVVeryHigh UVSeverity = "Very High"
	UVExtreme  UVSeverity = "Extreme"
)

// ClassifyUV maps a UV index onto its severity tier.
func ClassifyUV(index float64) UVSeverity {
	switch {
	case index < 3:
		return UVLow
	case index < 6:
		return UVModerate
	case index < 8:
		return UVHigh
	case index < 11:
		return UVVeryHigh
	default:
		return UVExtreme
	}
}

// IconForCode maps a WMO weather code to its display glyph.
func IconForCode(code int) string {
	switch {
	case code == 0:
		return "☀️"
	case code >= 1 && code <= 2:
		return "🌤️"
	case code == 3:
		return "☁️"
	case code == 45 || code == 48:
		return "🌫️"
	case code >= 51 && code <= 57:
		return "🌦️"
	case code >= 61 && code <= 67:
		return "🌧️"
	case code >= 71 && code <= 77:
		return "❄️"
	case code >= 80 && code <= 82:
		return "🌧️"
	case code == 85 || code == 86:
		return "🌨️"
	case code >= 95:
		return "⛈️"
	default:
		return "🌡️"
	}
}
