package models

// Metadata is the derived, never persisted part of a single-event response.
// The weather fields are omitted unless a forecast was found.
type Metadata struct {
	WindSpeed   *string `json:"wind-speed,omitempty"`
	Weather     *string `json:"weather,omitempty"`
	Humidity    *string `json:"humidity,omitempty"`
	Temperature *string `json:"temperature,omitempty"`
	Holiday     *string `json:"holiday"`
	Weekend     bool    `json:"weekend"`
}

// HasWeather reports whether any forecast field is set.
func (m Metadata) HasWeather() bool {
	return m.WindSpeed != nil || m.Weather != nil || m.Humidity != nil || m.Temperature != nil
}

type Link struct {
	Href string `json:"href"`
}

type Links struct {
	Self     Link  `json:"self"`
	Previous *Link `json:"previous,omitempty"`
	Next     *Link `json:"next,omitempty"`
}
