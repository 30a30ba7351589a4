package travel

import (
	"strconv"
	"strings"
)

// Rule is the separator line used around section headers.
var Rule = strings.Repeat("=", 60)

// FormatDecimal renders a one-decimal measurement, e.g. 5 -> "5.0".
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatCoordinate renders a coordinate with the shortest exact representation.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatAttractions renders an AttractionSet as an indented plain-text list.
func FormatAttractions(set *AttractionSet) string {
	if set == nil {
		return ""
	}
	var out []string
	for pair := set.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, "\n"+strings.ToUpper(pair.Key))
		for _, a := range pair.Value {
			out = append(out, "- "+a.Name+" ("+a.Address+")")
		}
	}
	return strings.Join(out, "\n")
}

// writeSectionHeader logs the banner that opens a city section.
func writeSectionHeader(t *Transcript, city string) {
	t.Log("\n" + Rule)
	t.Log(strings.ToUpper(city))
	t.Log(Rule)
}

// writeCitySection logs the body of a successfully processed city.
func writeCitySection(t *Transcript, place Place, report CityReport) {
	t.Log("\nLocation: " + place.Name)
	t.Log("Coordinates: " + FormatCoordinate(place.Latitude) + ", " + FormatCoordinate(place.Longitude))

	w := report.Weather
	t.Log("\nWeather:")
	t.Log("Temperature: " + FormatDecimal(w.TemperatureC) + " °C")
	t.Log("Condition: " + w.Condition)
	t.Log("Wind: " + FormatDecimal(w.WindSpeedKmh) + " km/h")
	t.Log("Clothing: " + w.ClothingRecommendation)

	a := report.AirQuality
	t.Log("\nAir Quality:")
	t.Log("AQI: " + a.AQI.String())
	t.Log("Category: " + a.Category)
	t.Log("Health Advice: " + a.HealthRecommendation)

	t.Log("\nNearby Attractions:")
	t.Log(FormatAttractions(report.Places))
}
