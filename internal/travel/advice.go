package travel

// Clothing recommendations by temperature band.
const (
	ClothingHeavy = "Warm jacket and long pants"
	ClothingLight = "Light jacket recommended"
	ClothingNone  = "Light clothing"
)

// Health recommendations by AQI band.
const (
	HealthGood        = "Good"
	HealthModerate    = "Moderate"
	HealthUnhealthy   = "Unhealthy - limit outdoor activity"
	HealthUnavailable = "Air quality data unavailable"
)

// ClothingRecommendation derives what to wear from the temperature in Celsius.
func ClothingRecommendation(tempC float64) string {
	switch {
	case tempC < 10:
		return ClothingHeavy
	case tempC < 20:
		return ClothingLight
	default:
		return ClothingNone
	}
}

// HealthRecommendation derives outdoor activity advice from an AQI value.
func HealthRecommendation(aqi AQI) string {
	switch {
	case !aqi.Valid:
		return HealthUnavailable
	case aqi.Value <= 50:
		return HealthGood
	case aqi.Value <= 100:
		return HealthModerate
	default:
		return HealthUnhealthy
	}
}
