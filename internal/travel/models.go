package travel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Place is a resolved geographic location with its canonical display name.
type Place struct {
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// WeatherReading holds current conditions for a place. Values are rounded to one decimal.
type WeatherReading struct {
	TemperatureC           float64 `json:"temperature_c"`
	Condition              string  `json:"condition"`
	WindSpeedKmh           float64 `json:"wind_speed_kmh"`
	NeedsUmbrella          bool    `json:"needs_umbrella"`
	ClothingRecommendation string  `json:"clothing_recommendation"`
}

// AQI is an air quality index value that may be unavailable.
// It is encoded as a JSON number, or as the string "unavailable".
type AQI struct {
	Value int
	Valid bool
}

const aqiUnavailable = "unavailable"

// NewAQI returns an available index value.
func NewAQI(v int) AQI {
	return AQI{Value: v, Valid: true}
}

func (a AQI) String() string {
	if !a.Valid {
		return aqiUnavailable
	}
	return strconv.Itoa(a.Value)
}

func (a AQI) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return json.Marshal(aqiUnavailable)
	}
	return json.Marshal(a.Value)
}

func (a *AQI) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*a = NewAQI(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("aqi: expected number or string, got %s", data)
	}
	*a = AQI{}
	return nil
}

// AirQualityReading is the authoritative (first) index reported for a place.
type AirQualityReading struct {
	AQI                  AQI    `json:"aqi"`
	Category             string `json:"category"`
	HealthRecommendation string `json:"health_recommendation"`
}

// Rating is a place rating that may be missing. Missing ratings are encoded as "No rating".
type Rating struct {
	Value float64
	Valid bool
}

const noRating = "No rating"

func (r Rating) String() string {
	if !r.Valid {
		return noRating
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return json.Marshal(noRating)
	}
	return json.Marshal(r.Value)
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*r = Rating{Value: f, Valid: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("rating: expected number or string, got %s", data)
	}
	*r = Rating{}
	return nil
}

// Attraction is a single point of interest returned by the places provider.
type Attraction struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Rating  Rating `json:"rating"`
}

// AttractionSet maps a place category to its attractions, in request order.
type AttractionSet = orderedmap.OrderedMap[string, []Attraction]

// NewAttractionSet returns an empty AttractionSet.
func NewAttractionSet() *AttractionSet {
	return orderedmap.New[string, []Attraction]()
}

// Coordinates is the structured-record form of a place's position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CityReport aggregates everything fetched for one city.
type CityReport struct {
	Location    string            `json:"location"`
	Coordinates Coordinates       `json:"coordinates"`
	Weather     WeatherReading    `json:"weather"`
	AirQuality  AirQualityReading `json:"air_quality"`
	Places      *AttractionSet    `json:"places"`
}

// NewCityReport builds a CityReport from the outputs of the four fetch steps.
func NewCityReport(place Place, weather WeatherReading, air AirQualityReading, places *AttractionSet) CityReport {
	return CityReport{
		Location:    place.Name,
		Coordinates: Coordinates{Lat: place.Latitude, Lon: place.Longitude},
		Weather:     weather,
		AirQuality:  air,
		Places:      places,
	}
}

// CityReports is the structured record: user-supplied city name to report, in request order.
type CityReports = orderedmap.OrderedMap[string, CityReport]

// NewCityReports returns an empty CityReports mapping.
func NewCityReports() *CityReports {
	return orderedmap.New[string, CityReport]()
}

// TravelReport is the artifact of one planning run.
type TravelReport struct {
	ID         uuid.UUID    `json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	Transcript *Transcript  `json:"-"`
	Cities     *CityReports `json:"cities"`
}

// NewTravelReport starts a report that logs into the given transcript.
func NewTravelReport(transcript *Transcript) *TravelReport {
	if transcript == nil {
		transcript = NewTranscript(nil)
	}
	return &TravelReport{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		Transcript: transcript,
		Cities:     NewCityReports(),
	}
}

// Text returns the full transcript of the run.
func (r *TravelReport) Text() string {
	return r.Transcript.String()
}
