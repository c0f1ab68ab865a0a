package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/tool"
)

// WeatherName is the capability name of the weather lookup.
const WeatherName = "get_current_weather"

const weatherDescription = "Get current weather for a location"

// Public endpoints used by default.
const (
	DefaultGeocodeURL  = "https://nominatim.openstreetmap.org/search"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// Temperature units.
const (
	UnitCelsius    = "celsius"
	UnitFahrenheit = "fahrenheit"
)

var coordinatesPattern = regexp.MustCompile(`^-?\d+\.?\d*,-?\d+\.?\d*$`)

// WMO weather interpretation codes.
var weatherCodes = map[int]string{
	0:  "clear sky",
	1:  "mainly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "foggy",
	48: "depositing rime fog",
	51: "light drizzle",
	53: "moderate drizzle",
	55: "dense drizzle",
	61: "slight rain",
	63: "moderate rain",
	65: "heavy rain",
	71: "slight snow",
	73: "moderate snow",
	75: "heavy snow",
	77: "snow grains",
	80: "slight rain showers",
	81: "moderate rain showers",
	82: "violent rain showers",
	85: "slight snow showers",
	86: "heavy snow showers",
	95: "thunderstorm",
	96: "thunderstorm with slight hail",
	99: "thunderstorm with heavy hail",
}

// WeatherOptions configures the weather capability.
type WeatherOptions struct {
	HTTPClient  *http.Client
	GeocodeURL  string
	ForecastURL string
	// UserAgent is required by the Nominatim usage policy.
	UserAgent string
}

type weather struct {
	opts WeatherOptions
}

type coordinates struct {
	Latitude  float64
	Longitude float64
}

func (c coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// NewWeather returns the get_current_weather capability backed by Nominatim
// geocoding and the Open-Meteo forecast API.
func NewWeather(optFns ...func(o *WeatherOptions)) tool.Tool {
	opts := WeatherOptions{
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
		GeocodeURL:  DefaultGeocodeURL,
		ForecastURL: DefaultForecastURL,
		UserAgent:   "smartpup/1.0",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	w := &weather{opts: opts}

	return tool.New(WeatherName, weatherDescription, w.call,
		tool.Required("location", tool.String(), "The city or place name to get weather for"),
		tool.Optional("coordinates", tool.Nullable(tool.String()), nil,
			"Optional latitude/longitude coordinates (e.g. '42.3601,-71.0589')"),
		tool.Optional("unit", tool.EnumOf(UnitCelsius, UnitFahrenheit), UnitCelsius, "Temperature unit to use"),
	)
}

func (w *weather) call(tc *core.ToolContext, args map[string]any) (any, error) {
	location, _ := args["location"].(string)
	rawCoords, _ := args["coordinates"].(string)
	unit, _ := args["unit"].(string)
	if unit != UnitFahrenheit {
		unit = UnitCelsius
	}

	if strings.TrimSpace(location) == "" {
		return nil, &tool.ValidationError{Field: "location", Message: "must not be empty"}
	}

	ctx := tc.Context()

	var (
		coords coordinates
		err    error
	)
	if rawCoords != "" {
		coords, err = parseCoordinates(rawCoords)
		if err != nil {
			return nil, err
		}
	} else {
		var found bool
		coords, found, err = w.geocode(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("error fetching weather data: %w", err)
		}
		if !found {
			return fmt.Sprintf("Could not find coordinates for location: %s", location), nil
		}
	}

	temp, code, err := w.current(ctx, coords, unit)
	if err != nil {
		return nil, fmt.Errorf("error fetching weather data: %w", err)
	}

	conditions, ok := weatherCodes[code]
	if !ok {
		conditions = "unknown conditions"
	}

	where := "in " + location
	if rawCoords != "" {
		where = "at coordinates " + coords.String()
	}

	symbol := "C"
	if unit == UnitFahrenheit {
		symbol = "F"
	}

	return fmt.Sprintf("The weather %s is %s°%s with %s",
		where, strconv.FormatFloat(temp, 'f', -1, 64), symbol, conditions), nil
}

func parseCoordinates(s string) (coordinates, error) {
	s = strings.ReplaceAll(s, " ", "")
	if !coordinatesPattern.MatchString(s) {
		return coordinates{}, &tool.ValidationError{Field: "coordinates", Value: s,
			Message: "must be 'latitude,longitude'"}
	}

	lat, lon, _ := strings.Cut(s, ",")
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return coordinates{}, err
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return coordinates{}, err
	}

	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return coordinates{}, &tool.ValidationError{Field: "coordinates", Value: s,
			Message: "latitude must be within [-90, 90] and longitude within [-180, 180]"}
	}

	return coordinates{Latitude: latitude, Longitude: longitude}, nil
}

func (w *weather) geocode(ctx context.Context, location string) (coordinates, bool, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("format", "json")
	q.Set("limit", "1")

	var places []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := w.getJSON(ctx, w.opts.GeocodeURL, q, &places); err != nil {
		return coordinates{}, false, err
	}
	if len(places) == 0 {
		return coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return coordinates{}, false, fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return coordinates{}, false, fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err)
	}

	return coordinates{Latitude: lat, Longitude: lon}, true, nil
}

func (w *weather) current(ctx context.Context, c coordinates, unit string) (float64, int, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	q.Set("current", "temperature_2m,weather_code")
	q.Set("temperature_unit", unit)

	var forecast struct {
		Current *struct {
			Temperature float64 `json:"temperature_2m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
	}
	if err := w.getJSON(ctx, w.opts.ForecastURL, q, &forecast); err != nil {
		return 0, 0, err
	}
	if forecast.Current == nil {
		return 0, 0, fmt.Errorf("forecast response has no current conditions")
	}

	return forecast.Current.Temperature, forecast.Current.WeatherCode, nil
}

func (w *weather) getJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", w.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.opts.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}

	return nil
}
