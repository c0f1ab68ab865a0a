package builtin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/internal/testutil"
	"github.com/hupe1980/smartpup/memory"
	"github.com/hupe1980/smartpup/model"
	"github.com/hupe1980/smartpup/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolContext() *core.ToolContext {
	return core.NewToolContext(context.Background(), "run-test", "fc-test", nil)
}

func lookup(values map[string]string) tool.LookupFunc {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

func TestCatalog_DiscoverWithoutTranslationKeys(t *testing.T) {
	dir := t.TempDir()

	reg := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.Catalog = Catalog()
		o.LookupEnv = lookup(map[string]string{EnvMemoryFile: filepath.Join(dir, "memory.json")})
	})

	report := reg.Discover("")

	assert.Equal(t, []string{DateTimeName, RememberName, RecallName, WeatherName}, report.Registered)
	require.Contains(t, report.Skipped, TranslateName)
	assert.ErrorIs(t, report.Skipped[TranslateName], core.ErrMissingConfiguration)
	assert.Contains(t, report.Skipped[TranslateName].Error(), "OPENROUTER_API_KEY, OPENROUTER_BASE_URL")

	report = reg.Discover("builtin")
	assert.Equal(t, []string{DateTimeName, RememberName, RecallName}, report.Registered)
	assert.Empty(t, report.Skipped)
}

func TestCatalog_TranslateWithKeys(t *testing.T) {
	reg := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.Catalog = Catalog()
		o.LookupEnv = lookup(map[string]string{
			EnvOpenRouterAPIKey:  "sk-test",
			EnvOpenRouterBaseURL: "http://127.0.0.1:1/api/v1",
		})
	})

	report := reg.Discover("translate")
	assert.Equal(t, []string{TranslateName}, report.Registered)
}

func TestDateTime(t *testing.T) {
	fixed := time.Date(2024, time.January, 1, 15, 30, 45, 0, time.UTC)
	dt := NewDateTime(func(o *DateTimeOptions) { o.Now = func() time.Time { return fixed } })

	cases := map[string]string{
		"":           "Monday, January 01, 2024 15:30:45",
		FormatFull:   "Monday, January 01, 2024 15:30:45",
		FormatDate:   "2024-01-01",
		FormatTime:   "15:30:45",
		FormatSimple: "Jan 01, 2024 03:30 PM",
	}
	for format, want := range cases {
		args := map[string]any{}
		if format != "" {
			args["format"] = format
		}
		out, err := dt.Call(toolContext(), args)
		require.NoError(t, err, format)
		assert.Equal(t, want, out, format)
	}

	out, err := dt.Call(toolContext(), map[string]any{"format": FormatTime, "timezone": "Asia/Tokyo"})
	require.NoError(t, err)
	assert.Equal(t, "00:30:45", out)

	_, err = dt.Call(toolContext(), map[string]any{"timezone": "Mars/Olympus"})
	assert.Error(t, err)

	_, err = dt.Call(toolContext(), map[string]any{"format": "iso"})
	var te *tool.ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, tool.CodeValidation, te.Code)
}

func TestDateTime_Contract(t *testing.T) {
	params := NewDateTime().Parameters()
	assert.Empty(t, params["required"])

	props := params["properties"].(map[string]any)
	format := props["format"].(map[string]any)
	assert.Equal(t, FormatFull, format["default"])
	assert.Equal(t, []string{FormatFull, FormatDate, FormatTime, FormatSimple}, format["enum"])
}

func TestMemory_RememberThenRecall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "memory.json")

	writer, err := memory.NewFileStore(path)
	require.NoError(t, err)
	reader, err := memory.NewFileStore(path)
	require.NoError(t, err)

	remember := NewRemember(writer)
	recall := NewRecall(reader)

	out, err := remember.Call(toolContext(), map[string]any{"key": "favorite_color", "value": "blue"})
	require.NoError(t, err)
	assert.Equal(t, "Successfully saved: favorite_color = blue", out)

	out, err = recall.Call(toolContext(), map[string]any{"key": "favorite_color"})
	require.NoError(t, err)
	assert.Equal(t, "Remembered value for favorite_color: blue", out)

	out, err = recall.Call(toolContext(), map[string]any{"key": "pet"})
	require.NoError(t, err)
	assert.Equal(t, "No memory found for key: pet", out)

	_, err = remember.Call(toolContext(), map[string]any{"key": " ", "value": "x"})
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	m := model.NewScriptedModel("translator").Then(testutil.TextReply("  Hola, ¿cómo estás?\n"))
	tr := NewTranslate(m, func(o *TranslateOptions) { o.ModelName = DefaultTranslationModel })

	out, err := tr.Call(toolContext(), map[string]any{
		"text":            "Hello, how are you?",
		"target_language": "Spanish",
		"source_language": "English",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hola, ¿cómo estás?", out)

	req := m.Requests()[0]
	assert.Equal(t, DefaultTranslationModel, req.Model)
	require.Len(t, req.Contents, 2)
	system := req.Contents[0].Text()
	assert.Contains(t, system, "Translate the following text to Spanish.")
	assert.Contains(t, system, "The source language is English.")
	assert.Equal(t, "Hello, how are you?", req.Contents[1].Text())
	assert.Empty(t, req.Tools)
}

func TestTranslate_ModelFailure(t *testing.T) {
	m := model.NewScriptedModel("translator").ThenError(assert.AnError)

	_, err := NewTranslate(m).Call(toolContext(), map[string]any{"text": "x", "target_language": "German"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translation failed")
}

func newWeatherServer(t *testing.T, places string) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.String())
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(places))
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.String())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"current": map[string]any{"temperature_2m": 12.5, "weather_code": 61},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, &seen
}

func weatherFor(srv *httptest.Server) tool.Tool {
	return NewWeather(func(o *WeatherOptions) {
		o.HTTPClient = srv.Client()
		o.GeocodeURL = srv.URL + "/search"
		o.ForecastURL = srv.URL + "/forecast"
	})
}

func TestWeather_Geocoded(t *testing.T) {
	srv, seen := newWeatherServer(t, `[{"lat":"52.37","lon":"4.89"}]`)

	out, err := weatherFor(srv).Call(toolContext(), map[string]any{"location": "Amsterdam"})
	require.NoError(t, err)
	assert.Equal(t, "The weather in Amsterdam is 12.5°C with slight rain", out)

	require.Len(t, *seen, 2)
	assert.Contains(t, (*seen)[0], "q=Amsterdam")
	assert.Contains(t, (*seen)[1], "latitude=52.37")
	assert.Contains(t, (*seen)[1], "temperature_unit=celsius")
}

func TestWeather_Coordinates(t *testing.T) {
	srv, seen := newWeatherServer(t, `[]`)

	out, err := weatherFor(srv).Call(toolContext(), map[string]any{
		"location":    "Boston",
		"coordinates": "42.3601,-71.0589",
		"unit":        UnitFahrenheit,
	})
	require.NoError(t, err)
	assert.Equal(t, "The weather at coordinates 42.3601,-71.0589 is 12.5°F with slight rain", out)
	require.Len(t, *seen, 1)
	assert.Contains(t, (*seen)[0], "temperature_unit=fahrenheit")

	_, err = weatherFor(srv).Call(toolContext(), map[string]any{"location": "x", "coordinates": "north"})
	assert.Error(t, err)
}

func TestWeather_UnknownLocation(t *testing.T) {
	srv, _ := newWeatherServer(t, `[]`)

	out, err := weatherFor(srv).Call(toolContext(), map[string]any{"location": "Atlantis"})
	require.NoError(t, err)
	assert.Equal(t, "Could not find coordinates for location: Atlantis", out)
}

func TestWeather_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	_, err := weatherFor(srv).Call(toolContext(), map[string]any{"location": "Paris"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestMemory_InMemoryStore(t *testing.T) {
	store := memory.NewInMemoryStore()

	_, err := NewRemember(store).Call(toolContext(), map[string]any{"key": "city", "value": "Paris"})
	require.NoError(t, err)

	out, err := NewRecall(store).Call(toolContext(), map[string]any{"key": "city"})
	require.NoError(t, err)
	assert.Equal(t, "Remembered value for city: Paris", out)
}
