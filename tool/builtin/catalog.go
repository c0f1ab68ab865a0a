// Package builtin provides the capabilities shipped with smartpup and the
// catalog Registry.Discover walks by default.
package builtin

import (
	"github.com/hupe1980/smartpup/memory"
	"github.com/hupe1980/smartpup/model/openai"
	"github.com/hupe1980/smartpup/tool"
)

// Configuration names read by the built-in capabilities.
const (
	EnvMemoryFile        = "MEMORY_FILE"
	EnvOpenRouterAPIKey  = "OPENROUTER_API_KEY"
	EnvOpenRouterBaseURL = "OPENROUTER_BASE_URL"
)

var memoryEnv = []tool.EnvVar{
	{Name: EnvMemoryFile, Description: "Path to the memory storage file"},
}

var translateEnv = []tool.EnvVar{
	{Name: EnvOpenRouterAPIKey, Description: "OpenRouter API key for translation", Required: true},
	{Name: EnvOpenRouterBaseURL, Description: "OpenRouter base URL", Required: true},
}

// Catalog returns the static table of built-in capabilities.
func Catalog() tool.Catalog {
	return tool.Catalog{
		{
			Path:        "builtin/datetime",
			Name:        DateTimeName,
			Description: dateTimeDescription,
			New: func(tool.Env) (tool.Tool, error) {
				return NewDateTime(), nil
			},
		},
		{
			Path:        "builtin/memory",
			Name:        RememberName,
			Description: rememberDescription,
			Env:         memoryEnv,
			New: func(env tool.Env) (tool.Tool, error) {
				store, err := openMemory(env)
				if err != nil {
					return nil, err
				}
				return NewRemember(store), nil
			},
		},
		{
			Path:        "builtin/memory",
			Name:        RecallName,
			Description: recallDescription,
			Env:         memoryEnv,
			New: func(env tool.Env) (tool.Tool, error) {
				store, err := openMemory(env)
				if err != nil {
					return nil, err
				}
				return NewRecall(store), nil
			},
		},
		{
			Path:        "translate",
			Name:        TranslateName,
			Description: translateDescription,
			Env:         translateEnv,
			New: func(env tool.Env) (tool.Tool, error) {
				m := openai.NewModel(func(o *openai.Options) {
					o.Model = DefaultTranslationModel
					o.BaseURL = env.Get(EnvOpenRouterBaseURL)
					o.APIKey = env.Get(EnvOpenRouterAPIKey)
				})
				return NewTranslate(m), nil
			},
		},
		{
			Path:        "weather",
			Name:        WeatherName,
			Description: weatherDescription,
			New: func(tool.Env) (tool.Tool, error) {
				return NewWeather(), nil
			},
		},
	}
}

func openMemory(env tool.Env) (*memory.FileStore, error) {
	path := env.Get(EnvMemoryFile)
	if path == "" {
		path = memory.DefaultFile
	}
	return memory.NewFileStore(path)
}
