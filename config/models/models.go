package models

// APIKey represents a single API key entry from config.json
type APIKey struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Key         string `json:"key"`
	BaseURL     string `json:"baseURL"`
}

// Model represents a single model entry from models.json
type Model struct {
	ID string `json:"id"`
}

// Settings represents settings.json. All fields are optional; absent
// fields decode to their zero values and degrade to interactive mode.
type Settings struct {
	QuickStart    bool   `json:"quickStart"`
	DefaultAPIKey string `json:"defaultApiKey"`
	DefaultModel  string `json:"defaultModel"`
	AlwaysResume  bool   `json:"alwaysResume"`
}

// KeyFile represents the structure of config.json
type KeyFile struct {
	APIKeys []APIKey `json:"apiKeys"`
}

// ModelFile represents the structure of models.json
type ModelFile struct {
	Data []Model `json:"data"`
}
