package validation

import (
	"fmt"
	"strings"

	"cbstart/config/models"
	"cbstart/internal/utils"
)

// Validator validates API key and model entries loaded from config files
type Validator struct {
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAPIKey validates a single API key entry
func (v *Validator) ValidateAPIKey(entry models.APIKey) error {
	if entry.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.ContainsAny(entry.Name, "<>\"'&/\\") {
		return fmt.Errorf("name contains invalid characters")
	}
	if len(entry.Name) > 50 {
		return fmt.Errorf("name is too long (max 50 characters)")
	}

	if entry.Key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if entry.BaseURL != "" && !utils.ValidateURL(entry.BaseURL) {
		return fmt.Errorf("invalid URL format: %s", entry.BaseURL)
	}

	return nil
}

// ValidateModel validates a single model entry
func (v *Validator) ValidateModel(entry models.Model) error {
	if entry.ID == "" {
		return fmt.Errorf("model id cannot be empty")
	}
	if strings.ContainsAny(entry.ID, "<>\"'&\\") {
		return fmt.Errorf("model id contains invalid characters")
	}
	return nil
}

// ValidateAPIKeys validates the whole key list and reports the first
// offending entry by position.
func (v *Validator) ValidateAPIKeys(entries []models.APIKey) error {
	for i, entry := range entries {
		if err := v.ValidateAPIKey(entry); err != nil {
			return fmt.Errorf("apiKeys[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateModels validates the whole model list
func (v *Validator) ValidateModels(entries []models.Model) error {
	for i, entry := range entries {
		if err := v.ValidateModel(entry); err != nil {
			return fmt.Errorf("data[%d]: %w", i, err)
		}
	}
	return nil
}
