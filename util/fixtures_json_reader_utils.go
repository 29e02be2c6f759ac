package util

import (
	"encoding/json"
	"fmt"
	"os"

	"li-server/models"
)

// readJSONFile reads and unmarshals a JSON fixture into out.
func readJSONFile(filePath string, out interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from %s: %w", filePath, err)
	}
	return nil
}

// ReadVenuesFromJSON reads a list of canonical venues from a JSON file.
func ReadVenuesFromJSON(filePath string) ([]models.Venue, error) {
	var venues []models.Venue
	if err := readJSONFile(filePath, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// ReadEventsFromJSON reads a list of events from a JSON file.
func ReadEventsFromJSON(filePath string) ([]models.Event, error) {
	var events []models.Event
	if err := readJSONFile(filePath, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ReadRestaurantsFromJSON reads restaurant seed rows from a JSON file.
func ReadRestaurantsFromJSON(filePath string) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := readJSONFile(filePath, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}
