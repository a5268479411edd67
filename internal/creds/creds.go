// Package creds loads machine connection credentials from disk.
package creds

import (
	"encoding/json"
	"fmt"
	"os"
)

// RobotCredentials holds the connection details for the work cell's
// Viam machine.
type RobotCredentials struct {
	Address  string `json:"address"`
	EntityID string `json:"entity_id"`
	APIKey   string `json:"api_key"`
}

// Validate checks that every connection field is present.
func (c *RobotCredentials) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("credentials missing address")
	}
	if c.EntityID == "" {
		return fmt.Errorf("credentials missing entity_id")
	}
	if c.APIKey == "" {
		return fmt.Errorf("credentials missing api_key")
	}
	return nil
}

// Load reads, parses, and validates robot credentials from a JSON file.
func Load(path string) (*RobotCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	var c RobotCredentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}
