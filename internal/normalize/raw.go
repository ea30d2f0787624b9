package normalize

import (
	"encoding/json"
	"fmt"
)

// RawSchedule is the scraper's output document.
type RawSchedule struct {
	ScrapedAt string    `json:"scraped_at"`
	Games     []RawGame `json:"games"`
}

// RawGame is one scraped schedule entry.
type RawGame struct {
	VenueType        string            `json:"venue_type"`
	Weekday          string            `json:"weekday"`
	DateText         string            `json:"date_text"`
	DividerText      string            `json:"divider_text"`
	OpponentName     string            `json:"opponent_name"`
	Kickoff          string            `json:"kickoff"`
	Location         string            `json:"location"`
	Status           string            `json:"status"`
	Result           *RawResult        `json:"result,omitempty"`
	TVNetworkLogoURL string            `json:"tv_network_logo_url"`
	OpponentLogoURL  string            `json:"opponent_logo_url"`
	NebraskaLogoURL  string            `json:"nebraska_logo_url"`
	Links            []json.RawMessage `json:"links"`
}

// RawResult is the scraped outcome of a played game.
type RawResult struct {
	Outcome string `json:"outcome"`
	Score   string `json:"score"`
}

// DecodeRaw parses a scraped schedule document.
func DecodeRaw(data []byte) (RawSchedule, error) {
	var raw RawSchedule
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawSchedule{}, fmt.Errorf("decode raw schedule: %w", err)
	}
	return raw, nil
}

// DecodeOverrides parses a stadium overrides document of the form
// {"overrides": {"<game key>": "Team-Stadium-State"}}.
func DecodeOverrides(data []byte) (map[string]string, error) {
	var doc struct {
		Overrides map[string]string `json:"overrides"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode overrides: %w", err)
	}
	if doc.Overrides == nil {
		doc.Overrides = map[string]string{}
	}
	return doc.Overrides, nil
}
