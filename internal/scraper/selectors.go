package scraper

import (
	"encoding/json"
	"fmt"
	"os"
)

type SelectorConfig struct {
	SearchList SearchSelectors `json:"search_list"`
	NextData   NextDataConfig  `json:"next_data"`
}

type SearchSelectors struct {
	Container SearchContainer `json:"container"`
	Elements  CardElements    `json:"elements"`
}

type SearchContainer struct {
	Item           string `json:"item"`            // e.g., "a.ItemCardList__item"
	IgnoreModifier string `json:"ignore_modifier"` // e.g., ".ItemCardList__item--promoted"
}

type CardElements struct {
	Title      string `json:"title"`
	Price      string `json:"price"`
	Location   string `json:"location"`
	Image      string `json:"image"`
	Attributes string `json:"attributes"` // year / km / fuel chips share one class
}

// NextDataConfig names the script element carrying the embedded page state,
// used as a fallback when the card markup yields nothing.
type NextDataConfig struct {
	ScriptID string `json:"script_id"`
}

// LoadSelectors loads the selector configuration from the specified JSON file.
func LoadSelectors(path string) (SelectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to read selector config file: %w", err)
	}

	return LoadSelectorsFromBytes(data)
}

// LoadSelectorsFromBytes parses selector configuration from raw JSON bytes.
// This supports loading from embedded data via go:embed.
func LoadSelectorsFromBytes(data []byte) (SelectorConfig, error) {
	var config SelectorConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to parse selector config JSON: %w", err)
	}

	return config, nil
}

// DefaultSelectors returns the fallback configuration if no JSON file is loaded.
// The embedded selectors.json should be preferred; keep both in sync.
func DefaultSelectors() SelectorConfig {
	return SelectorConfig{
		SearchList: SearchSelectors{
			Container: SearchContainer{
				Item:           "a.ItemCardList__item",
				IgnoreModifier: ".ItemCardList__item--promoted",
			},
			Elements: CardElements{
				Title:      ".ItemCard__title",
				Price:      ".ItemCard__price",
				Location:   ".ItemCard__location",
				Image:      ".ItemCard__image img",
				Attributes: ".ItemCard__attribute",
			},
		},
		NextData: NextDataConfig{
			ScriptID: "#__NEXT_DATA__",
		},
	}
}
