package slides

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Deck is a presentation as written in a deck file.
type Deck struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Slides      []Slide `json:"slides"`
}

// ParseDeck parses a YAML or JSON deck file. Content values are normalized
// to their JSON forms (numbers become float64) so decks read from disk
// behave like payloads received over HTTP.
func ParseDeck(data []byte) (Deck, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Deck{}, fmt.Errorf("parsing deck: %w", err)
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return Deck{}, fmt.Errorf("normalizing deck: %w", err)
	}
	var d Deck
	if err := json.Unmarshal(buf, &d); err != nil {
		return Deck{}, fmt.Errorf("decoding deck: %w", err)
	}
	return d, nil
}
