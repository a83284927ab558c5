package core

import (
	"encoding/json"
	"fmt"
)

// A snapshot wraps a bracket with its format tag so the concrete
// variant can be restored when reading it back.
type snapshot struct {
	Format  Format          `json:"format"`
	Bracket json.RawMessage `json:"bracket"`
}

// MarshalBracket serializes any bracket variant to JSON together
// with its format tag. Because brackets hold no object cycles
// and reference games only by section and index, the encoding is
// a plain value dump.
func MarshalBracket(b Bracket) ([]byte, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshot{Format: b.Format(), Bracket: raw})
}

// UnmarshalBracket restores a bracket from MarshalBracket output,
// dispatching on the embedded format tag.
func UnmarshalBracket(data []byte) (Bracket, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	var bracket Bracket
	switch snap.Format {
	case FormatSingleElimination:
		bracket = &SingleElimination{}
	case FormatDoubleElimination:
		bracket = &DoubleElimination{}
	case FormatRoundRobin:
		bracket = &RoundRobin{}
	case FormatSwiss:
		bracket = &Swiss{}
	case FormatGroupKnockout:
		bracket = &GroupKnockout{}
	case FormatLadder:
		bracket = &Ladder{}
	default:
		return nil, fmt.Errorf("unmarshal bracket: unknown format %q", snap.Format)
	}

	if err := json.Unmarshal(snap.Bracket, bracket); err != nil {
		return nil, err
	}
	return bracket, nil
}
