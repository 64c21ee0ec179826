// Package score turns the heterogeneous result objects emitted by scenario
// engines into canonical leaderboard rows. Payloads are decoded at the
// boundary into an explicit variant per scenario family; the normalizer
// pattern-matches on the variant instead of probing maps for keys.
package score

import (
	"encoding/json"
	"strconv"

	"github.com/arenalab/gauntlet/internal/catalog"
)

// Payload is the decoded form of one engine result object.
type Payload interface {
	payload()
}

// IteratedChoiceScore carries the fields the iterated-choice engines emit.
// A nil field means the key was missing or non-numeric.
type IteratedChoiceScore struct {
	CompositeScore *float64
	AgentScore     *float64
	TotalProfit    *float64
}

// EthicsScore carries the ethics-family fields. Nested holds the optional
// ethics sub-object, which older engine versions emit instead of (or in
// addition to) top-level keys.
type EthicsScore struct {
	Composite       *float64
	EthicsComposite *float64
	CompositeScore  *float64
	MoralResistance *float64
	MoralScore      *float64
	Nested          *EthicsScore
}

// RawScore is the fallback variant for payloads that fit no known family
// shape, including unparsable input.
type RawScore map[string]any

func (IteratedChoiceScore) payload() {}
func (EthicsScore) payload()         {}
func (RawScore) payload()            {}

// Decode parses raw engine output for the given scenario family. It is
// total: malformed input decodes to an empty RawScore rather than an error.
// The exchange engines report profit-style keys, so their payloads decode
// through the iterated-choice shape.
func Decode(raw []byte, family catalog.Family) Payload {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return RawScore(nil)
	}
	switch family {
	case catalog.FamilyIteratedChoice, catalog.FamilyExchange:
		return IteratedChoiceScore{
			CompositeScore: numField(m, "composite_score"),
			AgentScore:     numField(m, "agent_score"),
			TotalProfit:    numField(m, "total_profit"),
		}
	case catalog.FamilyEthics:
		s := ethicsFields(m)
		if sub, ok := m["ethics"].(map[string]any); ok {
			nested := ethicsFields(sub)
			s.Nested = &nested
		}
		return s
	default:
		return RawScore(m)
	}
}

func ethicsFields(m map[string]any) EthicsScore {
	return EthicsScore{
		Composite:       numField(m, "composite"),
		EthicsComposite: numField(m, "ethics_composite"),
		CompositeScore:  numField(m, "composite_score"),
		MoralResistance: numField(m, "moral_resistance_score"),
		MoralScore:      numField(m, "moral_score"),
	}
}

func numField(m map[string]any, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	f, ok := toNumber(v)
	if !ok {
		return nil
	}
	return &f
}

// toNumber coerces a decoded JSON value to float64. Numeric strings count;
// everything else is treated as absent.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
