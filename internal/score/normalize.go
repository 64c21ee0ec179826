package score

import "math"

// Row is the normalized score pair for one agent.
type Row struct {
	Composite float64
	Secondary float64
}

// Normalize maps a decoded payload to a canonical row. Pure and total: any
// payload, including an empty one, yields finite floats. Missing values
// default to 0.0. The per-family fallback chains are load-bearing for
// backward-compatible leaderboards and must not be reordered.
func Normalize(p Payload) Row {
	switch v := p.(type) {
	case IteratedChoiceScore:
		return Row{
			Composite: finite(first(v.CompositeScore, v.AgentScore, v.TotalProfit)),
			Secondary: finite(first(v.AgentScore, v.TotalProfit)),
		}
	case EthicsScore:
		// The nested ethics sub-object, when present, wins over top-level
		// keys at every chain position.
		return Row{
			Composite: finite(first(
				pick(v.Nested, v, func(s EthicsScore) *float64 { return s.Composite }),
				pick(v.Nested, v, func(s EthicsScore) *float64 { return s.EthicsComposite }),
				pick(v.Nested, v, func(s EthicsScore) *float64 { return s.CompositeScore }),
			)),
			Secondary: finite(first(
				pick(v.Nested, v, func(s EthicsScore) *float64 { return s.MoralResistance }),
				pick(v.Nested, v, func(s EthicsScore) *float64 { return s.MoralScore }),
			)),
		}
	case RawScore:
		return Row{Composite: finite(numField(v, "composite_score"))}
	default:
		return Row{}
	}
}

// pick resolves one chain position: the nested sub-object's field if set,
// else the top-level field.
func pick(nested *EthicsScore, top EthicsScore, field func(EthicsScore) *float64) *float64 {
	if nested != nil {
		if f := field(*nested); f != nil {
			return f
		}
	}
	return field(top)
}

func first(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func finite(v *float64) float64 {
	if v == nil {
		return 0
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}
