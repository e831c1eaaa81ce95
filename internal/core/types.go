package core

// Mode is the behavior a competitor adopts for a single trading day.
type Mode string

const (
	// ModeAggressive is the maximum-variance bet: a binary-ish earnings
	// outcome drawn at the highest daily volatility.
	ModeAggressive Mode = "aggressive"
	// ModeCash holds cash for the day: exactly zero return, zero variance.
	ModeCash Mode = "cash"
	// ModeBaseline is a market-like daily return at the competitor's
	// assigned volatility.
	ModeBaseline Mode = "baseline"
)

// IsValid reports whether the mode belongs to the closed set.
func (m Mode) IsValid() bool {
	switch m {
	case ModeAggressive, ModeCash, ModeBaseline:
		return true
	}
	return false
}

// Archetype selects how non-self competitors pick their daily volatility.
type Archetype string

const (
	// ArchetypeRandom picks a fresh volatility from the ladder every day.
	ArchetypeRandom Archetype = "random"
	// ArchetypeLow always trades at the minimum daily volatility.
	ArchetypeLow Archetype = "low"
	// ArchetypeHigh always trades at the maximum daily volatility.
	ArchetypeHigh Archetype = "high"
	// ArchetypeAvg always trades at the ladder mean.
	ArchetypeAvg Archetype = "avg"
	// ArchetypeMixed splits the field by index: first third at the ladder
	// mean, second third at max volatility, the rest random.
	ArchetypeMixed Archetype = "mixed"
)

// IsValid reports whether the archetype is a known opponent strategy.
func (a Archetype) IsValid() bool {
	switch a {
	case ArchetypeRandom, ArchetypeLow, ArchetypeHigh, ArchetypeAvg, ArchetypeMixed:
		return true
	}
	return false
}
