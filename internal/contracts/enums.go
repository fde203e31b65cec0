package contracts

// Category enums produced by the analytics core.
// ⭐ SSOT: 화면에 노출되는 카테고리 문자열은 여기서만 정의

// Letter is a factor grade bucket
type Letter string

const (
	LetterAPlus Letter = "A+"
	LetterA     Letter = "A"
	LetterBPlus Letter = "B+"
	LetterB     Letter = "B"
	LetterC     Letter = "C"
	LetterD     Letter = "D"
)

// AllLetters returns grades best first
func AllLetters() []Letter {
	return []Letter{LetterAPlus, LetterA, LetterBPlus, LetterB, LetterC, LetterD}
}

// Regime is the three-tier stability reading of a macro indicator
type Regime string

const (
	RegimeStable  Regime = "stable"
	RegimeCaution Regime = "caution"
	RegimeDanger  Regime = "danger"
)

// Season is the credit-cycle quadrant derived from the HY spread label
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
	SeasonNone   Season = "none"
)

// Status is the pipeline verification status of a ticker
type Status string

const (
	StatusVerified Status = "verified"
	StatusPending  Status = "pending"
	StatusNewEntry Status = "new_entry"
	StatusNone     Status = "none"
)

// ParseStatus maps a query value to a Status. Unknown values map to StatusNone.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusVerified, StatusPending, StatusNewEntry:
		return Status(s)
	default:
		return StatusNone
	}
}

// ActionSeverity is the display tier of the market action recommendation
type ActionSeverity string

const (
	SeverityPositive     ActionSeverity = "positive"
	SeverityNeutral      ActionSeverity = "neutral"
	SeverityWarning      ActionSeverity = "warning"
	SeveritySevere       ActionSeverity = "severe"
	SeverityUnclassified ActionSeverity = "unclassified"
)
