package models

// Direction is the translation direction a card is shown in
type Direction string

const (
	DirectionEnRu Direction = "en-ru"
	DirectionRuEn Direction = "ru-en"
)

// Label returns the arrow form shown to the learner
func (d Direction) Label() string {
	if d == DirectionRuEn {
		return "RU→EN"
	}
	return "EN→RU"
}

// DefaultDailyTarget is the number of cards per session when nothing is configured
const DefaultDailyTarget = 20

// Settings holds learner preferences persisted next to the progress snapshot
type Settings struct {
	DailyTarget int       `json:"daily_target" db:"daily_target"`
	Direction   Direction `json:"direction" db:"direction"`
}

// DefaultSettings returns settings with default values
func DefaultSettings() Settings {
	return Settings{
		DailyTarget: DefaultDailyTarget,
		Direction:   DirectionEnRu,
	}
}

// WithDefaults fills zero fields with defaults
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.DailyTarget <= 0 {
		s.DailyTarget = d.DailyTarget
	}
	if s.Direction != DirectionEnRu && s.Direction != DirectionRuEn {
		s.Direction = d.Direction
	}
	return s
}
