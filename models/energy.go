package models

// EnergyPattern describes a user's inferred daily energy curve. It is derived
// fresh for each generation call from recent completion history and is never
// persisted as a first-class entity.
type EnergyPattern struct {
	Type          string `json:"type"`           // e.g. "morning_person", "night_owl", "balanced"
	Peak          string `json:"peak"`           // HH:MM-HH:MM
	Low           string `json:"low"`            // HH:MM-HH:MM
	SecondaryPeak string `json:"secondary_peak"` // HH:MM-HH:MM
}

// TimeWindow is a named HH:MM interval used for breaks and blocked time.
type TimeWindow struct {
	Name      string `json:"name,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ScheduleConstraints are the day's fixed boundary conditions, sourced from
// stored user preferences. Read-only input to schedule generation.
type ScheduleConstraints struct {
	WorkHours      TimeWindow   `json:"workHours"`
	Breaks         []TimeWindow `json:"breaks"`
	BlockedTimes   []TimeWindow `json:"blockedTimes"`
	PreferredTimes []TimeWindow `json:"preferredTimes"`
}
