package order

// Status is the workflow state of an order.
type Status string

const (
	StatusDraft        Status = "Draft"
	StatusSubmitted    Status = "Submitted"
	StatusInProduction Status = "In Production"
	StatusDone         Status = "Done"
)

// Tone is the badge colour a status is displayed with.
type Tone string

const (
	ToneYellow Tone = "yellow"
	ToneBlue   Tone = "blue"
	TonePurple Tone = "purple"
	ToneGreen  Tone = "green"
	ToneGray   Tone = "gray"
)

var statusTones = map[Status]Tone{
	StatusDraft:        ToneYellow,
	StatusSubmitted:    ToneBlue,
	StatusInProduction: TonePurple,
	StatusDone:         ToneGreen,
}

// Tone returns the badge colour for s. Unknown statuses are gray.
func (s Status) Tone() Tone {
	if t, ok := statusTones[s]; ok {
		return t
	}
	return ToneGray
}

// IsKnown reports whether s is one of the workflow states.
func (s Status) IsKnown() bool {
	_, ok := statusTones[s]
	return ok
}
