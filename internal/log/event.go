package log

// EventType enumerates the observable steps of a hunt.
type EventType int

const (
	EventHuntStart EventType = iota
	EventPass
	EventImprint
	EventVent
	EventMatch
	EventRevolution
)

func (e EventType) String() string {
	switch e {
	case EventHuntStart:
		return "HuntStart"
	case EventPass:
		return "Pass"
	case EventImprint:
		return "Imprint"
	case EventVent:
		return "Vent"
	case EventMatch:
		return "Match"
	case EventRevolution:
		return "Revolution"
	default:
		return "Unknown"
	}
}

// HuntEvent represents a single card visit during a traced hunt.
type HuntEvent struct {
	Seq     int       // monotonic sequence number
	Step    int       // cards walked since the start lab (0 = the lab)
	Index   int       // ring index of the visited card
	Type    EventType // event type
	Card    string    // card description
	Target  string    // target state after the visit
	Details string    // human-readable detail string
}
