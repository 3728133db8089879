// internal/registry/activity.go
package registry

// Activity is one extracurricular offering. The registry keys activities by
// Name, so Name stays out of the serialized listing value.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// clone returns a deep copy so snapshots never alias the live roster.
func (a *Activity) clone() Activity {
	out := *a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// enrolled reports whether the participant is already on the roster.
func (a *Activity) enrolled(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}
