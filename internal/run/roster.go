package run

// Placeholder display metadata for participants with no roster entry and no
// inline metadata on the event itself.
const (
	PlaceholderIcon  = "●"
	PlaceholderColor = "#8A8F98"
	PlaceholderName  = "agent"
)

// Roster joins participant ids against display metadata fetched once per
// run. It also owns the sticky leader/judge designation.
type Roster struct {
	members  map[string]ParticipantInfo
	order    []string
	leaderID string
}

func NewRoster(members []ParticipantInfo) *Roster {
	roster := &Roster{members: make(map[string]ParticipantInfo, len(members))}
	for _, member := range members {
		if member.ID == "" {
			continue
		}
		if _, dup := roster.members[member.ID]; !dup {
			roster.order = append(roster.order, member.ID)
		}
		roster.members[member.ID] = member
		if member.LeaderOrJudge && roster.leaderID == "" {
			roster.leaderID = member.ID
		}
	}
	return roster
}

// Resolve maps a participant id to display metadata. Preference order:
// roster entry, then inline metadata carried on the event, then a generic
// placeholder.
func (r *Roster) Resolve(id string, inline ParticipantInfo) ParticipantInfo {
	if r == nil {
		r = NewRoster(nil)
	}
	info, ok := r.members[id]
	if !ok {
		info = ParticipantInfo{
			ID:          id,
			DisplayName: inline.DisplayName,
			Icon:        inline.Icon,
			Color:       inline.Color,
		}
	}
	if info.DisplayName == "" {
		info.DisplayName = PlaceholderName
	}
	if info.Icon == "" {
		info.Icon = PlaceholderIcon
	}
	if info.Color == "" {
		info.Color = PlaceholderColor
	}
	info.ID = id
	info.LeaderOrJudge = r.leaderID != "" && r.leaderID == id
	return info
}

// ObservePhase designates the first participant seen with a dispatch or
// synthesize origin as leader/judge. The designation is sticky for the rest
// of the run even if a later event from another participant carries the same
// phase.
func (r *Roster) ObservePhase(participantID string, phase Phase) {
	if r == nil || r.leaderID != "" || participantID == "" {
		return
	}
	if phase == PhaseDispatch || phase == PhaseSynthesize {
		r.leaderID = participantID
	}
}

func (r *Roster) LeaderID() string {
	if r == nil {
		return ""
	}
	return r.leaderID
}

// Members returns roster entries in their fetch order.
func (r *Roster) Members() []ParticipantInfo {
	if r == nil {
		return nil
	}
	out := make([]ParticipantInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.Resolve(id, ParticipantInfo{}))
	}
	return out
}
