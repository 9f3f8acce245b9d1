package workspace

// EventSubjects names the bus subjects a workspace viewer listens on. The
// thought and phase streams are independent channels correlated by run id.
type EventSubjects struct {
	RunThoughts string
	RunPhase    string
	Roster      string
	Usage       string
}

func DefaultEventSubjects(prefix string) EventSubjects {
	if prefix == "" {
		prefix = "cowork"
	}
	return EventSubjects{
		RunThoughts: prefix + ".run.thought",
		RunPhase:    prefix + ".run.phase",
		Roster:      prefix + ".run.roster",
		Usage:       prefix + ".workspace.usage",
	}
}
