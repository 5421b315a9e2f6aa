package models

// Status is the approval lifecycle shared by confessions and clubs.
//
//	pending --approve--> approved
//	pending --reject---> rejected
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsDecision reports whether s is a status a moderator may set.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

type GigStatus string

const (
	GigOpen   GigStatus = "open"
	GigFilled GigStatus = "filled"
	GigClosed GigStatus = "closed"
)

func (s GigStatus) Valid() bool {
	switch s {
	case GigOpen, GigFilled, GigClosed:
		return true
	}
	return false
}

type RSVPStatus string

const (
	RSVPGoing      RSVPStatus = "going"
	RSVPInterested RSVPStatus = "interested"
)

func (s RSVPStatus) Valid() bool {
	return s == RSVPGoing || s == RSVPInterested
}

// ContentKind names the moderated tables.
type ContentKind string

const (
	KindConfession ContentKind = "confession"
	KindClub       ContentKind = "club"
	KindEvent      ContentKind = "event"
)
