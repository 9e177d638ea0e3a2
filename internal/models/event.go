package models

import (
	"github.com/dmitrijs2005/intelshare/internal/properties"
	"github.com/dmitrijs2005/intelshare/internal/tlp"
)

// EventProperties is the flag code of an event.
type EventProperties = properties.Bits[properties.EventFlag]

// Capabilities is what a group may do on one event.
type Capabilities = properties.Bits[properties.Capability]

const (
	// NoCapabilities is granted to groups without a stored grant.
	NoCapabilities Capabilities = 0
	// AllCapabilities is the implicit grant of an event's owner group.
	AllCapabilities Capabilities = 1<<7 - 1
)

// Event is a shared security incident.
type Event struct {
	ID           int64
	Title        string
	Description  string
	OwnerGroupID int64
	TLP          tlp.Level
	Properties   EventProperties
	Objects      []*Object
	Groups       []EventGroupPermission
}

// EventGroupPermission grants one group capabilities on one event. There is
// at most one per (event, group) pair.
type EventGroupPermission struct {
	EventID     int64
	GroupID     int64
	Permissions Capabilities
}

// Grant returns the stored grant of groupID, if any.
func (e *Event) Grant(groupID int64) (EventGroupPermission, bool) {
	for _, g := range e.Groups {
		if g.GroupID == groupID {
			return g, true
		}
	}
	return EventGroupPermission{}, false
}
