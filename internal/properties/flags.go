package properties

import "fmt"

// EventFlag names the bits of an event code.
type EventFlag uint8

const (
	EventValidated EventFlag = iota
	EventShared
	EventProposal
	EventWebInsert
	EventRestInsert
	EventPublished
)

var eventFlagNames = [...]string{
	"validated", "shared", "proposal", "web_insert", "rest_insert", "published",
}

func (f EventFlag) Valid() bool { return int(f) < len(eventFlagNames) }

func (f EventFlag) String() string {
	if !f.Valid() {
		return fmt.Sprintf("EventFlag(%d)", uint8(f))
	}
	return eventFlagNames[f]
}

// ItemFlag names the bits of an object or attribute code.
type ItemFlag uint8

const (
	ItemValidated ItemFlag = iota
	ItemShareable
	ItemProposal
	ItemWebInsert
	ItemRestInsert
)

var itemFlagNames = [...]string{
	"validated", "shareable", "proposal", "web_insert", "rest_insert",
}

func (f ItemFlag) Valid() bool { return int(f) < len(itemFlagNames) }

func (f ItemFlag) String() string {
	if !f.Valid() {
		return fmt.Sprintf("ItemFlag(%d)", uint8(f))
	}
	return itemFlagNames[f]
}

// UserFlag names the bits of a user's permission code.
type UserFlag uint8

const (
	UserDisabled UserFlag = iota
	UserPrivileged
	UserValidate
	UserSetGroup
)

var userFlagNames = [...]string{
	"disabled", "privileged", "validate", "set_group",
}

func (f UserFlag) Valid() bool { return int(f) < len(userFlagNames) }

func (f UserFlag) String() string {
	if !f.Valid() {
		return fmt.Sprintf("UserFlag(%d)", uint8(f))
	}
	return userFlagNames[f]
}

// GroupFlag names the bits of a group's permission code.
type GroupFlag uint8

const (
	GroupCanDownload GroupFlag = iota
	GroupPropagateTLP
	GroupValidate
	GroupPrivileged
)

var groupFlagNames = [...]string{
	"can_download", "propagate_tlp", "validate", "privileged",
}

func (f GroupFlag) Valid() bool { return int(f) < len(groupFlagNames) }

func (f GroupFlag) String() string {
	if !f.Valid() {
		return fmt.Sprintf("GroupFlag(%d)", uint8(f))
	}
	return groupFlagNames[f]
}

// Capability names what a group may do on one event.
type Capability uint8

const (
	CanAdd Capability = iota
	CanModify
	CanValidate
	CanPropose
	CanDelete
	SetGroups
	CanView
)

var capabilityNames = [...]string{
	"can_add", "can_modify", "can_validate", "can_propose", "can_delete", "set_groups", "can_view",
}

func (c Capability) Valid() bool { return int(c) < len(capabilityNames) }

func (c Capability) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Capability(%d)", uint8(c))
	}
	return capabilityNames[c]
}
