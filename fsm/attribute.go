package fsm

// Attribute selects the mutation performed by SetAttribute.
type Attribute int

const (
	// AttrRestart sets NextState to the accompanying state and clears
	// LastState/PreviousState/Signal, as if Setup had just run.
	AttrRestart Attribute = iota
	// AttrClearFirstEntryFlag clears PreviousState/LastState without
	// touching NextState, forcing the next Run to look like a first
	// entry into the current state.
	AttrClearFirstEntryFlag
	// AttrSetFailure, AttrSetSuccess, AttrSetUnexpected, and
	// AttrSetBeforeAny replace the corresponding substate hook.
	AttrSetFailure
	AttrSetSuccess
	AttrSetUnexpected
	AttrSetBeforeAny
	// AttrUninstallTable detaches any installed transition table.
	AttrUninstallTable
)

// SetAttribute applies a single attribute mutation. state is only
// consulted for AttrRestart; sub is only consulted for the four
// AttrSet* hooks. Unknown Attribute values are a silent no-op, matching
// the source's default case.
func (m *Machine) SetAttribute(attr Attribute, state *State, sub SubStateFunc) {
	if m == nil {
		return
	}
	switch attr {
	case AttrRestart:
		m.handler.NextState = state
		m.handler.PreviousState = nil
		m.handler.LastState = nil
		m.handler.Signal = SignalNone
		m.handler.PreviousReturn = Success()
	case AttrClearFirstEntryFlag:
		m.handler.PreviousState = nil
		m.handler.LastState = nil
	case AttrSetFailure:
		m.failure = sub
	case AttrSetSuccess:
		m.success = sub
	case AttrSetUnexpected:
		m.unexpected = sub
	case AttrSetBeforeAny:
		m.beforeAny = sub
	case AttrUninstallTable:
		m.table = nil
	}
}
