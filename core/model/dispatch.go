package model

// Mode is the operating state implied by a signed power. The string forms
// are stable: they appear in CSV exports and streamed payloads.
type Mode int8

const (
	ModeIdle Mode = iota
	ModeCharging
	ModeDischarging
)

// ModeOf derives the mode from a signed grid-side power.
func ModeOf(powerMW float64) Mode {
	switch {
	case powerMW < 0:
		return ModeCharging
	case powerMW > 0:
		return ModeDischarging
	default:
		return ModeIdle
	}
}

func (m Mode) String() string {
	switch m {
	case ModeCharging:
		return "CHARGE"
	case ModeDischarging:
		return "DISCHARGE"
	default:
		return "IDLE"
	}
}

// DispatchRequest is the power an asset asks to exchange with the grid for
// one step: positive discharges, negative charges, zero idles. Requests are
// ephemeral, produced by the policy and consumed by the constraint enforcer
// within the same step.
type DispatchRequest struct {
	AssetID string
	PowerMW float64
}

// Mode reports the requested operating mode.
func (r DispatchRequest) Mode() Mode { return ModeOf(r.PowerMW) }

// ApprovedDispatch is the power an asset actually executes after fleet-level
// constraint clipping. Its magnitude never exceeds the originating request.
type ApprovedDispatch struct {
	AssetID string
	PowerMW float64
}

// Mode reports the approved operating mode.
func (a ApprovedDispatch) Mode() Mode { return ModeOf(a.PowerMW) }
