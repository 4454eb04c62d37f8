package model

import "context"

// SignalKind is a device command category.
type SignalKind string

const (
	SignalLeft   SignalKind = "left"
	SignalRight  SignalKind = "right"
	SignalHazard SignalKind = "hazard"
)

// Valid reports whether the kind names one of the device's signal endpoints.
func (k SignalKind) Valid() bool {
	switch k {
	case SignalLeft, SignalRight, SignalHazard:
		return true
	}
	return false
}

// DeviceCommander issues fire-and-forget commands to a signal device at the
// given base URL. Implementations do not retry and do not confirm that the
// device actually changed state.
type DeviceCommander interface {
	ToggleSignal(ctx context.Context, baseURL string, kind SignalKind) error
	SetTimer(ctx context.Context, baseURL string, duration string) error
}
