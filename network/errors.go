package network

import "errors"

// Sentinel errors for network assembly and evaluation. Callers branch with
// errors.Is; messages are stable.
var (
	// ErrNilGraph indicates a nil *core.Graph was supplied to New.
	ErrNilGraph = errors.New("network: nil graph")

	// ErrConstruction indicates models that cannot be assembled over the
	// graph: wrong model count, no (or more than one) function on a model,
	// a bad mass block or name list, or an unsupported kind combination.
	ErrConstruction = errors.New("network: construction failed")

	// ErrShapeMismatch indicates a state or derivative buffer whose length
	// matches neither DimV nor DimV+DimE of the assembled network.
	ErrShapeMismatch = errors.New("network: buffer length mismatch")

	// ErrIndexOutOfBounds indicates per-entity parameter slices whose count
	// disagrees with the graph; detected before any user function runs.
	ErrIndexOutOfBounds = errors.New("network: parameter index out of range")

	// ErrNeedHistory indicates a history-aware model was assembled but no
	// history function was supplied to the call.
	ErrNeedHistory = errors.New("network: history function is required")
)
