package fetch

import "github.com/atomicstack/pulse-dash/internal/remote"

// Status is the lifecycle stage of a Slot.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Slot holds the single displayed response of a Fetcher. Data is meaningful
// only when Status is Ready; Err, ErrKind and Message only when Failed.
type Slot[T any] struct {
	Key     string
	Status  Status
	Data    T
	Err     error
	ErrKind remote.Kind
	Message string
}
