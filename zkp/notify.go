package zkp

import (
	"go.uber.org/zap"

	"zkqshield/quantum"
)

// Event is the fire-and-forget notification emitted to audit collaborators.
// It carries proof id, type, level and outcome only, never statement inputs
// or proof material.
type Event struct {
	ProofID       string
	Type          StatementType
	SecurityLevel quantum.SecurityLevel
	Outcome       string
}

// Notifier consumes engine events. Implementations must not block; the
// engine calls them inline on the generate/verify path.
type Notifier interface {
	ProofGenerated(Event)
	ProofVerified(Event)
}

// NopNotifier discards all events.
type NopNotifier struct{}

// ProofGenerated implements Notifier.
func (NopNotifier) ProofGenerated(Event) {}

// ProofVerified implements Notifier.
func (NopNotifier) ProofVerified(Event) {}

// LogNotifier writes events to a zap logger, one info line per event.
type LogNotifier struct {
	Logger *zap.Logger
}

// NewLogNotifier wraps the logger as a Notifier.
func NewLogNotifier(logger *zap.Logger) LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return LogNotifier{Logger: logger}
}

// ProofGenerated implements Notifier.
func (n LogNotifier) ProofGenerated(ev Event) {
	n.Logger.Info("proof generated", eventFields(ev)...)
}

// ProofVerified implements Notifier.
func (n LogNotifier) ProofVerified(ev Event) {
	n.Logger.Info("proof verified", eventFields(ev)...)
}

func eventFields(ev Event) []zap.Field {
	return []zap.Field{
		zap.String("proof_id", ev.ProofID),
		zap.String("type", ev.Type.String()),
		zap.String("security_level", ev.SecurityLevel.String()),
		zap.String("outcome", ev.Outcome),
	}
}
