package telemetry

import (
	"context"
	"errors"

	"github.com/nerrad567/hydroponics-core/internal/hydroponics"
)

// Multi notifies every notifier in order. One failing does not stop the
// rest; the failures are joined.
type Multi []hydroponics.Notifier

// ReadingCreated forwards to every notifier.
func (m Multi) ReadingCreated(ctx context.Context, ownerID string, rd hydroponics.Reading) error {
	var errs []error
	for _, n := range m {
		if err := n.ReadingCreated(ctx, ownerID, rd); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SystemChanged forwards to every notifier.
func (m Multi) SystemChanged(ctx context.Context, event hydroponics.SystemEvent, s hydroponics.System) error {
	var errs []error
	for _, n := range m {
		if err := n.SystemChanged(ctx, event, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
