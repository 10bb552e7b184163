package hydroponics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/nerrad567/hydroponics-core/internal/auth"
	"github.com/nerrad567/hydroponics-core/internal/query"
	"github.com/nerrad567/hydroponics-core/internal/validation"
)

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Transactor runs a function inside one database transaction.
// *database.DB satisfies it.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Notifier is told about committed changes. Its errors are logged by the
// Service and never fail the request that caused them.
type Notifier interface {
	SystemChanged(ctx context.Context, event SystemEvent, s System) error
	ReadingCreated(ctx context.Context, ownerID string, rd Reading) error
}

// Service implements the ownership-scoped operations on systems and
// readings. Every method checks the caller with auth.Authorize and runs
// in a single transaction.
type Service struct {
	db       Transactor
	notifier Notifier
	logger   Logger
}

// NewService creates a Service on db.
func NewService(db Transactor) *Service {
	return &Service{db: db, logger: noopLogger{}}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// SetNotifier sets the notifier told about committed changes.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// ListSystems returns one page of the caller's systems.
//
// params carries the filter, "ordering" and "page" query parameters.
// Malformed filter values and page numbers are reported together.
func (s *Service) ListSystems(ctx context.Context, caller auth.Caller, params url.Values) (query.Result[System], error) {
	if err := auth.Authorize(caller, auth.OpList, auth.Missing); err != nil {
		return query.Result[System]{}, err
	}

	f, o, p, err := parseListParams(SystemQuery, params)
	if err != nil {
		return query.Result[System]{}, err
	}

	var result query.Result[System]
	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		result, err = NewSystemRepository(tx).FindByOwner(ctx, caller.OwnerID, f, o, p)
		return err
	})
	return result, err
}

// GetSystem returns one of the caller's systems with its recent readings.
// Another owner's system is reported as auth.ErrNotFound.
func (s *Service) GetSystem(ctx context.Context, caller auth.Caller, id int64) (*SystemDetail, error) {
	var detail *SystemDetail
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		sys, err := loadSystem(ctx, tx, caller, auth.OpRetrieve, id)
		if err != nil {
			return err
		}
		recent, err := NewReadingRepository(tx).FindRecentBySystem(ctx, sys.ID, RecentReadingsLimit)
		if err != nil {
			return err
		}
		detail = &SystemDetail{System: *sys, RecentSensorReadings: recent}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// CreateSystem stores a new system owned by the caller. Any owner in the
// body is ignored.
func (s *Service) CreateSystem(ctx context.Context, caller auth.Caller, body []byte) (*System, error) {
	if err := auth.Authorize(caller, auth.OpCreate, auth.Missing); err != nil {
		return nil, err
	}

	in, err := DecodeSystemInput(body, false)
	if err != nil {
		return nil, err
	}
	sys := &System{OwnerID: caller.OwnerID}
	in.Apply(sys)

	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := auth.NewOwnerStore(tx).Ensure(ctx, caller.OwnerID); err != nil {
			return err
		}
		return NewSystemRepository(tx).Insert(ctx, sys)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("system created", "system_id", sys.ID, "owner_id", sys.OwnerID)
	s.notifySystem(ctx, SystemCreated, *sys)
	return sys, nil
}

// UpdateSystem replaces (partial=false) or patches (partial=true) one of
// the caller's systems. Ownership is checked before the body is validated,
// so another owner's system is reported as auth.ErrNotFound whatever the body.
func (s *Service) UpdateSystem(ctx context.Context, caller auth.Caller, id int64, body []byte, partial bool) (*System, error) {
	op := auth.OpUpdate
	if partial {
		op = auth.OpPartialUpdate
	}

	var sys *System
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		sys, err = loadSystem(ctx, tx, caller, op, id)
		if err != nil {
			return err
		}
		in, err := DecodeSystemInput(body, partial)
		if err != nil {
			return err
		}
		in.Apply(sys)
		return NewSystemRepository(tx).Update(ctx, sys)
	})
	if err != nil {
		return nil, err
	}

	s.notifySystem(ctx, SystemUpdated, *sys)
	return sys, nil
}

// DeleteSystem removes one of the caller's systems and all its readings.
func (s *Service) DeleteSystem(ctx context.Context, caller auth.Caller, id int64) error {
	var sys *System
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		sys, err = loadSystem(ctx, tx, caller, auth.OpDelete, id)
		if err != nil {
			return err
		}
		return NewSystemRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("system deleted", "system_id", id, "owner_id", sys.OwnerID)
	s.notifySystem(ctx, SystemDeleted, *sys)
	return nil
}

// ListReadings returns one page of the readings of all the caller's
// systems. A hydroponic_system filter naming a system the caller does not
// own matches nothing.
func (s *Service) ListReadings(ctx context.Context, caller auth.Caller, params url.Values) (query.Result[Reading], error) {
	if err := auth.Authorize(caller, auth.OpList, auth.Missing); err != nil {
		return query.Result[Reading]{}, err
	}

	f, o, p, err := parseListParams(ReadingQuery, params)
	if err != nil {
		return query.Result[Reading]{}, err
	}

	var result query.Result[Reading]
	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		result, err = NewReadingRepository(tx).FindByOwner(ctx, caller.OwnerID, f, o, p)
		return err
	})
	return result, err
}

// CreateReading stores a reading under one of the caller's systems.
//
// The body is validated first. A system that does not exist is a
// validation error on hydroponic_system; a system owned by someone else is
// auth.ErrForbidden. Nothing is written in either case.
func (s *Service) CreateReading(ctx context.Context, caller auth.Caller, body []byte) (*Reading, error) {
	if err := auth.Authorize(caller, auth.OpCreate, auth.Missing); err != nil {
		return nil, err
	}

	in, err := DecodeReadingInput(body)
	if err != nil {
		return nil, err
	}
	rd := &Reading{PH: in.PH, WaterTemp: in.WaterTemp, TDS: in.TDS, SystemID: in.SystemID}

	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		parent, err := NewSystemRepository(tx).FindByID(ctx, in.SystemID)
		if errors.Is(err, ErrSystemNotFound) {
			return validation.New("hydroponic_system", fmt.Sprintf(msgPKMissing, in.SystemID))
		}
		if err != nil {
			return err
		}
		if err := auth.Authorize(caller, auth.OpCreate, auth.Owned(parent.OwnerID)); err != nil {
			return err
		}
		return NewReadingRepository(tx).Insert(ctx, rd)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("reading created", "reading_id", rd.ID, "system_id", rd.SystemID)
	if s.notifier != nil {
		if err := s.notifier.ReadingCreated(ctx, caller.OwnerID, *rd); err != nil {
			s.logger.Warn("reading notification failed", "reading_id", rd.ID, "error", err)
		}
	}
	return rd, nil
}

func (s *Service) notifySystem(ctx context.Context, event SystemEvent, sys System) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SystemChanged(ctx, event, sys); err != nil {
		s.logger.Warn("system notification failed", "system_id", sys.ID, "event", string(event), "error", err)
	}
}

// loadSystem fetches a system inside tx and checks caller may apply op to it.
// Anonymous callers never reach the database.
func loadSystem(ctx context.Context, tx *sql.Tx, caller auth.Caller, op auth.Operation, id int64) (*System, error) {
	if !caller.Authenticated() {
		return nil, auth.ErrUnauthenticated
	}

	sys, err := NewSystemRepository(tx).FindByID(ctx, id)
	target := auth.Missing
	switch {
	case errors.Is(err, ErrSystemNotFound):
	case err != nil:
		return nil, err
	default:
		target = auth.Owned(sys.OwnerID)
	}

	if err := auth.Authorize(caller, op, target); err != nil {
		return nil, err
	}
	return sys, nil
}

// parseListParams resolves filter, ordering and page for a list request.
func parseListParams(schema *query.Schema, params url.Values) (query.Filter, query.Ordering, query.Page, error) {
	var verr validation.Error

	f, err := schema.ParseFilter(params)
	if ve, ok := validation.As(err); ok {
		verr.Merge(ve)
	} else if err != nil {
		return query.Filter{}, query.Ordering{}, query.Page{}, err
	}

	p, err := query.ParsePage(params.Get(query.PageParam), schema.PageSize)
	if ve, ok := validation.As(err); ok {
		verr.Merge(ve)
	} else if err != nil {
		return query.Filter{}, query.Ordering{}, query.Page{}, err
	}

	if err := verr.Err(); err != nil {
		return query.Filter{}, query.Ordering{}, query.Page{}, err
	}
	return f, schema.ParseOrdering(params.Get("ordering")), p, nil
}
