package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"order_history/internal/models"
	"order_history/internal/session"
)

// LoadErrorMessage is the only failure text ever shown to a user.
const LoadErrorMessage = "Unable to load orders, please try again."

var (
	ErrFetchInFlight     = errors.New("an orders fetch is already in flight")
	ErrClearWhileLoading = errors.New("orders cannot be cleared while loading")
)

type ViewState string

const (
	StateEmpty     ViewState = "empty"
	StateLoading   ViewState = "loading"
	StatePopulated ViewState = "populated"
	StateError     ViewState = "error"
)

// ViewSnapshot is a consistent copy of an OrdersView.
type ViewSnapshot struct {
	State   ViewState         `json:"state"`
	Loading bool              `json:"loading"`
	Error   string            `json:"error,omitempty"`
	Rows    []models.OrderRow `json:"rows"`
}

func (s ViewSnapshot) CanFetch() bool { return !s.Loading }
func (s ViewSnapshot) CanClear() bool { return !s.Loading }

// OrdersView holds one visitor's order table. At most one fetch runs at a
// time; the outbound call happens outside the lock.
type OrdersView struct {
	mu      sync.Mutex
	loading bool
	errMsg  string
	rows    []models.OrderRow
}

func NewOrdersView() *OrdersView {
	return &OrdersView{}
}

// Fetch replaces the rows with a fresh load. It returns ErrFetchInFlight
// without side effects when a fetch is already running, otherwise the load
// error, if any. The loading flag is cleared on every exit path.
func (v *OrdersView) Fetch(ctx context.Context, svc OrderService, provider session.Provider) error {
	if err := v.begin(); err != nil {
		return err
	}
	return v.load(ctx, svc, provider)
}

// Start is Fetch in the background. The view is in the loading state when
// Start returns; the channel yields the load result once.
func (v *OrdersView) Start(ctx context.Context, svc OrderService, provider session.Provider) (<-chan error, error) {
	if err := v.begin(); err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("orders load panicked")
				done <- fmt.Errorf("orders load panicked: %v", r)
			}
		}()
		done <- v.load(ctx, svc, provider)
	}()
	return done, nil
}

func (v *OrdersView) load(ctx context.Context, svc OrderService, provider session.Provider) error {
	finished := false
	defer func() {
		if !finished {
			v.finish(nil, errors.New("orders load aborted"))
		}
	}()

	rows, err := svc.LoadRows(ctx, provider)
	v.finish(rows, err)
	finished = true
	return err
}

func (v *OrdersView) begin() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loading {
		return ErrFetchInFlight
	}
	v.loading = true
	v.errMsg = ""
	v.rows = nil
	return nil
}

func (v *OrdersView) finish(rows []models.OrderRow, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.loading = false
	if err != nil {
		v.errMsg = LoadErrorMessage
		v.rows = nil
		return
	}
	v.errMsg = ""
	v.rows = rows
}

// Clear drops rows and error. It is refused while a fetch is in flight.
func (v *OrdersView) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loading {
		return ErrClearWhileLoading
	}
	v.errMsg = ""
	v.rows = nil
	return nil
}

func (v *OrdersView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *OrdersView) Snapshot() ViewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := make([]models.OrderRow, len(v.rows))
	copy(rows, v.rows)

	snap := ViewSnapshot{Loading: v.loading, Error: v.errMsg, Rows: rows}
	switch {
	case v.loading:
		snap.State = StateLoading
	case v.errMsg != "":
		snap.State = StateError
	case len(v.rows) > 0:
		snap.State = StatePopulated
	default:
		snap.State = StateEmpty
	}
	return snap
}
