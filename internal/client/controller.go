package client

import (
	"context"
	"errors"
	"sync"
)

// ErrOperationInFlight is returned when a mutation of the same kind is
// already outstanding; callers drop the request rather than queue it.
var ErrOperationInFlight = errors.New("operation already in flight")

// Controller owns the client-side state and serializes mutations with a
// single-slot guard per mutation kind: one create at a time, and one delete
// at a time across all rows (not just the targeted one).
type Controller struct {
	client *Client

	mu         sync.Mutex
	state      State
	adding     bool
	deletingID int64
}

func NewController(c *Client) *Controller {
	if c == nil {
		panic("client cannot be nil")
	}
	return &Controller{
		client: c,
		state:  NewState(),
	}
}

// State returns a snapshot safe to render from.
func (ctl *Controller) State() State {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return Apply(ctl.state, nil)
}

func (ctl *Controller) apply(e Event) {
	ctl.mu.Lock()
	ctl.state = Apply(ctl.state, e)
	ctl.mu.Unlock()
}

// Load performs the initial fetch. A configuration error on the server flips
// SetupRequired so the caller can render setup instructions.
func (ctl *Controller) Load(ctx context.Context) error {
	customers, err := ctl.client.List(ctx)
	if err != nil {
		ctl.apply(FetchFailed{
			Message:       err.Error(),
			SetupRequired: errors.Is(err, ErrConfigMissing),
		})
		return err
	}

	ctl.apply(FetchSucceeded{Customers: customers})
	return nil
}

// Add creates a customer and prepends it to the local list. A second call
// while one is outstanding returns ErrOperationInFlight without issuing a
// request. The error is returned (not just recorded) so the caller can keep
// its input buffers on failure.
func (ctl *Controller) Add(ctx context.Context, name, phone string) error {
	ctl.mu.Lock()
	if ctl.adding {
		ctl.mu.Unlock()
		return ErrOperationInFlight
	}
	ctl.adding = true
	ctl.mu.Unlock()

	defer func() {
		ctl.mu.Lock()
		ctl.adding = false
		ctl.mu.Unlock()
	}()

	created, err := ctl.client.Create(ctx, name, phone)
	if err != nil {
		ctl.apply(MutationFailed{Message: err.Error()})
		return err
	}

	ctl.apply(CreateSucceeded{Customer: *created})
	return nil
}

// Delete removes a customer by id and filters it out of the local list. Any
// delete while another is in flight is rejected, regardless of the target
// row.
func (ctl *Controller) Delete(ctx context.Context, id int64) error {
	ctl.mu.Lock()
	if ctl.deletingID != 0 {
		ctl.mu.Unlock()
		return ErrOperationInFlight
	}
	ctl.deletingID = id
	ctl.mu.Unlock()

	defer func() {
		ctl.mu.Lock()
		ctl.deletingID = 0
		ctl.mu.Unlock()
	}()

	deleted, err := ctl.client.Delete(ctx, id)
	if err != nil {
		ctl.apply(MutationFailed{Message: err.Error()})
		return err
	}

	ctl.apply(DeleteSucceeded{ID: deleted.ID})
	return nil
}
