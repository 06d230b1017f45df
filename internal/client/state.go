package client

import "customer-registry/internal/domain/customer"

// State is the client-side mirror of the registry: an ordered customer list
// (newest first) plus the flags the UI renders from. It is reconciled from
// events after each operation rather than re-fetched.
type State struct {
	Customers     []customer.Customer
	Loading       bool
	ErrMessage    string
	SetupRequired bool
}

func NewState() State {
	return State{Loading: true}
}

type Event interface {
	isEvent()
}

type FetchSucceeded struct {
	Customers []customer.Customer
}

type CreateSucceeded struct {
	Customer customer.Customer
}

type DeleteSucceeded struct {
	ID int64
}

type FetchFailed struct {
	Message       string
	SetupRequired bool
}

type MutationFailed struct {
	Message string
}

func (FetchSucceeded) isEvent()  {}
func (CreateSucceeded) isEvent() {}
func (DeleteSucceeded) isEvent() {}
func (FetchFailed) isEvent()     {}
func (MutationFailed) isEvent()  {}

// Apply is a pure transition function: it never mutates the input state, so
// it can be tested without any I/O or rendering.
func Apply(s State, e Event) State {
	next := s
	next.Customers = append([]customer.Customer(nil), s.Customers...)

	switch ev := e.(type) {
	case FetchSucceeded:
		next.Customers = append([]customer.Customer(nil), ev.Customers...)
		next.Loading = false
		next.ErrMessage = ""
		next.SetupRequired = false
	case CreateSucceeded:
		next.Customers = append([]customer.Customer{ev.Customer}, next.Customers...)
		next.ErrMessage = ""
	case DeleteSucceeded:
		filtered := next.Customers[:0]
		for _, c := range next.Customers {
			if c.ID != ev.ID {
				filtered = append(filtered, c)
			}
		}
		next.Customers = filtered
		next.ErrMessage = ""
	case FetchFailed:
		next.Loading = false
		next.ErrMessage = ev.Message
		next.SetupRequired = ev.SetupRequired
	case MutationFailed:
		next.ErrMessage = ev.Message
	}

	return next
}
