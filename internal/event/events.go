package event

import "time"

type CustomerEventPayload struct {
	CustomerID int64  `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerDeletedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}
