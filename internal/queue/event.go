// Package queue defines the message payloads exchanged over the broker
// and the background consumer that turns them into notification logs.
package queue

// Queue names shared by the publisher and the consumer.
const (
	ReservationConfirmedQueue = "reservation.confirmed"
	WarningIssuedQueue        = "warning.issued"
)

// ReservationConfirmedEvent is published after an allocation commits.
// One event covers the whole batch, so a two-slot laser booking
// produces a single message with two windows.
type ReservationConfirmedEvent struct {
	UserID       uint64   `json:"user_id"`
	MachineClass string   `json:"machine_class"`
	MachineID    uint64   `json:"machine_id"`
	MachineName  string   `json:"machine_name"`
	Date         string   `json:"date"`
	Windows      []string `json:"windows,omitempty"`
	ConfirmedAt  string   `json:"confirmed_at"`
}

// WarningIssuedEvent is published after a staff warning commits.
type WarningIssuedEvent struct {
	UserID   uint64 `json:"user_id"`
	Message  string `json:"message"`
	IssuedAt string `json:"issued_at"`
}
