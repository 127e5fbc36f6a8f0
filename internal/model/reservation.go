package model

import "time"

// Reservation records a user's booking of one machine for one date in
// the `reservations` table. All six machine classes share the row shape;
// StartTime/EndTime are empty for date-only classes (heat, cnc) and for
// printers, which are capacity-checked per date instead of per slot.
//
// The occupancy key (machine_class, machine_id, reserve_date
// [, start_time, end_time]) is enforced by a pre-commit existence check
// re-verified inside the creating transaction, not by a uniqueness
// constraint.
//
// Fields:
//
//	ID           – primary key identifier.
//	MachineClass – class the booked unit belongs to.
//	UserID       – user who made the reservation.
//	MachineID    – booked unit.
//	Date         – reservation date as "YYYY-MM-DD".
//	StartTime    – slot start "HH:MM"; empty for date-only classes.
//	EndTime      – slot end "HH:MM"; empty for date-only classes.
//	CreatedAt    – creation timestamp.
type Reservation struct {
	ID           uint64       // reservations.id
	MachineClass MachineClass // reservations.machine_class
	UserID       uint64       // reservations.user_id
	MachineID    uint64       // reservations.machine_id
	Date         string       // reservations.reserve_date
	StartTime    string       // reservations.start_time (empty when unused)
	EndTime      string       // reservations.end_time (empty when unused)
	CreatedAt    time.Time    // reservations.created_at
}

// Warning is an append-only entry in the `warnings` table. The cached
// users.warning_count must stay equal to the number of rows here for the
// user; both are adjusted in the same transaction.
type Warning struct {
	ID        uint64    // warnings.id
	UserID    uint64    // warnings.user_id
	Message   string    // warnings.message
	CreatedAt time.Time // warnings.created_at
}
