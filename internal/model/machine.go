package model

import "time"

// MachineClass identifies one of the fixed equipment categories managed
// by the workshop. Each class has its own reservation shape and
// eligibility rules.
type MachineClass string

// The six machine classes. The values are stored verbatim in the
// machines.class and reservations.machine_class columns and appear in
// URL paths.
const (
	ClassLaser   MachineClass = "laser"
	ClassPrinter MachineClass = "printer"
	ClassHeat    MachineClass = "heat"
	ClassSaw     MachineClass = "saw"
	ClassVacuum  MachineClass = "vacuum"
	ClassCnc     MachineClass = "cnc"
)

// AllClasses lists every machine class in a stable order. It is used by
// the cascade engine when clearing a user's reservations and by admin
// listings.
var AllClasses = []MachineClass{ClassLaser, ClassPrinter, ClassHeat, ClassSaw, ClassVacuum, ClassCnc}

// ParseMachineClass validates a class string taken from a URL path or
// request body. It returns false for anything outside the fixed set.
func ParseMachineClass(s string) (MachineClass, bool) {
	switch MachineClass(s) {
	case ClassLaser, ClassPrinter, ClassHeat, ClassSaw, ClassVacuum, ClassCnc:
		return MachineClass(s), true
	}
	return "", false
}

// TimeScoped reports whether reservations of this class carry a
// start/end time pair. Heat benders and the CNC router are booked per
// whole day; printers are date-scoped with a capacity check instead.
func (c MachineClass) TimeScoped() bool {
	switch c {
	case ClassLaser, ClassSaw, ClassVacuum:
		return true
	}
	return false
}

// Machine represents one physical unit in the `machines` table. A class
// may have several units (three printers, two saws); the heat bender row
// additionally records how many wire units the bench holds.
//
// Fields:
//
//	ID        – primary key identifier.
//	Class     – machine class of this unit.
//	Name      – human-friendly unit name (e.g. "Laser #1").
//	Active    – whether the unit may currently be reserved.
//	UnitCount – number of sub-units for heat benders; zero elsewhere.
//	CreatedAt – timestamp of creation.
//	UpdatedAt – timestamp of last update.
type Machine struct {
	ID        uint64       // machines.id
	Class     MachineClass // machines.class
	Name      string       // machines.name
	Active    bool         // machines.active
	UnitCount int          // machines.unit_count
	CreatedAt time.Time    // machines.created_at
	UpdatedAt time.Time    // machines.updated_at
}

// LaserSlot is one entry of the laser time-slot catalog stored in the
// `laser_slots` table. The catalog is a property of the laser class as a
// whole: every laser unit shares the same ordered list of bookable
// windows. Times are "HH:MM" strings in local workshop time.
type LaserSlot struct {
	ID        uint64 // laser_slots.id
	StartTime string // laser_slots.start_time
	EndTime   string // laser_slots.end_time
}
