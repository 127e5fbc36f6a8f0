package model

import "testing"

func TestParseMachineClass(t *testing.T) {
	for _, c := range AllClasses {
		if got, ok := ParseMachineClass(string(c)); !ok || got != c {
			t.Errorf("ParseMachineClass(%q) = %q, %v", c, got, ok)
		}
	}
	if _, ok := ParseMachineClass("LASER"); ok {
		t.Errorf("ParseMachineClass accepted an upper-cased class")
	}
	if _, ok := ParseMachineClass("welder"); ok {
		t.Errorf("ParseMachineClass accepted an unknown class")
	}
}

func TestTimeScoped(t *testing.T) {
	scoped := map[MachineClass]bool{
		ClassLaser:   true,
		ClassSaw:     true,
		ClassVacuum:  true,
		ClassPrinter: false,
		ClassHeat:    false,
		ClassCnc:     false,
	}
	for class, want := range scoped {
		if got := class.TimeScoped(); got != want {
			t.Errorf("%s.TimeScoped() = %v, want %v", class, got, want)
		}
	}
}
