package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/hanbit/makerspace-reservation/internal/calendar"
	"github.com/hanbit/makerspace-reservation/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func student() model.User {
	return model.User{
		ID:             7,
		Role:           model.RoleStudent,
		Year:           "3",
		TrainingPassed: true,
		LaserQuotaWeek: 4,
		LaserQuotaDay:  2,
	}
}

func TestCheckEligibility(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*model.User)
		class   model.MachineClass
		wantErr error
	}{
		{"trained student uses laser", func(u *model.User) {}, model.ClassLaser, nil},
		{"training not passed", func(u *model.User) { u.TrainingPassed = false }, model.ClassLaser, ErrPermissionDenied},
		{"two warnings lock out", func(u *model.User) { u.WarningCount = 2 }, model.ClassSaw, ErrPermissionDenied},
		{"one warning still allowed", func(u *model.User) { u.WarningCount = 1 }, model.ClassSaw, nil},
		{"cnc blocked for third year", func(u *model.User) {}, model.ClassCnc, ErrPermissionDenied},
		{"cnc open for fourth year", func(u *model.User) { u.Year = "4" }, model.ClassCnc, nil},
		{"cnc open for fifth year", func(u *model.User) { u.Year = "5" }, model.ClassCnc, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := student()
			tc.mutate(&u)
			err := checkEligibility(u, tc.class)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("checkEligibility() = %v, want nil", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("checkEligibility() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCheckCalendar(t *testing.T) {
	// Wednesday 2024-03-06; the next valid date is Thursday the 7th.
	ev := calendar.New(fixedClock(date(2024, time.March, 6)))

	cases := []struct {
		name    string
		class   model.MachineClass
		date    time.Time
		wantErr error
	}{
		{"laser on the next valid date", model.ClassLaser, date(2024, time.March, 7), nil},
		{"laser one day late", model.ClassLaser, date(2024, time.March, 8), ErrInvalidRequest},
		{"heat bender on the next valid date", model.ClassHeat, date(2024, time.March, 7), nil},
		{"cnc with two days of lead", model.ClassCnc, date(2024, time.March, 8), nil},
		{"cnc with one day of lead", model.ClassCnc, date(2024, time.March, 7), ErrInvalidRequest},
		{"cnc landing on a saturday", model.ClassCnc, date(2024, time.March, 9), ErrInvalidRequest},
		{"saw any future weekday", model.ClassSaw, date(2024, time.March, 11), nil},
		{"saw for today", model.ClassSaw, date(2024, time.March, 6), ErrInvalidRequest},
		{"vacuum on a weekend", model.ClassVacuum, date(2024, time.March, 9), ErrInvalidRequest},
		{"printer on a holiday", model.ClassPrinter, date(2024, time.June, 6), ErrInvalidRequest},
		{"printer on a future weekday", model.ClassPrinter, date(2024, time.March, 8), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkCalendar(ev, tc.class, tc.date)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("checkCalendar() = %v, want nil", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("checkCalendar() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestMatchSlots(t *testing.T) {
	catalog := []model.LaserSlot{
		{ID: 1, StartTime: "09:00", EndTime: "11:00"},
		{ID: 2, StartTime: "11:00", EndTime: "13:00"},
	}

	t.Run("full batch resolves in request order", func(t *testing.T) {
		got, err := matchSlots(catalog, []SlotRequest{
			{StartTime: "11:00", EndTime: "13:00"},
			{StartTime: "09:00", EndTime: "11:00"},
		})
		if err != nil {
			t.Fatalf("matchSlots() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
			t.Fatalf("matchSlots() = %+v, want catalog entries 2 then 1", got)
		}
	})

	t.Run("window outside the catalog", func(t *testing.T) {
		_, err := matchSlots(catalog, []SlotRequest{{StartTime: "13:00", EndTime: "15:00"}})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("matchSlots() = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("duplicate window in one batch", func(t *testing.T) {
		_, err := matchSlots(catalog, []SlotRequest{
			{StartTime: "09:00", EndTime: "11:00"},
			{StartTime: "09:00", EndTime: "11:00"},
		})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("matchSlots() = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		if _, err := matchSlots(catalog, nil); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("matchSlots() = %v, want ErrInvalidRequest", err)
		}
	})
}

func TestCheckWindow(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"valid window", "09:00", "11:00", false},
		{"midnight edge", "00:00", "23:59", false},
		{"unpadded hour", "9:00", "10:00", true},
		{"unpadded end", "09:00", "9:30", true},
		{"inverted window", "11:00", "09:00", true},
		{"empty window", "", "", true},
		{"hour out of range", "24:00", "25:00", true},
		{"minute out of range", "09:60", "10:00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkWindow(tc.start, tc.end)
			if tc.wantErr && !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("checkWindow(%q, %q) = %v, want ErrInvalidRequest", tc.start, tc.end, err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("checkWindow(%q, %q) = %v, want nil", tc.start, tc.end, err)
			}
		})
	}
}

func TestLaserQuotaAllows(t *testing.T) {
	u := student() // week 4, day 2

	if !laserQuotaAllows(u, 2) {
		t.Errorf("laserQuotaAllows(u, 2) = false, want true")
	}
	if laserQuotaAllows(u, 3) {
		t.Errorf("laserQuotaAllows(u, 3) = true, want false; day counter is the limit")
	}
	u.LaserQuotaDay = 0
	if laserQuotaAllows(u, 1) {
		t.Errorf("laserQuotaAllows with exhausted day counter = true, want false")
	}
}
