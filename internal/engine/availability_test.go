package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hanbit/makerspace-reservation/internal/model"
)

func TestAvailabilityRemainingSerialization(t *testing.T) {
	t.Run("fully booked printer date reports zero", func(t *testing.T) {
		zero := 0
		out, err := json.Marshal(&Availability{
			Class:     model.ClassPrinter,
			Date:      "2024-03-08",
			Remaining: &zero,
		})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !strings.Contains(string(out), `"remaining":0`) {
			t.Errorf("zero remaining missing from %s", out)
		}
	})

	t.Run("field absent for per-unit classes", func(t *testing.T) {
		out, err := json.Marshal(&Availability{Class: model.ClassSaw, Date: "2024-03-08"})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if strings.Contains(string(out), "remaining") {
			t.Errorf("remaining should be omitted when inapplicable, got %s", out)
		}
	})
}

func TestListReservationsRequiresPrincipal(t *testing.T) {
	e := &Engine{}
	_, err := e.ListReservations(context.Background(), Principal{})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("ListReservations with zero principal = %v, want ErrUnauthenticated", err)
	}
}
