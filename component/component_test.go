package component

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
	deadline   *time.Time
}

func (f *fakeComponent) Name() string { return f.name }
func (f *fakeComponent) Start(context.Context) error {
	if f.startOrder != nil {
		*f.startOrder = append(*f.startOrder, f.name)
	}
	return f.startErr
}
func (f *fakeComponent) Stop(ctx context.Context) error {
	if f.stopOrder != nil {
		*f.stopOrder = append(*f.stopOrder, f.name)
	}
	if f.deadline != nil {
		*f.deadline, _ = ctx.Deadline()
	}
	return f.stopErr
}
func (f *fakeComponent) Health(context.Context) Health { return f.health }

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeComponent{name: "telemetry"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&fakeComponent{name: "telemetry"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "telemetry"})

	if got := r.Get("telemetry"); got == nil || got.Name() != "telemetry" {
		t.Fatalf("expected registered component, got %v", got)
	}
	if got := r.Get("missing"); got != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAllOrder(t *testing.T) {
	r := NewRegistry()
	var order []string
	_ = r.Register(&fakeComponent{name: "telemetry", startOrder: &order})
	_ = r.Register(&fakeComponent{name: "source", startOrder: &order})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if len(order) != 2 || order[0] != "telemetry" || order[1] != "source" {
		t.Errorf("expected start order [telemetry source], got %v", order)
	}

	// Already started components are not started twice.
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 {
		t.Errorf("expected no restarts, got %v", order)
	}
}

func TestStartAllErrorLeavesEarlierStarted(t *testing.T) {
	r := NewRegistry()
	var stops []string
	_ = r.Register(&fakeComponent{name: "telemetry", stopOrder: &stops})
	_ = r.Register(&fakeComponent{name: "source", startErr: errors.New("no such file"), stopOrder: &stops})
	_ = r.Register(&fakeComponent{name: "cache", stopOrder: &stops})

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to start source") {
		t.Fatalf("expected start failure for source, got %v", err)
	}

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(stops) != 1 || stops[0] != "telemetry" {
		t.Errorf("expected only telemetry stopped, got %v", stops)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry()
	var order []string
	for _, name := range []string{"telemetry", "source", "cache"} {
		_ = r.Register(&fakeComponent{name: name, stopOrder: &order})
	}

	_ = r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	want := []string{"cache", "source", "telemetry"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("expected stop order %v, got %v", want, order)
	}

	// A second StopAll is a no-op.
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 {
		t.Errorf("expected components stopped once, got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	var order []string
	_ = r.Register(&fakeComponent{name: "telemetry", stopOrder: &order})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllCombinesErrors(t *testing.T) {
	r := NewRegistry()
	var order []string
	_ = r.Register(&fakeComponent{name: "a", stopErr: errors.New("flush failed"), stopOrder: &order})
	_ = r.Register(&fakeComponent{name: "b", stopOrder: &order})
	_ = r.Register(&fakeComponent{name: "c", stopErr: errors.New("exporter closed"), stopOrder: &order})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StopAll")
	}
	for _, want := range []string{"failed to stop a", "flush failed", "failed to stop c", "exporter closed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
	if len(order) != 3 {
		t.Errorf("expected every component attempted, got %v", order)
	}
}

func TestStopTimeout(t *testing.T) {
	r := NewRegistry()
	r.SetStopTimeout(time.Second)
	var deadline time.Time
	_ = r.Register(&fakeComponent{name: "telemetry", deadline: &deadline})
	_ = r.StartAll(context.Background())

	before := time.Now()
	_ = r.StopAll(context.Background())
	if deadline.IsZero() {
		t.Fatal("expected a deadline on the stop context")
	}
	if d := deadline.Sub(before); d > 2*time.Second {
		t.Errorf("expected deadline about 1s out, got %v", d)
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{
		name:   "telemetry",
		health: Health{Name: "telemetry", Status: StatusHealthy, Message: "disabled"},
	})
	_ = r.Register(&fakeComponent{
		name:   "source",
		health: Health{Name: "source", Status: StatusUnhealthy, Message: "not started"},
	})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy || results[1].Status != StatusUnhealthy {
		t.Errorf("unexpected health %+v", results)
	}
	if all := r.All(); len(all) != 2 || all[0].Name() != "telemetry" {
		t.Errorf("All() should keep registration order, got %v", all)
	}
}
