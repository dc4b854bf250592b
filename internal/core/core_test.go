package core

import (
	"context"
	"testing"
	"time"

	"wheelgo/internal/classifier"
	"wheelgo/internal/config"
	"wheelgo/internal/event"
	"wheelgo/internal/inject"
)

type recordingSink struct {
	notify  chan struct{}
	batches [][]inject.Item
}

func newRecordingSink() *recordingSink { return &recordingSink{notify: make(chan struct{}, 1)} }

func (s *recordingSink) InjectBatch(items []inject.Item) error {
	s.batches = append(s.batches, items)
	select {
	case s.notify <- struct{}{}:
	default:
	}
	return nil
}

func newTestCore(t *testing.T, trigger event.Trigger) (*Core, *recordingSink) {
	t.Helper()
	mgr, err := config.NewManager()
	if err != nil {
		t.Fatalf("config.NewManager: %v", err)
	}
	s := config.Defaults()
	s.Trigger = trigger
	mgr.Set(s)

	sink := newRecordingSink()
	c := New(mgr, sink, classifier.AlwaysIdle{})
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	t.Cleanup(cancel)
	return c, sink
}

func TestCoreMiddleClickEntersAndExitsScroll(t *testing.T) {
	c, _ := newTestCore(t, event.TriggerMiddle)

	down := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonM, Point: event.Point{X: 0, Y: 0}, Time: 0}
	if pass := c.HandleMouseEvent(down, 0, 0); pass {
		t.Fatal("expected middle down to be suppressed")
	}

	move := event.MouseEvent{Kind: event.MouseMove, Point: event.Point{X: 1, Y: 5}, Time: 1}
	if pass := c.HandleMouseEvent(move, 0, 5); pass {
		t.Fatal("expected move while ACTIVE to be suppressed")
	}

	up := event.MouseEvent{Kind: event.MouseUp, Button: event.ButtonM, Point: event.Point{X: 1, Y: 5}, Time: 2}
	if pass := c.HandleMouseEvent(up, 0, 0); pass {
		t.Fatal("expected middle up to be suppressed")
	}

	down2 := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonM, Point: event.Point{X: 1, Y: 5}, Time: 3}
	if pass := c.HandleMouseEvent(down2, 0, 0); pass {
		t.Fatal("expected the exiting second down to be suppressed")
	}
}

func TestCoreWheelEventsAlwaysPassThroughClassifier(t *testing.T) {
	c, _ := newTestCore(t, event.TriggerLR)
	wheel := event.MouseEvent{Kind: event.MouseWheel, MouseData: uint32(int32(-1))}
	if pass := c.HandleMouseEvent(wheel, 0, 0); !pass {
		t.Fatal("expected a wheel-kind event to always pass")
	}
}

func TestCoreResendDownIsInjected(t *testing.T) {
	c, sink := newTestCore(t, event.TriggerLR)

	down := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonL, Point: event.Point{X: 0, Y: 0}, Time: 0}
	c.HandleMouseEvent(down, 0, 0)

	select {
	case <-sink.notify:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the chord timeout's resend to reach the sink")
	}
	if len(sink.batches) == 0 {
		t.Fatal("expected at least one injected batch")
	}
}

func TestCoreKeyboardTargetTogglesScroll(t *testing.T) {
	mgr, err := config.NewManager()
	if err != nil {
		t.Fatalf("config.NewManager: %v", err)
	}
	s := config.Defaults()
	s.TargetVK = 0x70
	mgr.Set(s)
	sink := newRecordingSink()
	c := New(mgr, sink, classifier.AlwaysIdle{})
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	defer cancel()

	down := event.KeyboardEvent{Kind: event.KeyDown, VK: 0x70, Time: 0}
	if pass := c.HandleKeyEvent(down); pass {
		t.Fatal("expected target VK down to be suppressed")
	}
	up := event.KeyboardEvent{Kind: event.KeyUp, VK: 0x70, Time: 1}
	if pass := c.HandleKeyEvent(up); pass {
		t.Fatal("expected target VK up to be suppressed")
	}
}

func TestCoreResetClearsState(t *testing.T) {
	c, _ := newTestCore(t, event.TriggerMiddle)
	down := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonM, Point: event.Point{X: 0, Y: 0}, Time: 0}
	c.HandleMouseEvent(down, 0, 0)
	c.Reset()
	if c.state.Mode().String() != "IDLE" {
		t.Fatalf("expected Reset to force IDLE, got %v", c.state.Mode())
	}
}
