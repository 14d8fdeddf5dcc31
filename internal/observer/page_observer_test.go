package observer

import (
	"context"
	"testing"
	"time"
)

type recordingObserver struct {
	name   string
	events []PageEvent
}

func (o *recordingObserver) OnEvent(ctx context.Context, event PageEvent) {
	o.events = append(o.events, event)
}

func (o *recordingObserver) GetObserverName() string { return o.name }

type panickyObserver struct{}

func (o *panickyObserver) OnEvent(ctx context.Context, event PageEvent) {
	panic("boom")
}

func (o *panickyObserver) GetObserverName() string { return "panicky" }

func TestEventPublisher_NotifiesSubscribers(t *testing.T) {
	publisher := NewEventPublisher()
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	publisher.Subscribe(first)
	publisher.Subscribe(second)

	event := PageEvent{EventType: PageCompleted, Filename: "page1.png", PageNumber: 1}
	publisher.NotifyObservers(context.Background(), event)

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("events delivered: first=%d second=%d, want 1 each", len(first.events), len(second.events))
	}
	if first.events[0].Filename != "page1.png" {
		t.Errorf("Filename = %q", first.events[0].Filename)
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher()
	obs := &recordingObserver{name: "only"}
	publisher.Subscribe(obs)
	publisher.Unsubscribe(obs)

	publisher.NotifyObservers(context.Background(), PageEvent{EventType: PageStarted})

	if len(obs.events) != 0 {
		t.Errorf("unsubscribed observer received %d events", len(obs.events))
	}
}

func TestEventPublisher_SurvivesPanickingObserver(t *testing.T) {
	publisher := NewEventPublisher()
	after := &recordingObserver{name: "after"}
	publisher.Subscribe(&panickyObserver{})
	publisher.Subscribe(after)

	publisher.NotifyObservers(context.Background(), PageEvent{EventType: PageFailed})

	if len(after.events) != 1 {
		t.Errorf("observer after the panicking one received %d events, want 1", len(after.events))
	}
}

func TestMetricsObserver(t *testing.T) {
	metrics := NewMetricsObserver()
	ctx := context.Background()

	metrics.OnEvent(ctx, PageEvent{EventType: PageStarted})
	metrics.OnEvent(ctx, PageEvent{EventType: PageStarted})
	metrics.OnEvent(ctx, PageEvent{
		EventType:      PageCompleted,
		RegionCount:    5,
		ProcessingTime: 2 * time.Second,
	})
	metrics.OnEvent(ctx, PageEvent{
		EventType:      PageCompleted,
		RegionCount:    3,
		ProcessingTime: 4 * time.Second,
	})
	metrics.OnEvent(ctx, PageEvent{EventType: PageFailed})

	m := metrics.GetMetrics()
	if m["total_pages"] != int64(2) {
		t.Errorf("total_pages = %v, want 2", m["total_pages"])
	}
	if m["successful_pages"] != int64(2) {
		t.Errorf("successful_pages = %v, want 2", m["successful_pages"])
	}
	if m["failed_pages"] != int64(1) {
		t.Errorf("failed_pages = %v, want 1", m["failed_pages"])
	}
	if m["total_regions"] != int64(8) {
		t.Errorf("total_regions = %v, want 8", m["total_regions"])
	}
	if m["avg_processing_sec"] != 3.0 {
		t.Errorf("avg_processing_sec = %v, want 3", m["avg_processing_sec"])
	}
}
