package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// PageEvent represents one page-processing event
type PageEvent struct {
	EventType      EventType     `json:"event_type"`
	Timestamp      time.Time     `json:"timestamp"`
	Filename       string        `json:"filename"`
	PageNumber     int           `json:"page_number"`
	ProcessingTime time.Duration `json:"processing_time"`
	RegionCount    int           `json:"region_count"`
	Success        bool          `json:"success"`
	ErrorMessage   string        `json:"error_message,omitempty"`
}

// EventType represents the type of page-processing event
type EventType string

const (
	// PageStarted when page processing begins
	PageStarted EventType = "page_started"
	// PageCompleted when page processing finishes successfully
	PageCompleted EventType = "page_completed"
	// PageFailed when page processing fails
	PageFailed EventType = "page_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PageEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PageEvent)
}

// LoggingObserver logs page-processing events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles page events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PageEvent) {
	fields := logrus.Fields{
		"event_type":  event.EventType,
		"filename":    event.Filename,
		"page_number": event.PageNumber,
	}

	if event.EventType != PageStarted {
		fields["processing_time"] = event.ProcessingTime
		fields["region_count"] = event.RegionCount
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	switch event.EventType {
	case PageStarted:
		o.logger.WithFields(fields).Debug("Page processing started")
	case PageCompleted:
		o.logger.WithFields(fields).Info("Page processing completed")
	case PageFailed:
		o.logger.WithFields(fields).Error("Page processing failed")
	default:
		o.logger.WithFields(fields).Info("Page event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects metrics from page-processing events
type MetricsObserver struct {
	mu              sync.RWMutex
	totalPages      int64
	successfulPages int64
	failedPages     int64
	totalRegions    int64
	processingSecs  []float64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles page events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event PageEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case PageStarted:
		o.totalPages++
	case PageCompleted:
		o.successfulPages++
		o.totalRegions += int64(event.RegionCount)
		o.processingSecs = append(o.processingSecs, event.ProcessingTime.Seconds())
	case PageFailed:
		o.failedPages++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingSec := 0.0
	if len(o.processingSecs) > 0 {
		avgProcessingSec = stat.Mean(o.processingSecs, nil)
	}

	return map[string]interface{}{
		"total_pages":        o.totalPages,
		"successful_pages":   o.successfulPages,
		"failed_pages":       o.failedPages,
		"total_regions":      o.totalRegions,
		"avg_processing_sec": avgProcessingSec,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event PageEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					// Log panic but don't crash the batch
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
