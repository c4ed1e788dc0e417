package renderer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/etnz/financechat"
)

// ChartSink is a live chart. It must be disposed before another one is drawn
// in the same place.
type ChartSink interface {
	Render(Series) error
	Dispose() error
}

// SinkFactory creates the sink for the chart called name.
type SinkFactory func(name string) (ChartSink, error)

// Panel is a chart slot holding at most one live sink.
//
// Each refresh disposes the previous sink before creating the next one, an
// empty series leaves the panel without sink.
type Panel struct {
	Name    string
	Query   Query
	factory SinkFactory

	mu   sync.Mutex
	sink ChartSink
}

// NewPanel creates a panel for the chart called name.
func NewPanel(name string, query Query, factory SinkFactory) *Panel {
	return &Panel{Name: name, Query: query, factory: factory}
}

// NewChartPanel creates a panel for a registered chart.
func NewChartPanel(name string, factory SinkFactory) (*Panel, error) {
	query, _, ok := Chart(name)
	if !ok {
		return nil, fmt.Errorf("unknown chart %q", name)
	}
	return NewPanel(name, query, factory), nil
}

// Refresh redraws the panel from s.
func (p *Panel) Refresh(s *financechat.AppState) error {
	series := p.Query(s)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.dispose(); err != nil {
		return err
	}
	if series.Len() == 0 {
		return nil
	}
	sink, err := p.factory(p.Name)
	if err != nil {
		return fmt.Errorf("cannot create chart %q: %w", p.Name, err)
	}
	p.sink = sink
	return sink.Render(series)
}

// Live reports whether the panel currently holds a sink.
func (p *Panel) Live() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sink != nil
}

// Close disposes the live sink, if any.
func (p *Panel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dispose()
}

func (p *Panel) dispose() error {
	if p.sink == nil {
		return nil
	}
	sink := p.sink
	p.sink = nil
	if err := sink.Dispose(); err != nil {
		return fmt.Errorf("cannot dispose chart %q: %w", p.Name, err)
	}
	return nil
}

// Dashboard groups panels refreshed together from one snapshot.
type Dashboard struct {
	panels   []*Panel
	snapshot func() *financechat.AppState
	debounce *Debouncer
	onError  func(error)
}

// NewDashboard creates a dashboard whose panels are refreshed from the
// snapshots returned by snapshot. onError receives refresh failures that
// happen after a debounced trigger, it may be nil.
func NewDashboard(snapshot func() *financechat.AppState, onError func(error), panels ...*Panel) *Dashboard {
	return &Dashboard{panels: panels, snapshot: snapshot, onError: onError}
}

// Debounce makes Trigger coalesce calls within d. Zero disables it.
func (d *Dashboard) Debounce(delay time.Duration) {
	if delay <= 0 {
		d.debounce = nil
		return
	}
	d.debounce = NewDebouncer(delay)
}

// Panels returns the panels of the dashboard.
func (d *Dashboard) Panels() []*Panel { return d.panels }

// Refresh redraws every panel now.
func (d *Dashboard) Refresh() error {
	s := d.snapshot()
	var errs []error
	for _, p := range d.panels {
		errs = append(errs, p.Refresh(s))
	}
	return errors.Join(errs...)
}

// Trigger asks for a refresh, debounced if configured.
func (d *Dashboard) Trigger() {
	if d.debounce == nil {
		d.report(d.Refresh())
		return
	}
	d.debounce.Trigger(func() { d.report(d.Refresh()) })
}

// Close stops pending refreshes and disposes every sink.
func (d *Dashboard) Close() error {
	if d.debounce != nil {
		d.debounce.Stop()
	}
	var errs []error
	for _, p := range d.panels {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}

func (d *Dashboard) report(err error) {
	if err != nil && d.onError != nil {
		d.onError(err)
	}
}
