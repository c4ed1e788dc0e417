package renderer

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/etnz/financechat"
)

// fakeSink records its life cycle in a shared log.
type fakeSink struct {
	id  int
	log *sinkLog
}

type sinkLog struct {
	mu       sync.Mutex
	created  int
	live     int
	maxLive  int
	rendered []Series
}

func (l *sinkLog) factory(name string) (ChartSink, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.created++
	l.live++
	l.maxLive = max(l.maxLive, l.live)
	return &fakeSink{id: l.created, log: l}, nil
}

func (f *fakeSink) Render(s Series) error {
	f.log.mu.Lock()
	defer f.log.mu.Unlock()
	f.log.rendered = append(f.log.rendered, s)
	return nil
}

func (f *fakeSink) Dispose() error {
	f.log.mu.Lock()
	defer f.log.mu.Unlock()
	f.log.live--
	return nil
}

func TestPanel_OneLiveSink(t *testing.T) {
	s := sampleState(t)
	var l sinkLog
	p, err := NewChartPanel("expenses", l.factory)
	if err != nil {
		t.Fatalf("NewChartPanel() unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := p.Refresh(s); err != nil {
			t.Fatalf("Refresh() unexpected error: %v", err)
		}
	}
	if l.created != 5 || l.maxLive != 1 || l.live != 1 {
		t.Errorf("after 5 refreshes: created %d, max live %d, live %d, want 5, 1, 1", l.created, l.maxLive, l.live)
	}

	if err := p.Refresh(financechat.NewAppState()); err != nil {
		t.Fatalf("Refresh(empty) unexpected error: %v", err)
	}
	if l.live != 0 || p.Live() {
		t.Errorf("after an empty refresh: live %d, want 0", l.live)
	}
	if l.created != 5 {
		t.Errorf("an empty refresh created a sink")
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() unexpected error: %v", err)
	}
}

func TestPanel_FactoryError(t *testing.T) {
	wantErr := errors.New("no canvas")
	p := NewPanel("kinds", KindSeries, func(string) (ChartSink, error) { return nil, wantErr })
	if err := p.Refresh(sampleState(t)); !errors.Is(err, wantErr) {
		t.Errorf("Refresh() error = %v, want %v", err, wantErr)
	}
	if p.Live() {
		t.Error("Live() = true after a failed creation")
	}
	if _, err := NewChartPanel("pie", nil); err == nil {
		t.Error("NewChartPanel(pie) = nil error, want an error")
	}
}

func TestDashboard_Debounced(t *testing.T) {
	s := sampleState(t)
	var l sinkLog
	var panels []*Panel
	for _, name := range []string{"kinds", "accounts"} {
		p, _ := NewChartPanel(name, l.factory)
		panels = append(panels, p)
	}

	var mu sync.Mutex
	snapshots := 0
	done := make(chan struct{}, 10)
	d := NewDashboard(func() *financechat.AppState {
		mu.Lock()
		defer mu.Unlock()
		snapshots++
		done <- struct{}{}
		return s.Snapshot()
	}, func(err error) { t.Errorf("refresh error: %v", err) }, panels...)
	d.Debounce(20 * time.Millisecond)

	for i := 0; i < 10; i++ {
		d.Trigger()
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced refresh never ran")
	}
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	got := snapshots
	mu.Unlock()
	if got != 1 {
		t.Errorf("10 triggers took %d snapshots, want 1", got)
	}
	l.mu.Lock()
	if l.live != 2 || l.maxLive != 2 {
		t.Errorf("live sinks = %d (max %d), want 2", l.live, l.maxLive)
	}
	l.mu.Unlock()

	if err := d.Close(); err != nil {
		t.Errorf("Close() unexpected error: %v", err)
	}
	if l.live != 0 {
		t.Errorf("live sinks after Close() = %d, want 0", l.live)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	ran := make(chan struct{}, 1)
	d.Trigger(func() { ran <- struct{}{} })
	if !d.Pending() {
		t.Error("Pending() = false after Trigger()")
	}
	d.Stop()
	select {
	case <-ran:
		t.Error("a stopped call ran")
	case <-time.After(50 * time.Millisecond):
	}
	if d.Pending() {
		t.Error("Pending() = true after Stop()")
	}
}

func TestTextSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTextSink(&buf, "Gastos")
	series := Series{Labels: []string{"Mercado", "Café"}, Values: []float64{90, 10}}
	if err := sink.Render(series); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Gastos\n", "Mercado │" + strings.Repeat("█", barWidth), "R$ 90,00 (90,00%)", "Café    │███ ", "R$ 10,00 (10,00%)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q:\n%s", want, out)
		}
	}
	if err := sink.Dispose(); err != nil {
		t.Fatalf("Dispose() unexpected error: %v", err)
	}
	if err := sink.Render(series); !errors.Is(err, errDisposed) {
		t.Errorf("Render() after Dispose() error = %v, want %v", err, errDisposed)
	}
}
