package renderer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// barWidth is the number of cells of the longest bar.
const barWidth = 30

// TextSink draws a chart as horizontal bars on a terminal.
type TextSink struct {
	w        io.Writer
	title    string
	disposed bool
}

// NewTextSink returns a sink writing to w.
func NewTextSink(w io.Writer, title string) *TextSink {
	return &TextSink{w: w, title: title}
}

// TextSinkFactory returns a factory of TextSinks writing to w, titled after
// the registered chart names.
func TextSinkFactory(w io.Writer) SinkFactory {
	return func(name string) (ChartSink, error) {
		_, title, ok := Chart(name)
		if !ok {
			title = name
		}
		return NewTextSink(w, title), nil
	}
}

var errDisposed = errors.New("chart already disposed")

// Render implements ChartSink.
func (t *TextSink) Render(s Series) error {
	if t.disposed {
		return errDisposed
	}
	var b strings.Builder
	if t.title != "" {
		fmt.Fprintf(&b, "%s\n", t.title)
	}

	labelWidth, maxValue := 0, 0.0
	for i, l := range s.Labels {
		labelWidth = max(labelWidth, utf8.RuneCountInString(l))
		maxValue = max(maxValue, abs(s.Values[i]))
	}
	shares := s.Shares()
	for i, l := range s.Labels {
		v := s.Values[i]
		n := 0
		if maxValue > 0 {
			n = int(abs(v) / maxValue * barWidth)
		}
		bar := strings.Repeat("█", n)
		if n == 0 && v != 0 {
			bar = "▏"
		}
		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(l))
		fmt.Fprintf(&b, "%s%s │%-*s %s (%s)\n", l, pad, barWidth, bar, FormatCurrency(decimal.NewFromFloat(v)), shares[i])
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

// Dispose implements ChartSink.
func (t *TextSink) Dispose() error {
	if t.disposed {
		return errDisposed
	}
	t.disposed = true
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
