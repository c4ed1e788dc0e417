package renderer

import (
	"github.com/etnz/financechat"
)

// Series is the data of a chart: one value per label, index aligned.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// FromBreakdown converts b to a Series, label maps entry names to display
// labels and may be nil.
func FromBreakdown(b financechat.Breakdown, label func(string) string) Series {
	s := Series{Labels: make([]string, 0, len(b)), Values: make([]float64, 0, len(b))}
	for _, e := range b {
		name := e.Name
		if label != nil {
			name = label(name)
		}
		s.Labels = append(s.Labels, name)
		s.Values = append(s.Values, e.Value.InexactFloat64())
	}
	return s
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Values) }

// Total sums the values.
func (s Series) Total() float64 {
	var t float64
	for _, v := range s.Values {
		t += v
	}
	return t
}

// Shares returns each value as a percentage of the total, all zero when the
// total is not positive.
func (s Series) Shares() []financechat.Percent {
	shares := make([]financechat.Percent, len(s.Values))
	total := s.Total()
	if total <= 0 {
		return shares
	}
	for i, v := range s.Values {
		shares[i] = financechat.Percent(v / total * 100)
	}
	return shares
}

// Query computes a Series from a snapshot of the state.
type Query func(*financechat.AppState) Series

// KindSeries totals transactions per kind, all kinds present. It is empty
// when there are no transactions.
func KindSeries(s *financechat.AppState) Series {
	txs := s.Transactions()
	if len(txs) == 0 {
		return Series{}
	}
	return FromBreakdown(financechat.TotalsByKind(txs), func(name string) string {
		return KindLabel(financechat.Kind(name))
	})
}

// AccountSeries is the balance per account.
func AccountSeries(s *financechat.AppState) Series {
	return FromBreakdown(financechat.BalancesByAccount(s.Transactions()), nil)
}

// CategorySeries is the expenses per description.
func CategorySeries(s *financechat.AppState) Series {
	return FromBreakdown(financechat.ExpensesByCategory(s.Transactions()), nil)
}

// PortfolioTypeSeries is the current value of the portfolio per investment type.
func PortfolioTypeSeries(s *financechat.AppState) Series {
	return FromBreakdown(financechat.PortfolioByType(s.Investments()), InvestmentTypeLabel)
}

// PortfolioDescriptionSeries is the current value of the portfolio per description.
func PortfolioDescriptionSeries(s *financechat.AppState) Series {
	return FromBreakdown(financechat.PortfolioByDescription(s.Investments()), nil)
}

// charts is the registry of named charts, in display order.
var charts = []struct {
	name  string
	title string
	query Query
}{
	{"kinds", "Movimentação por tipo", KindSeries},
	{"accounts", "Saldo por banco", AccountSeries},
	{"expenses", "Gastos por categoria", CategorySeries},
	{"portfolio-type", "Carteira por tipo", PortfolioTypeSeries},
	{"portfolio-description", "Carteira por ativo", PortfolioDescriptionSeries},
}

// ChartNames returns the names of the available charts.
func ChartNames() []string {
	names := make([]string, len(charts))
	for i, c := range charts {
		names[i] = c.name
	}
	return names
}

// Chart returns the query and the title of the chart called name.
func Chart(name string) (Query, string, bool) {
	for _, c := range charts {
		if c.name == name {
			return c.query, c.title, true
		}
	}
	return nil, "", false
}
