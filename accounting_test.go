package financechat

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
)

// sampleTransactions covers every kind across a few accounts.
func sampleTransactions() []Transaction {
	return []Transaction{
		tx("1", KindIncome, "3000", "Salário", "Nubank", ""),
		tx("2", KindExpense, "50", "Mercado", "Nubank", ""),
		tx("3", KindExpense, "25.5", "Mercado", "Itaú", ""),
		tx("4", KindExpense, "10", "mercado", "Itaú", ""),
		tx("5", KindTransfer, "200", TransferDescription, "Nubank", "Itaú"),
		tx("6", KindInvestment, "500", "Tesouro", "Nubank", ""),
	}
}

func TestBalancesByAccount(t *testing.T) {
	b := BalancesByAccount(sampleTransactions())

	testCases := []struct {
		account string
		want    string
	}{
		{"Nubank", "2250"}, // 3000 - 50 - 200 - 500
		{"Itaú", "164.5"},  // -25.5 - 10 + 200
		{"Caixa", "0"},
	}
	for _, tc := range testCases {
		if got := b.Get(tc.account); !got.Equal(d(tc.want)) {
			t.Errorf("BalancesByAccount().Get(%q) = %s, want %s", tc.account, got, tc.want)
		}
	}
	if want := []string{"Nubank", "Itaú"}; !slices.Equal(b.Names(), want) {
		t.Errorf("BalancesByAccount().Names() = %v, want %v", b.Names(), want)
	}
	if got := TotalBalance(sampleTransactions()); !got.Equal(d("2414.5")) {
		t.Errorf("TotalBalance() = %s, want 2414.5", got)
	}
}

func TestBalancesByAccount_OrderIndependent(t *testing.T) {
	txs := sampleTransactions()
	want := BalancesByAccount(txs)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := slices.Clone(txs)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := BalancesByAccount(shuffled)
		if len(got) != len(want) {
			t.Fatalf("BalancesByAccount(shuffled) has %d accounts, want %d", len(got), len(want))
		}
		for _, e := range want {
			if !got.Get(e.Name).Equal(e.Value) {
				t.Errorf("BalancesByAccount(shuffled).Get(%q) = %s, want %s", e.Name, got.Get(e.Name), e.Value)
			}
		}
	}
}

func TestTotalsByKind(t *testing.T) {
	testCases := []struct {
		name string
		txs  []Transaction
		want []string
	}{
		{name: "empty", txs: nil, want: []string{"0", "0", "0", "0"}},
		{name: "sample", txs: sampleTransactions(), want: []string{"3000", "85.5", "200", "500"}},
		{name: "income only", txs: sampleTransactions()[:1], want: []string{"3000", "0", "0", "0"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := TotalsByKind(tc.txs)
			if len(got) != len(Kinds()) {
				t.Fatalf("TotalsByKind() has %d entries, want %d", len(got), len(Kinds()))
			}
			for i, k := range Kinds() {
				if got[i].Name != string(k) {
					t.Errorf("TotalsByKind()[%d].Name = %q, want %q", i, got[i].Name, k)
				}
				if !got[i].Value.Equal(d(tc.want[i])) {
					t.Errorf("TotalsByKind()[%s] = %s, want %s", k, got[i].Value, tc.want[i])
				}
			}
		})
	}
}

func TestExpensesByCategory(t *testing.T) {
	got := ExpensesByCategory(sampleTransactions())
	want := Breakdown{
		{Name: "Mercado", Value: d("75.5")},
		{Name: "mercado", Value: d("10")},
	}
	if len(got) != len(want) {
		t.Fatalf("ExpensesByCategory() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Name != want[i].Name || !got[i].Value.Equal(want[i].Value) {
			t.Errorf("ExpensesByCategory()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func samplePortfolio() []Investment {
	return []Investment{
		{ID: "a", Type: Stocks, Description: "PETR4", InitialValue: d("100"), CurrentValue: d("120"), Account: "Nubank"},
		{ID: "b", Type: FixedIncome, Description: "CDB", InitialValue: d("1000"), CurrentValue: d("1010"), Account: "Itaú"},
		{ID: "c", Type: Stocks, Description: "VALE3", InitialValue: d("200"), CurrentValue: d("150"), Account: "Nubank"},
		{ID: "d", Type: Stocks, Description: "PETR4", InitialValue: d("50"), CurrentValue: d("60"), Account: "Inter"},
	}
}

func TestPortfolioBreakdowns(t *testing.T) {
	byType := PortfolioByType(samplePortfolio())
	if got := byType.Get(string(Stocks)); !got.Equal(d("330")) {
		t.Errorf("PortfolioByType()[acoes] = %s, want 330", got)
	}
	if got := byType.Get(string(FixedIncome)); !got.Equal(d("1010")) {
		t.Errorf("PortfolioByType()[renda-fixa] = %s, want 1010", got)
	}
	byDesc := PortfolioByDescription(samplePortfolio())
	if want := []string{"PETR4", "CDB", "VALE3"}; !slices.Equal(byDesc.Names(), want) {
		t.Errorf("PortfolioByDescription().Names() = %v, want %v", byDesc.Names(), want)
	}
	if got := byDesc.Get("PETR4"); !got.Equal(d("180")) {
		t.Errorf("PortfolioByDescription()[PETR4] = %s, want 180", got)
	}
	if got := TotalInvested(samplePortfolio()); !got.Equal(d("1350")) {
		t.Errorf("TotalInvested() = %s, want 1350", got)
	}
	if got := PortfolioValue(samplePortfolio()); !got.Equal(d("1340")) {
		t.Errorf("PortfolioValue() = %s, want 1340", got)
	}
}

func TestInvestmentPerformance(t *testing.T) {
	testCases := []struct {
		name        string
		initial     string
		current     string
		wantGain    string
		wantPercent Percent
	}{
		{name: "gain", initial: "100", current: "120", wantGain: "20", wantPercent: 20},
		{name: "loss", initial: "200", current: "150", wantGain: "-50", wantPercent: -25},
		{name: "flat", initial: "80", current: "80", wantGain: "0", wantPercent: 0},
		{name: "zero initial", initial: "0", current: "50", wantGain: "50", wantPercent: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := InvestmentPerformance(Investment{InitialValue: d(tc.initial), CurrentValue: d(tc.current)})
			if !got.Gain.Equal(d(tc.wantGain)) {
				t.Errorf("InvestmentPerformance().Gain = %s, want %s", got.Gain, tc.wantGain)
			}
			if !got.GainPercent.Equal(tc.wantPercent) {
				t.Errorf("InvestmentPerformance().GainPercent = %v, want %v", got.GainPercent, tc.wantPercent)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(sampleTransactions())
	want := Summary{
		Income:    d("3000"),
		Expenses:  d("85.5"),
		Balance:   d("2914.5"),
		Invested:  d("500"),
		Transfers: d("200"),
		Count:     6,
	}
	if !got.Income.Equal(want.Income) || !got.Expenses.Equal(want.Expenses) ||
		!got.Balance.Equal(want.Balance) || !got.Invested.Equal(want.Invested) ||
		!got.Transfers.Equal(want.Transfers) || got.Count != want.Count {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
	if got := Summarize(nil); !got.Balance.Equal(decimal.Zero) {
		t.Errorf("Summarize(nil).Balance = %s, want 0", got.Balance)
	}
}

func TestHoldingsByTypeAndAccount(t *testing.T) {
	got := HoldingsByTypeAndAccount(samplePortfolio())
	if len(got) != 3 {
		t.Fatalf("HoldingsByTypeAndAccount() = %d holdings, want 3", len(got))
	}
	first := got[0]
	if first.Type != Stocks || first.Account != "Nubank" || first.Count != 2 {
		t.Errorf("HoldingsByTypeAndAccount()[0] = %+v, want 2 acoes at Nubank", first)
	}
	if !first.InitialValue.Equal(d("300")) || !first.CurrentValue.Equal(d("270")) {
		t.Errorf("HoldingsByTypeAndAccount()[0] values = %s/%s, want 300/270", first.InitialValue, first.CurrentValue)
	}
	if p := first.Performance(); !p.GainPercent.Equal(-10) {
		t.Errorf("Holding.Performance().GainPercent = %v, want -10", p.GainPercent)
	}
}

func TestRecent(t *testing.T) {
	txs := sampleTransactions()
	testCases := []struct {
		n    int
		want []string
	}{
		{n: 2, want: []string{"6", "5"}},
		{n: 10, want: []string{"6", "5", "4", "3", "2", "1"}},
		{n: 0, want: nil},
	}
	for _, tc := range testCases {
		var got []string
		for _, x := range Recent(txs, tc.n) {
			got = append(got, x.ID)
		}
		if !slices.Equal(got, tc.want) {
			t.Errorf("Recent(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
	if txs[0].ID != "1" {
		t.Error("Recent() modified its input")
	}
}

func TestAccountsUsed(t *testing.T) {
	got := AccountsUsed(sampleTransactions())
	if want := []string{"Nubank", "Itaú"}; !slices.Equal(got, want) {
		t.Errorf("AccountsUsed() = %v, want %v", got, want)
	}
}
