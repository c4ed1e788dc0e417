package financechat

import "testing"

func TestParseKind(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Kind
		label   string
		wantErr bool
	}{
		{name: "income tag", input: "receita", want: KindIncome, label: "Receita"},
		{name: "expense english", input: " Expense ", want: KindExpense, label: "Gasto"},
		{name: "transfer label", input: "Transferência", want: KindTransfer, label: "Transferência"},
		{name: "investment tag", input: "investimento", want: KindInvestment, label: "Investimento"},
		{name: "unknown", input: "doação", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseKind(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if got != tc.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if !got.Valid() {
				t.Errorf("%q.Valid() = false, want true", got)
			}
			if l := got.Label(); l != tc.label {
				t.Errorf("%q.Label() = %q, want %q", got, l, tc.label)
			}
		})
	}
}

func TestKind_InvestmentKindAndType(t *testing.T) {
	s := NewAppState()
	inv, ok := s.Record(tx("1", KindInvestment, "100", "Tesouro", "Caixa", ""))
	if !ok {
		t.Fatal("Record(KindInvestment) created no investment")
	}
	got, found := s.Investment(inv.ID)
	if !found || got.ID != "1" {
		t.Errorf("Investment(%q) = %+v, %v, want the recorded investment", inv.ID, got, found)
	}
}
