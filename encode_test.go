package financechat

import (
	"slices"
	"testing"
)

func TestEncodeDecodeState(t *testing.T) {
	s := NewAppState()
	for _, x := range sampleTransactions() {
		s.Record(x)
	}
	s.AddCustomAccount("C6 Bank")
	s.AmendInvestmentValue("6", d("520"))

	data, err := EncodeState(s)
	if err != nil {
		t.Fatalf("EncodeState() unexpected error: %v", err)
	}
	got, err := DecodeState(data)
	if err != nil {
		t.Fatalf("DecodeState() unexpected error: %v", err)
	}

	want := s.Transactions()
	gotTxs := got.Transactions()
	if len(gotTxs) != len(want) {
		t.Fatalf("DecodeState() = %d transactions, want %d", len(gotTxs), len(want))
	}
	for i := range want {
		if !gotTxs[i].Equal(want[i]) {
			t.Errorf("DecodeState() transaction %d = %+v, want %+v", i, gotTxs[i], want[i])
		}
	}
	inv, ok := got.Investment("6")
	if !ok || !inv.CurrentValue.Equal(d("520")) {
		t.Errorf("DecodeState() investment = %+v, want current value 520", inv)
	}
	if want := []string{"C6 Bank"}; !slices.Equal(got.CustomAccounts(), want) {
		t.Errorf("DecodeState() custom accounts = %v, want %v", got.CustomAccounts(), want)
	}
}

func TestDecodeState_Tolerant(t *testing.T) {
	testCases := []struct {
		name       string
		data       string
		wantTxs    int
		wantInvs   int
		wantCustom []string
		wantErr    bool
	}{
		{name: "empty", data: "", wantErr: false},
		{name: "corrupt", data: "{not json", wantErr: true},
		{name: "not an object", data: "[1,2]", wantErr: true},
		{name: "missing collections", data: `{}`},
		{
			name: "browser blob",
			data: `{
				"transactions": [
					{"id": 1, "date": "2024-01-01T10:00:00.000Z", "type": "receita", "amount": 3000, "description": "Salário", "bank": "Nubank", "toBank": null},
					{"id": 2, "date": "2024-01-02T10:00:00.000Z", "type": "investimento", "amount": 500, "description": "Ações", "bank": "Nubank", "toBank": null}
				],
				"investments": [
					{"id": 2, "type": "acoes", "description": "Ações", "initialValue": 500, "currentValue": 550, "bank": "Nubank", "date": "2024-01-02T10:00:00.000Z"}
				],
				"customBanks": ["C6 Bank"]
			}`,
			wantTxs:    2,
			wantInvs:   1,
			wantCustom: []string{"C6 Bank"},
		},
		{
			name: "bad elements are dropped",
			data: `{
				"transactions": [
					{"id": "a", "timestamp": "2024-01-01T10:00:00Z", "kind": "gasto", "amount": 10, "description": "x", "sourceAccount": "Caixa"},
					{"id": "b", "kind": "bonus", "amount": 10},
					{"id": "c", "kind": "gasto", "amount": -3},
					"garbage"
				],
				"investments": {"not": "a list"},
				"customAccounts": ["Nubank", 3, "XP"]
			}`,
			wantTxs:    1,
			wantCustom: []string{"XP"},
			wantErr:    true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeState([]byte(tc.data))
			if got == nil {
				t.Fatal("DecodeState() returned a nil state")
			}
			if (err != nil) != tc.wantErr {
				t.Errorf("DecodeState() error = %v, wantErr %v", err, tc.wantErr)
			}
			if n := got.Len(); n != tc.wantTxs {
				t.Errorf("DecodeState() = %d transactions, want %d", n, tc.wantTxs)
			}
			if n := len(got.Investments()); n != tc.wantInvs {
				t.Errorf("DecodeState() = %d investments, want %d", n, tc.wantInvs)
			}
			if !slices.Equal(got.CustomAccounts(), tc.wantCustom) && len(got.CustomAccounts())+len(tc.wantCustom) > 0 {
				t.Errorf("DecodeState() custom accounts = %v, want %v", got.CustomAccounts(), tc.wantCustom)
			}
		})
	}
}
