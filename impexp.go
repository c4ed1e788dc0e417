package financechat

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// this file contains functions to handle the CSV import/export format.
// One file holds transactions, another one holds investments, both with a header line.

// TransactionColumns is the header of the transactions CSV format.
var TransactionColumns = []string{"id", "kind", "amount", "description", "sourceAccount", "destinationAccount", "currentValue", "timestamp"}

// InvestmentColumns is the header of the investments CSV format.
var InvestmentColumns = []string{"id", "type", "description", "initialValue", "currentValue", "account", "timestamp"}

// transactionAliases are other header names accepted on import, in lower case.
var transactionAliases = map[string]string{
	"type":      "kind",
	"tipo":      "kind",
	"valor":     "amount",
	"descrição": "description",
	"descricao": "description",
	"bank":      "sourceAccount",
	"banco":     "sourceAccount",
	"account":   "sourceAccount",
	"tobank":    "destinationAccount",
	"date":      "timestamp",
	"data":      "timestamp",
}

// investmentAliases are other header names accepted on import, in lower case.
var investmentAliases = map[string]string{
	"tipo":   "type",
	"amount": "initialValue",
	"valor":  "initialValue",
	"bank":   "account",
	"banco":  "account",
	"date":   "timestamp",
	"data":   "timestamp",
}

// headerNames maps lower case header names to their column.
func headerNames(columns []string, aliases map[string]string) map[string]string {
	names := make(map[string]string, len(columns)+len(aliases))
	for _, c := range columns {
		names[strings.ToLower(c)] = c
	}
	for a, c := range aliases {
		names[a] = c
	}
	return names
}

// ImportReport summarizes an import.
type ImportReport struct {
	Imported int
	Skipped  []*ImportError
}

func (r ImportReport) String() string {
	return fmt.Sprintf("%d importados, %d ignorados", r.Imported, len(r.Skipped))
}

// ExportTransactions writes txs to w in the CSV format.
func ExportTransactions(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TransactionColumns); err != nil {
		return err
	}
	for _, tx := range txs {
		var current string
		if tx.CurrentValue.Valid {
			current = tx.CurrentValue.Decimal.String()
		}
		record := []string{
			guardFormula(tx.ID),
			string(tx.Kind),
			tx.Amount.String(),
			guardFormula(tx.Description),
			guardFormula(tx.SourceAccount),
			guardFormula(tx.DestinationAccount),
			current,
			tx.Timestamp.Format(time.RFC3339Nano),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot export transaction %q: %w", tx.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportInvestments writes invs to w in the CSV format.
func ExportInvestments(w io.Writer, invs []Investment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(InvestmentColumns); err != nil {
		return err
	}
	for _, inv := range invs {
		record := []string{
			guardFormula(inv.ID),
			string(inv.Type),
			guardFormula(inv.Description),
			inv.InitialValue.String(),
			inv.CurrentValue.String(),
			guardFormula(inv.Account),
			inv.Timestamp.Format(time.RFC3339Nano),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot export investment %q: %w", inv.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// row is a record of a CSV file, with its columns indexed by header name.
type row struct {
	line   int
	fields map[string]string
}

func (r row) get(column string) string {
	return Sanitize(unguardFormula(strings.TrimSpace(r.fields[column])))
}

// readRows reads a CSV file with a header line. Malformed lines are reported
// and skipped. A missing required column is fatal.
func readRows(r io.Reader, columns map[string]string, required ...string) ([]row, []*ImportError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, &ImportError{Err: fmt.Errorf("cannot read header: %w", err)}
	}
	names := make([]string, len(header))
	present := make(map[string]bool)
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if c, ok := columns[strings.ToLower(h)]; ok {
			h = c
		}
		names[i] = h
		present[h] = true
	}
	for _, c := range required {
		if !present[c] {
			return nil, nil, &ImportError{Err: fmt.Errorf("missing column %q", c)}
		}
	}

	var rows []row
	var skipped []*ImportError
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			skipped = append(skipped, &ImportError{Line: pe.StartLine, Err: pe.Err})
			continue
		}
		if err != nil {
			return nil, nil, &ImportError{Err: err}
		}
		line, _ := cr.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		fields := make(map[string]string, len(record))
		for i, v := range record {
			if i < len(names) {
				fields[names[i]] = v
			}
		}
		rows = append(rows, row{line: line, fields: fields})
	}
	return rows, skipped, nil
}

// ParseAmount parses "1234.5", "1234,5" or "1.234,50".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "R$"), "r$")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// parseTimestamp parses RFC 3339 or dd/mm/yyyy timestamps, empty means def.
func parseTimestamp(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ReadTransactions reads transactions in the CSV format. Rows that cannot be
// read are returned as skipped, only a missing or unusable header is fatal.
func ReadTransactions(r io.Reader) ([]Transaction, []*ImportError, error) {
	txs, _, skipped, err := readTransactions(r, time.Now())
	return txs, skipped, err
}

func readTransactions(r io.Reader, now time.Time) ([]Transaction, []int, []*ImportError, error) {
	rows, skipped, err := readRows(r, headerNames(TransactionColumns, transactionAliases), "kind", "amount")
	if err != nil {
		return nil, nil, nil, err
	}
	var txs []Transaction
	var lines []int
	for _, rw := range rows {
		tx, err := transactionFromRow(rw, now)
		if err != nil {
			skipped = append(skipped, &ImportError{Line: rw.line, Err: err})
			continue
		}
		txs = append(txs, tx)
		lines = append(lines, rw.line)
	}
	return txs, lines, skipped, nil
}

func transactionFromRow(rw row, now time.Time) (Transaction, error) {
	kind, err := ParseKind(rw.get("kind"))
	if err != nil {
		return Transaction{}, err
	}
	amount, err := ParseAmount(rw.get("amount"))
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid amount %q", rw.get("amount"))
	}
	on, err := parseTimestamp(rw.get("timestamp"), now)
	if err != nil {
		return Transaction{}, err
	}
	id := rw.get("id")
	if id == "" {
		id = NewID()
	}
	source := rw.get("sourceAccount")
	if source == "" {
		source = DefaultAccount
	}
	tx := newTransaction(id, on, kind, amount, rw.get("description"), source, rw.get("destinationAccount"))
	if kind == KindInvestment {
		if v := rw.get("currentValue"); v != "" {
			current, err := ParseAmount(v)
			if err != nil {
				return Transaction{}, fmt.Errorf("invalid current value %q", v)
			}
			tx.CurrentValue = decimal.NewNullDecimal(current)
		}
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// ReadInvestments reads investments in the CSV format, see [ReadTransactions].
func ReadInvestments(r io.Reader) ([]Investment, []*ImportError, error) {
	invs, _, skipped, err := readInvestments(r, time.Now())
	return invs, skipped, err
}

func readInvestments(r io.Reader, now time.Time) ([]Investment, []int, []*ImportError, error) {
	rows, skipped, err := readRows(r, headerNames(InvestmentColumns, investmentAliases), "type", "initialValue")
	if err != nil {
		return nil, nil, nil, err
	}
	var invs []Investment
	var lines []int
	for _, rw := range rows {
		inv, err := investmentFromRow(rw, now)
		if err != nil {
			skipped = append(skipped, &ImportError{Line: rw.line, Err: err})
			continue
		}
		invs = append(invs, inv)
		lines = append(lines, rw.line)
	}
	return invs, lines, skipped, nil
}

func investmentFromRow(rw row, now time.Time) (Investment, error) {
	typ, err := ParseInvestmentType(rw.get("type"))
	if err != nil {
		return Investment{}, err
	}
	initial, err := ParseAmount(rw.get("initialValue"))
	if err != nil {
		return Investment{}, fmt.Errorf("invalid initial value %q", rw.get("initialValue"))
	}
	current := initial
	if v := rw.get("currentValue"); v != "" {
		if current, err = ParseAmount(v); err != nil {
			return Investment{}, fmt.Errorf("invalid current value %q", v)
		}
	}
	on, err := parseTimestamp(rw.get("timestamp"), now)
	if err != nil {
		return Investment{}, err
	}
	inv := Investment{
		ID:           firstOf(rw.get("id"), NewID()),
		Timestamp:    on,
		Type:         typ,
		Description:  firstOf(rw.get("description"), typ.Label()),
		InitialValue: initial,
		CurrentValue: current,
		Account:      firstOf(rw.get("account"), DefaultAccount),
	}
	if err := inv.Validate(); err != nil {
		return Investment{}, err
	}
	return inv, nil
}

// ImportTransactions reads transactions from r and appends the new ones to s.
// Rows whose id is already known are skipped.
func ImportTransactions(s *AppState, r io.Reader) (ImportReport, error) {
	txs, lines, skipped, err := readTransactions(r, time.Now())
	if err != nil {
		return ImportReport{}, err
	}
	report := ImportReport{Skipped: skipped}
	for i, tx := range txs {
		added, _ := s.Merge([]Transaction{tx}, nil)
		if added == 0 {
			report.Skipped = append(report.Skipped, &ImportError{Line: lines[i], Err: fmt.Errorf("duplicate id %q", tx.ID)})
			continue
		}
		report.Imported++
	}
	return report, nil
}

// ImportInvestments reads investments from r and appends the new ones to s.
func ImportInvestments(s *AppState, r io.Reader) (ImportReport, error) {
	invs, lines, skipped, err := readInvestments(r, time.Now())
	if err != nil {
		return ImportReport{}, err
	}
	report := ImportReport{Skipped: skipped}
	for i, inv := range invs {
		added, _ := s.Merge(nil, []Investment{inv})
		if added == 0 {
			report.Skipped = append(report.Skipped, &ImportError{Line: lines[i], Err: fmt.Errorf("duplicate id %q", inv.ID)})
			continue
		}
		report.Imported++
	}
	return report, nil
}
