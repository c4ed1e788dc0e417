// Package chat is the conversation with the user: it routes chat commands,
// records the transactions typed in plain text and keeps the state saved.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/assist"
	"github.com/etnz/financechat/internal/log"
)

// Saver persists the whole state.
type Saver interface {
	Save(ctx context.Context, s *financechat.AppState) error
}

// Session owns the state of one user. Every operation is serialized.
//
// Mutating methods return either an error that left the state untouched, or
// a *financechat.PersistenceError when the change was applied in memory but
// could not be saved.
type Session struct {
	mu       sync.Mutex
	state    *financechat.AppState
	saver    Saver
	now      func() time.Time
	assist   assist.Classifier
	onChange []func()
	logger   *log.Logger
}

// NewSession creates a session over state, saved with saver which may be nil.
func NewSession(state *financechat.AppState, saver Saver, logger *log.Logger) *Session {
	if state == nil {
		state = financechat.NewAppState()
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Session{
		state:  state,
		saver:  saver,
		now:    time.Now,
		logger: logger.WithComponent(log.ComponentChat),
	}
}

// SetClassifier sets the assistant used for messages the parser does not understand.
func (s *Session) SetClassifier(c assist.Classifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assist = c
}

// OnChange registers f to be called after every change of the state.
func (s *Session) OnChange(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, f)
}

// Snapshot returns an independent copy of the state.
func (s *Session) Snapshot() *financechat.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Accounts returns the known accounts.
func (s *Session) Accounts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Accounts()
}

// mutate applies f to the state and saves it when f reports a change.
func (s *Session) mutate(ctx context.Context, op string, f func(*financechat.AppState) (bool, error)) error {
	s.mu.Lock()
	changed, err := f(s.state)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	var saveErr error
	if s.saver != nil {
		saveErr = s.saver.Save(ctx, s.state)
	}
	hooks := s.onChange
	s.mu.Unlock()

	if saveErr != nil {
		s.logger.WarnContext(ctx, "change not saved", log.NewFields().WithOperation(op).WithError(saveErr).ToSlice()...)
		var pe *financechat.PersistenceError
		if !errors.As(saveErr, &pe) {
			saveErr = &financechat.PersistenceError{Op: "save", Err: saveErr}
		}
	}
	for _, h := range hooks {
		h()
	}
	return saveErr
}

// Record adds tx, and its investment for the investment kind.
func (s *Session) Record(ctx context.Context, tx financechat.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	err := s.mutate(ctx, log.OpRecord, func(st *financechat.AppState) (bool, error) {
		st.Record(tx)
		return true, nil
	})
	s.logger.InfoContext(ctx, "transaction recorded", log.NewFields().WithTransaction(tx.ID, string(tx.Kind), tx.Amount.String(), tx.SourceAccount).ToSlice()...)
	return err
}

// ParseAndRecord parses text and records the transaction. When the kind is
// not recognized and an assistant is set, the assistant is asked instead.
func (s *Session) ParseAndRecord(ctx context.Context, text string) (financechat.Transaction, error) {
	s.mu.Lock()
	parser := financechat.NewParser(s.state.Accounts())
	parser.Now = s.now
	classifier := s.assist
	s.mu.Unlock()

	tx, err := parser.Parse(text)
	if errors.Is(err, financechat.ErrUnrecognizedKind) && classifier != nil {
		tx, err = s.classify(ctx, classifier, text, parser.Accounts, err)
	}
	if err != nil {
		s.logger.DebugContext(ctx, "message not understood", log.NewFields().WithOperation(log.OpParse).WithError(err).ToSlice()...)
		return financechat.Transaction{}, err
	}
	return tx, s.Record(ctx, tx)
}

// classify asks the assistant, parseErr is returned when it cannot help.
func (s *Session) classify(ctx context.Context, c assist.Classifier, text string, accounts []string, parseErr error) (financechat.Transaction, error) {
	suggestion, err := c.Classify(ctx, financechat.Sanitize(text), accounts)
	if err != nil {
		s.logger.WarnContext(ctx, "assistant failed", log.NewFields().WithOperation(log.OpClassify).WithError(err).ToSlice()...)
		return financechat.Transaction{}, parseErr
	}
	tx, err := suggestion.Transaction(accounts)
	if err != nil {
		return financechat.Transaction{}, parseErr
	}
	tx.Timestamp = s.now()
	return tx, nil
}

// Invest records an investment made through the form: an investment and
// its transaction.
func (s *Session) Invest(ctx context.Context, typ financechat.InvestmentType, amount decimal.Decimal, account string) (financechat.Transaction, financechat.Investment, error) {
	var tx financechat.Transaction
	var inv financechat.Investment
	err := s.mutate(ctx, log.OpRecord, func(st *financechat.AppState) (bool, error) {
		var err error
		tx, inv, err = st.Invest(typ, amount, account)
		return err == nil, err
	})
	return tx, inv, err
}

// UpdateInvestment sets the current value of the investment id.
func (s *Session) UpdateInvestment(ctx context.Context, id string, value decimal.Decimal) (financechat.Investment, error) {
	var inv financechat.Investment
	err := s.mutate(ctx, log.OpAmend, func(st *financechat.AppState) (bool, error) {
		if err := st.AmendInvestmentValue(id, value); err != nil {
			return false, err
		}
		inv, _ = st.Investment(id)
		return true, nil
	})
	return inv, err
}

// AddAccount registers a custom account. It reports false when the name is
// empty or already known.
func (s *Session) AddAccount(ctx context.Context, name string) (bool, error) {
	var added bool
	err := s.mutate(ctx, log.OpRecord, func(st *financechat.AppState) (bool, error) {
		added = st.AddCustomAccount(name)
		return added, nil
	})
	return added, err
}

// ImportTransactions merges the transactions of a CSV file.
func (s *Session) ImportTransactions(ctx context.Context, r io.Reader) (financechat.ImportReport, error) {
	return s.importCSV(ctx, r, financechat.ImportTransactions)
}

// ImportInvestments merges the investments of a CSV file.
func (s *Session) ImportInvestments(ctx context.Context, r io.Reader) (financechat.ImportReport, error) {
	return s.importCSV(ctx, r, financechat.ImportInvestments)
}

func (s *Session) importCSV(ctx context.Context, r io.Reader, read func(*financechat.AppState, io.Reader) (financechat.ImportReport, error)) (financechat.ImportReport, error) {
	var report financechat.ImportReport
	err := s.mutate(ctx, log.OpImport, func(st *financechat.AppState) (bool, error) {
		var err error
		report, err = read(st, r)
		return err == nil && report.Imported > 0, err
	})
	if err == nil || isPersistence(err) {
		s.logger.InfoContext(ctx, "import done", log.FieldCount, report.Imported, "skipped", len(report.Skipped))
	}
	return report, err
}

// Replace swaps the whole state, for a full JSON import.
func (s *Session) Replace(ctx context.Context, state *financechat.AppState) error {
	return s.mutate(ctx, log.OpImport, func(st *financechat.AppState) (bool, error) {
		st.Replace(state)
		return true, nil
	})
}

// Reset erases every transaction, investment and custom account.
func (s *Session) Reset(ctx context.Context) error {
	return s.mutate(ctx, log.OpDelete, func(st *financechat.AppState) (bool, error) {
		st.Reset()
		return true, nil
	})
}

func isPersistence(err error) bool {
	var pe *financechat.PersistenceError
	return errors.As(err, &pe)
}

// warning is appended to replies whose change could not be saved.
func warning(err error) string {
	return fmt.Sprintf("\n\n⚠️ Os dados não puderam ser salvos: %v", err)
}
