package financechat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// this file contains the encoding of the whole AppState as a single JSON blob:
//
//	{"transactions": [...], "investments": [...], "customAccounts": [...]}
//
// Decoding is tolerant: every collection and every element is read
// independently, and what cannot be read is dropped.

// MarshalJSON implements the json.Marshaler interface for AppState.
func (s *AppState) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("transactions", s.transactions)
	w.Append("investments", s.investments)
	w.Append("customAccounts", s.customAccounts)
	return w.MarshalJSON()
}

// EncodeState returns the blob of s.
func EncodeState(s *AppState) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState reads a blob written by EncodeState or by the browser version.
//
// It always returns a usable state. The error, if any, lists what was dropped.
func DecodeState(data []byte) (*AppState, error) {
	s := NewAppState()
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj any
	if err := dec.Decode(&obj); err != nil {
		return s, fmt.Errorf("corrupt state: %w", err)
	}
	if _, ok := obj.(map[string]any); !ok {
		return s, fmt.Errorf("corrupt state: not an object")
	}

	var errs []error
	for _, raw := range elements(obj, &errs, "$.transactions") {
		var tx Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			errs = append(errs, fmt.Errorf("transaction dropped: %w", err))
			continue
		}
		if tx.Description == "" {
			tx.Description = DefaultDescription
		}
		if tx.SourceAccount == "" {
			tx.SourceAccount = DefaultAccount
		}
		if err := tx.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("transaction %q dropped: %w", tx.ID, err))
			continue
		}
		s.transactions = append(s.transactions, tx)
	}

	for _, raw := range elements(obj, &errs, "$.investments") {
		var inv Investment
		if err := json.Unmarshal(raw, &inv); err != nil {
			errs = append(errs, fmt.Errorf("investment dropped: %w", err))
			continue
		}
		if inv.Account == "" {
			inv.Account = DefaultAccount
		}
		if err := inv.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("investment %q dropped: %w", inv.ID, err))
			continue
		}
		s.investments = append(s.investments, inv)
	}

	accounts := elements(obj, &errs, "$.customAccounts")
	if accounts == nil {
		accounts = elements(obj, &errs, "$.customBanks")
	}
	for _, raw := range accounts {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			errs = append(errs, fmt.Errorf("custom account dropped: %w", err))
			continue
		}
		s.AddCustomAccount(name)
	}

	return s, errors.Join(errs...)
}

// elements returns the raw JSON of the elements of the array at path.
// A missing path yields nothing, a value that is not an array is reported.
func elements(obj any, errs *[]error, path string) []json.RawMessage {
	val, err := jsonpath.Get(path, obj)
	if err != nil || val == nil {
		// unknown keys are expected from older versions.
		return nil
	}
	list, ok := val.([]any)
	if !ok {
		*errs = append(*errs, fmt.Errorf("%s is not a list", strings.TrimPrefix(path, "$.")))
		return nil
	}
	raws := make([]json.RawMessage, 0, len(list))
	for _, e := range list {
		raw, err := json.Marshal(e)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s element dropped: %w", strings.TrimPrefix(path, "$."), err))
			continue
		}
		raws = append(raws, raw)
	}
	return raws
}
