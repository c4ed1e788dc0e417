package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/etnz/financechat"
)

// maxBody bounds request bodies, imports included.
const maxBody = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes the body of r into v.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// readBody reads the whole body of r.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
}

// num encodes a decimal as a JSON number.
func num(d decimal.Decimal) json.Number { return json.Number(d.String()) }

// amount is a decimal read from a JSON number or string, "1.234,50" included.
type amount struct{ decimal.Decimal }

func (a *amount) UnmarshalJSON(data []byte) error {
	var s json.Number
	if err := json.Unmarshal(data, &s); err != nil {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = json.Number(str)
	}
	d, err := financechat.ParseAmount(string(s))
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	a.Decimal = d
	return nil
}

// warnPersistence reports an unsaved change in the Warning header. It
// returns false for any other error.
func warnPersistence(w http.ResponseWriter, err error) bool {
	var pe *financechat.PersistenceError
	if !errors.As(err, &pe) {
		return false
	}
	w.Header().Set("Warning", fmt.Sprintf("199 - %q", pe.Error()))
	return true
}
