package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/renderer"
)

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reply := s.session.Handle(r.Context(), req.Text)
	status := http.StatusOK
	if reply.Transaction != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, reply)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.session.Snapshot().Transactions()
	if v := r.URL.Query().Get("recent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid recent %q", v))
			return
		}
		txs = financechat.Recent(txs, n)
	}
	if txs == nil {
		txs = []financechat.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

// investmentView is an investment with its performance.
type investmentView struct {
	inv  financechat.Investment
	perf financechat.Performance
}

func newInvestmentView(inv financechat.Investment) investmentView {
	return investmentView{inv: inv, perf: financechat.InvestmentPerformance(inv)}
}

func (v investmentView) MarshalJSON() ([]byte, error) {
	inv, err := json.Marshal(v.inv)
	if err != nil {
		return nil, err
	}
	perf, err := json.Marshal(struct {
		Gain        json.Number `json:"gain"`
		GainPercent float64     `json:"gainPercent"`
	}{num(v.perf.Gain), float64(v.perf.GainPercent)})
	if err != nil {
		return nil, err
	}
	// merge the two objects.
	return append(append(inv[:len(inv)-1], ','), perf[1:]...), nil
}

func (s *Server) handleInvestments(w http.ResponseWriter, r *http.Request) {
	invs := s.session.Snapshot().Investments()
	views := make([]investmentView, 0, len(invs))
	for _, inv := range invs {
		views = append(views, newInvestmentView(inv))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleInvest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type    string `json:"type"`
		Amount  amount `json:"amount"`
		Account string `json:"account"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	typ, err := financechat.ParseInvestmentType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, inv, err := s.session.Invest(r.Context(), typ, req.Amount.Decimal, financechat.Sanitize(req.Account))
	if err != nil && !warnPersistence(w, err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"transaction": tx,
		"investment":  newInvestmentView(inv),
	})
}

func (s *Server) handleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentValue amount `json:"currentValue"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	inv, err := s.session.UpdateInvestment(r.Context(), chi.URLParam(r, "id"), req.CurrentValue.Decimal)
	var nf *financechat.NotFoundError
	switch {
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil && !warnPersistence(w, err):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newInvestmentView(inv))
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	st := s.session.Snapshot()
	writeJSON(w, http.StatusOK, map[string][]string{
		"accounts": st.Accounts(),
		"custom":   nonNil(st.CustomAccounts()),
	})
}

func (s *Server) handleAddAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := financechat.Sanitize(req.Name)
	added, err := s.session.AddAccount(r.Context(), name)
	if !added {
		writeError(w, http.StatusConflict, fmt.Sprintf("account %q is empty or already exists", name))
		return
	}
	warnPersistence(w, err)
	writeJSON(w, http.StatusCreated, map[string][]string{"accounts": s.session.Accounts()})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	st := s.session.Snapshot()
	sum := financechat.Summarize(st.Transactions())
	invs := st.Investments()
	perf := financechat.PortfolioPerformance(invs)
	writeJSON(w, http.StatusOK, map[string]any{
		"income":               num(sum.Income),
		"expenses":             num(sum.Expenses),
		"balance":              num(sum.Balance),
		"invested":             num(sum.Invested),
		"transfers":            num(sum.Transfers),
		"count":                sum.Count,
		"totalBalance":         num(financechat.TotalBalance(st.Transactions())),
		"portfolioValue":       num(financechat.PortfolioValue(invs)),
		"portfolioGain":        num(perf.Gain),
		"portfolioGainPercent": float64(perf.GainPercent),
	})
}

// entry is a named amount.
type entry struct {
	Name  string      `json:"name"`
	Value json.Number `json:"value"`
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	balances := financechat.BalancesByAccount(s.session.Snapshot().Transactions())
	entries := make([]entry, 0, len(balances))
	for _, e := range balances {
		entries = append(entries, entry{Name: e.Name, Value: num(e.Value)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": entries,
		"total":    num(balances.Total()),
	})
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	type tip struct {
		Level   financechat.TipLevel `json:"level"`
		Message string               `json:"message"`
	}
	tips := financechat.FinancialTips(s.session.Snapshot().Transactions())
	out := make([]tip, 0, len(tips))
	for _, t := range tips {
		out = append(out, tip{Level: t.Level, Message: t.Message})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChartNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, renderer.ChartNames())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	query, _, ok := renderer.Chart(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown chart %q", name))
		return
	}
	series := query(s.session.Snapshot())
	if series.Labels == nil {
		series = renderer.Series{Labels: []string{}, Values: []float64{}}
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	st := s.session.Snapshot()
	var buf bytes.Buffer
	var err error
	switch file := chi.URLParam(r, "file"); file {
	case "transactions.csv":
		err = financechat.ExportTransactions(&buf, st.Transactions())
	case "investments.csv":
		err = financechat.ExportInvestments(&buf, st.Investments())
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown export %q", file))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", chi.URLParam(r, "file")))
	w.Write(buf.Bytes())
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBody)
	var report financechat.ImportReport
	var err error
	switch what := chi.URLParam(r, "what"); what {
	case "transactions":
		report, err = s.session.ImportTransactions(r.Context(), body)
	case "investments":
		report, err = s.session.ImportInvestments(r.Context(), body)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown import %q", what))
		return
	}
	if err != nil && !warnPersistence(w, err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	type skipped struct {
		Line  int    `json:"line"`
		Error string `json:"error"`
	}
	out := make([]skipped, 0, len(report.Skipped))
	for _, e := range report.Skipped {
		out = append(out, skipped{Line: e.Line, Error: e.Err.Error()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"imported": report.Imported, "skipped": out})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	data, err := financechat.EncodeState(s.session.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(data)
}

func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !json.Valid(data) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	state, decodeErr := financechat.DecodeState(data)
	if err := s.session.Replace(r.Context(), state); err != nil && !warnPersistence(w, err) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]any{
		"transactions": state.Len(),
		"investments":  len(state.Investments()),
	}
	if decodeErr != nil {
		resp["dropped"] = decodeErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteState(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(r.Context()); err != nil && !warnPersistence(w, err) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
