package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/financechat/chat"
)

// do sends a request to h and returns the response.
func do(t *testing.T, h http.Handler, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

// decode reads the JSON body of resp.
func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	return v
}

func newTestServer(t *testing.T) (*Server, *chat.Session) {
	t.Helper()
	session := chat.NewSession(nil, nil, nil)
	for _, msg := range []string{
		"Recebi R$ 3000 de salário no Nubank",
		"Gastei R$ 50 no mercado do Itaú",
		"Investi 1000 reais em ações no Inter",
	} {
		if reply := session.Handle(context.Background(), msg); reply.Transaction == nil {
			t.Fatalf("Handle(%q) = %q", msg, reply.Text)
		}
	}
	return New(session, Config{}, nil), session
}

func TestServer_Routes(t *testing.T) {
	srv, _ := newTestServer(t)
	testCases := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		contains   []string
	}{
		{name: "message", method: "POST", path: "/api/messages", body: `{"text":"Paguei 20 reais de café"}`, wantStatus: 201, contains: []string{`"text":"✅ Gasto de R$ 20,00 (Café)`, `"kind":"gasto"`}},
		{name: "message not understood", method: "POST", path: "/api/messages", body: `{"text":"oi"}`, wantStatus: 200, contains: []string{"Não consegui entender a transação"}},
		{name: "command", method: "POST", path: "/api/messages", body: `{"text":"/saldo"}`, wantStatus: 200, contains: []string{"Saldo atual"}},
		{name: "bad message", method: "POST", path: "/api/messages", body: `{`, wantStatus: 400},
		{name: "transactions", method: "GET", path: "/api/transactions", wantStatus: 200, contains: []string{`"amount":3000`, `"sourceAccount":"Itaú"`}},
		{name: "recent transactions", method: "GET", path: "/api/transactions?recent=1", wantStatus: 200, contains: []string{`"description":"Café"`}},
		{name: "bad recent", method: "GET", path: "/api/transactions?recent=x", wantStatus: 400},
		{name: "investments", method: "GET", path: "/api/investments", wantStatus: 200, contains: []string{`"type":"acoes"`, `"gain":0`}},
		{name: "accounts", method: "GET", path: "/api/accounts", wantStatus: 200, contains: []string{`"custom":[]`, "Nubank"}},
		{name: "summary", method: "GET", path: "/api/summary", wantStatus: 200, contains: []string{`"income":3000`, `"expenses":70`, `"balance":2930`, `"totalBalance":1930`}},
		{name: "balances", method: "GET", path: "/api/balances", wantStatus: 200, contains: []string{`{"name":"Inter","value":-1000}`, `"total":1930`}},
		{name: "tips", method: "GET", path: "/api/tips", wantStatus: 200, contains: []string{`"level":"praise"`}},
		{name: "chart names", method: "GET", path: "/api/charts", wantStatus: 200, contains: []string{"portfolio-type"}},
		{name: "chart", method: "GET", path: "/api/charts/portfolio-type", wantStatus: 200, contains: []string{`{"labels":["Ações"],"values":[1000]}`}},
		{name: "unknown chart", method: "GET", path: "/api/charts/pie", wantStatus: 404},
		{name: "export", method: "GET", path: "/api/export/transactions.csv", wantStatus: 200, contains: []string{"id,kind,amount", "Salário"}},
		{name: "unknown export", method: "GET", path: "/api/export/all.xls", wantStatus: 404},
		{name: "state", method: "GET", path: "/api/state", wantStatus: 200, contains: []string{`"transactions":[`, `"customAccounts":[]`}},
		{name: "not found", method: "GET", path: "/nope", wantStatus: 404},
	}
	// cases share the server, the first message is counted by the later ones.
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, srv, tc.method, tc.path, tc.body)
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("%s %s status = %d, want %d: %s", tc.method, tc.path, resp.StatusCode, tc.wantStatus, body)
			}
			for _, want := range tc.contains {
				if !strings.Contains(string(body), want) {
					t.Errorf("%s %s body is missing %q:\n%s", tc.method, tc.path, want, body)
				}
			}
			if resp.Header.Get(requestIDHeader) == "" {
				t.Errorf("%s %s has no request id", tc.method, tc.path)
			}
		})
	}
}

func TestServer_Investments(t *testing.T) {
	srv, session := newTestServer(t)

	resp := do(t, srv, "POST", "/api/investments", `{"type":"tesouro-direto","amount":"1.500,00","account":"Caixa"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/investments status = %d, want 201", resp.StatusCode)
	}
	created := decode[struct {
		Investment struct {
			ID      string `json:"id"`
			Account string `json:"account"`
		} `json:"investment"`
	}](t, resp)
	if created.Investment.Account != "Caixa" {
		t.Errorf("created investment account = %q, want Caixa", created.Investment.Account)
	}

	resp = do(t, srv, "PUT", "/api/investments/"+created.Investment.ID, `{"currentValue":1650}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /api/investments/{id} status = %d, want 200", resp.StatusCode)
	}
	updated := decode[map[string]any](t, resp)
	if updated["gainPercent"] != 10.0 {
		t.Errorf("updated gainPercent = %v, want 10", updated["gainPercent"])
	}

	for _, tc := range []struct {
		method, path, body string
		want               int
	}{
		{"PUT", "/api/investments/nope", `{"currentValue":1}`, 404},
		{"PUT", "/api/investments/" + created.Investment.ID, `{"currentValue":-1}`, 400},
		{"POST", "/api/investments", `{"type":"imoveis","amount":1}`, 400},
		{"POST", "/api/investments", `{"type":"acoes","amount":0}`, 400},
	} {
		if resp := do(t, srv, tc.method, tc.path, tc.body); resp.StatusCode != tc.want {
			t.Errorf("%s %s %s status = %d, want %d", tc.method, tc.path, tc.body, resp.StatusCode, tc.want)
		}
	}
	if n := len(session.Snapshot().Investments()); n != 2 {
		t.Errorf("session has %d investments, want 2", n)
	}
}

func TestServer_AccountsImportState(t *testing.T) {
	srv, session := newTestServer(t)

	if resp := do(t, srv, "POST", "/api/accounts", `{"name":"C6 Bank"}`); resp.StatusCode != http.StatusCreated {
		t.Errorf("POST /api/accounts status = %d, want 201", resp.StatusCode)
	}
	if resp := do(t, srv, "POST", "/api/accounts", `{"name":"C6 Bank"}`); resp.StatusCode != http.StatusConflict {
		t.Errorf("POST /api/accounts twice status = %d, want 409", resp.StatusCode)
	}

	resp := do(t, srv, "POST", "/api/import/transactions", "tipo,valor,banco\ngasto,10,C6 Bank\nbonus,1,Caixa\n")
	report := decode[struct {
		Imported int `json:"imported"`
		Skipped  []struct {
			Line int `json:"line"`
		} `json:"skipped"`
	}](t, resp)
	if report.Imported != 1 || len(report.Skipped) != 1 || report.Skipped[0].Line != 3 {
		t.Errorf("import report = %+v, want 1 imported and line 3 skipped", report)
	}
	if resp := do(t, srv, "POST", "/api/import/transactions", "foo\n"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("import without header status = %d, want 400", resp.StatusCode)
	}

	state := do(t, srv, "GET", "/api/state", "")
	blob, _ := io.ReadAll(state.Body)
	if resp := do(t, srv, "DELETE", "/api/state", ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE /api/state status = %d, want 204", resp.StatusCode)
	}
	if session.Snapshot().Len() != 0 {
		t.Fatal("DELETE /api/state did not reset the state")
	}
	if resp := do(t, srv, "PUT", "/api/state", "{broken"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("PUT /api/state with broken JSON status = %d, want 400", resp.StatusCode)
	}
	if resp := do(t, srv, "PUT", "/api/state", string(blob)); resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /api/state status = %d, want 200", resp.StatusCode)
	}
	if got := session.Snapshot(); got.Len() != 4 || len(got.CustomAccounts()) != 1 {
		t.Errorf("restored state = %d transactions and %v, want 4 and [C6 Bank]", got.Len(), got.CustomAccounts())
	}
}

func TestServer_RateLimit(t *testing.T) {
	session := chat.NewSession(nil, nil, nil)
	srv := New(session, Config{RateLimit: 0.001, RateBurst: 2}, nil)
	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, srv, "GET", "/api/tips", "").StatusCode)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}
}

func TestServer_RequestID(t *testing.T) {
	srv := New(chat.NewSession(nil, nil, nil), Config{}, nil)
	const id = "0190a4b4-6d1c-7cc3-a0c2-0c6f5e3c3f8e"
	req := httptest.NewRequest("GET", "/api/tips", nil)
	req.Header.Set(requestIDHeader, id)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
}
