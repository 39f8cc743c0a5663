package httpadapter

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/changemaker/internal/cache"
	"svw.info/changemaker/internal/machine"
	"svw.info/changemaker/internal/solver"
	"svw.info/changemaker/internal/usecase"
	"svw.info/changemaker/internal/validator"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := cache.NewSolver(solver.NewBoundedSolver(solver.Limits{}), 16)
	require.NoError(t, err)
	m, err := machine.New(s, validator.New(0, 0), machine.DefaultState())
	require.NoError(t, err)
	uc := usecase.NewService(s, validator.New(0, 0), m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	New(uc).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestChangeSuccess(t *testing.T) {
	srv := newServer(t)
	resp, out := post(t, srv, "/api/change", `{"cashRegister":[{"denom":10,"count":1},{"denom":5,"count":2}],"paymentAmount":20}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, []any{5.0, 5.0, 10.0}, out["change"])
	assert.Equal(t, map[string]any{"5": 2.0, "10": 1.0}, out["coinUsage"])
	assert.Nil(t, out["debug"])
}

func TestChangeZeroAmountReturnsEmptyList(t *testing.T) {
	srv := newServer(t)
	resp, out := post(t, srv, "/api/change", `{"cashRegister":[{"denom":1,"count":100}],"paymentAmount":0}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, out["change"])
	assert.Equal(t, []any{map[string]any{"denom": 1.0, "count": 100.0}}, out["updatedRegister"])
}

func TestChangeFailureCarriesDebug(t *testing.T) {
	srv := newServer(t)
	resp, out := post(t, srv, "/api/change", `{"cashRegister":[{"denom":5,"count":1},{"denom":20,"count":1}],"paymentAmount":10,"debug":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "NoExactSolution", out["failure"])
	assert.NotContains(t, out, "change")
	dbg, ok := out["debug"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, dbg["dpTablePreview"], 11)
	assert.NotEmpty(t, dbg["trace"])
}

func TestChangeRejectsBadRequests(t *testing.T) {
	srv := newServer(t)

	resp, out := post(t, srv, "/api/change", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON payload.", out["message"])

	resp, out = post(t, srv, "/api/change", `{"cashRegister":[],"paymentAmount":2000000}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out["message"], "cashRegister: At least one denomination is required")
	assert.Contains(t, out["message"], "paymentAmount: Payment amount too large")

	get, err := http.Get(srv.URL + "/api/change")
	require.NoError(t, err)
	get.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, get.StatusCode)
}

func TestPurchaseFlow(t *testing.T) {
	srv := newServer(t)

	resp, out := post(t, srv, "/api/purchase", `{"productId":"paracetamol","paymentAmount":500}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, out)
	p := out["purchase"].(map[string]any)
	assert.Equal(t, 101.0, p["changeDue"])
	assert.Equal(t, 100.0, p["roundedChange"])

	resp, _ = post(t, srv, "/api/purchase", `{"productId":"nope","paymentAmount":500}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = post(t, srv, "/api/purchase", `{"productId":"paracetamol","paymentAmount":399}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, out = post(t, srv, "/api/purchase", `{"productId":"paracetamol","paymentAmount":2000000}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out["message"], "Payment amount too large")

	get, err := http.Get(srv.URL + "/api/products")
	require.NoError(t, err)
	defer get.Body.Close()
	var products productsResp
	require.NoError(t, json.NewDecoder(get.Body).Decode(&products))
	for _, pr := range products.Products {
		if pr.ID == "paracetamol" {
			assert.Equal(t, 19, pr.Stock)
		}
	}
}

func TestExportImport(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/api/export")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(body), "# Coin Register (denom,count)\n5,20\n"))

	imp, err := http.Post(srv.URL+"/api/import", "text/plain", strings.NewReader("# Coin Register\n25,4\n# Products\ngum,Gum,75,3\n"))
	require.NoError(t, err)
	var st machineResp
	require.NoError(t, json.NewDecoder(imp.Body).Decode(&st))
	imp.Body.Close()
	assert.Equal(t, http.StatusOK, imp.StatusCode)
	assert.Equal(t, 100, st.Balance)

	bad, err := http.Post(srv.URL+"/api/import", "text/plain", strings.NewReader("# Coin Register\n25\n"))
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}
