package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

// run ejecuta el CLI en modo demo (sin endpoint) con latencia mínima.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := execute(t, "", &out, &out, args...)
	return out.String(), err
}

func execute(t *testing.T, endpoint string, stdout, stderr io.Writer, args ...string) error {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_ENDPOINT", endpoint)
	t.Setenv("TAILORFLOW_SETTINGS", filepath.Join(dir, "settings.yaml"))
	t.Setenv("FALLBACK_LATENCY_MS", "1")
	t.Setenv("TAILORFLOW_EMAIL", "")
	t.Setenv("TAILORFLOW_PASSWORD", "")

	cmd := rootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

// storeRechazaAltas record store que responde a lecturas y login pero falla createOrder.
func storeRechazaAltas(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env dto.Envelope
		_ = json.NewDecoder(r.Body).Decode(&env)
		w.Header().Set("Content-Type", "application/json")
		switch env.Action {
		case dto.ActionLogin:
			_, _ = io.WriteString(w, `{"success":true,"user":{"id":"u1","name":"Ana","email":"ana@tailor.com","role":"admin"}}`)
		case dto.ActionGetCustomers:
			_, _ = io.WriteString(w, `{"success":true,"data":[{"id":"c1","name":"Meera Iyer","phone":"555-0101","savedMeasurements":{},"totalOrders":0,"lastVisit":"2026-10-01"}]}`)
		case dto.ActionCreateOrder:
			_, _ = io.WriteString(w, `{"error":"Exception: sheet locked"}`)
		default:
			_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCLI_OrdersListDemo(t *testing.T) {
	out, err := run(t, "orders", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Rahul Sharma")
	assert.Contains(t, out, "Priya Patel")
	assert.Contains(t, out, "synced")
}

func TestCLI_OrdersListFiltraPorEstado(t *testing.T) {
	out, err := run(t, "orders", "list", "--status", "Trial Ready")
	require.NoError(t, err)
	assert.Contains(t, out, "Blouse")
	assert.NotContains(t, out, "Shirt")

	_, err = run(t, "orders", "list", "--status", "Shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCLI_OrdersAdd(t *testing.T) {
	out, err := run(t, "orders", "add", "--customer", "rahul", "--garment", "Pant",
		"--price", "900", "--measure", "Waist=32", "--due", "2026-11-01")
	require.NoError(t, err)
	assert.Contains(t, out, "created for Rahul Sharma")
	assert.NotContains(t, out, "warning")
}

func TestCLI_OrdersAdd_AvisaCuandoElBackendNoGuarda(t *testing.T) {
	srv := storeRechazaAltas(t)

	var stdout, stderr bytes.Buffer
	err := execute(t, srv.URL, &stdout, &stderr, "orders", "add",
		"--email", "ana@tailor.com", "--password", "secret",
		"--customer", "c1", "--garment", "Shirt", "--price", "1200")
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "created for Meera Iyer")
	assert.NotContains(t, stdout.String(), "warning")
	assert.Contains(t, stderr.String(), "warning: Failed to save order to backend.")
	assert.Contains(t, stderr.String(), "1 order(s) differ from the backend")
}

func TestCLI_CredencialesIncorrectas(t *testing.T) {
	_, err := run(t, "customers", "list", "--email", "demo@tailor.com", "--password", "nope")
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestCLI_Dashboard(t *testing.T) {
	out, err := run(t, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Active orders")
	assert.Contains(t, out, "Week 4")
}

func TestCLI_ConfigSetEndpoint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	t.Setenv("TAILORFLOW_SETTINGS", path)
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "set-endpoint", "https://script.example.com/exec"})
	require.NoError(t, cmd.Execute())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "https://script.example.com/exec")

	cmd = rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "set-endpoint", "not a url"})
	assert.Error(t, cmd.Execute())
}

func TestApplyMeasures(t *testing.T) {
	base := entity.DefaultMeasurements(entity.GarmentShirt)
	ms, err := applyMeasures(base, []string{"neck=15.5", "Cuff=loose", "Chest = 40"}, entity.UnitCentimetres)
	require.NoError(t, err)

	byLabel := map[string]entity.Measurement{}
	for _, m := range ms {
		byLabel[m.Label] = m
	}
	f, ok := byLabel["Neck"].Value.Float()
	require.True(t, ok)
	assert.Equal(t, 15.5, f)
	assert.Equal(t, entity.UnitCentimetres, byLabel["Neck"].Unit)
	assert.Equal(t, "loose", byLabel["Cuff"].Value.String())
	assert.True(t, byLabel["Chest"].Value.IsNumber())

	_, err = applyMeasures(base, []string{"Neck"}, entity.UnitInches)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = applyMeasures(base, nil, "mm")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyMeasures_RechazaValoresNoFinitos(t *testing.T) {
	for _, spec := range []string{"Neck=NaN", "Chest=inf", "Chest=-Inf", "Sleeve=1e400"} {
		_, err := applyMeasures(entity.DefaultMeasurements(entity.GarmentShirt), []string{spec}, entity.UnitInches)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, spec)
	}
}

func TestParseMoney(t *testing.T) {
	d, err := parseMoney("price", "1250.50")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1250.5").Equal(d))

	d, err = parseMoney("price", "")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseMoney("advance", "-3")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
