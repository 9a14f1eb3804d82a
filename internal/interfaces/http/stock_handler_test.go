package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loginToken obtiene un JWT válido vía el endpoint de login.
func loginToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"user":"`+testAdminUser+`","password":"`+testAdminPass+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	decodeJSON(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// doAuthed lanza una petición autenticada con un token recién emitido.
func doAuthed(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+loginToken(t, app))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialInvalida(t *testing.T) {
	env := buildEnv(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"user":"admin","password":"incorrecta"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_UsuarioDesconocido(t *testing.T) {
	env := buildEnv(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"user":"otro","password":"`+testAdminPass+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entrada de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStockIn_SumaYRegistraMovimiento(t *testing.T) {
	env := buildEnv(t, false)

	resp := doAuthed(t, env.app, http.MethodPost, "/api/stock/in",
		`{"material_name":"Tela Algodón","quantity":5,"reference":"compra-77"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		MaterialID  string `json:"material_id"`
		NewQuantity string `json:"new_quantity"`
		Low         bool   `json:"low"`
	}
	decodeJSON(t, resp, &out)
	assert.Equal(t, "MAT-001", out.MaterialID)
	assert.Equal(t, "15", out.NewQuantity)
	assert.False(t, out.Low)

	movs := env.store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, "entrada-api", movs[0].Type)
	assert.Equal(t, "compra-77", movs[0].Reference)
}

func TestStockIn_MaterialDesconocido(t *testing.T) {
	env := buildEnv(t, false)

	resp := doAuthed(t, env.app, http.MethodPost, "/api/stock/in",
		`{"material_name":"No Existe","quantity":5}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Code string `json:"code"`
	}
	decodeJSON(t, resp, &out)
	assert.Equal(t, "UNKNOWN_MATERIAL", out.Code)
}

func TestStockIn_CantidadNoPositiva(t *testing.T) {
	env := buildEnv(t, false)

	resp := doAuthed(t, env.app, http.MethodPost, "/api/stock/in",
		`{"material_name":"Tela Algodón","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doAuthed(t, env.app, http.MethodPost, "/api/stock/in",
		`{"material_name":"Tela Algodón","quantity":-3}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// El formulario usa form-urlencoded y registra tipo "entrada".
func TestStockInForm_FormUrlencoded(t *testing.T) {
	env := buildEnv(t, false)

	form := "material_name=" + "Tela+Algod%C3%B3n" + "&quantity=2.5&reference=manual"
	req := httptest.NewRequest(http.MethodPost, "/api/stock/in/form", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+loginToken(t, env.app))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	movs := env.store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, "entrada", movs[0].Type)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetMaterial_Existente(t *testing.T) {
	env := buildEnv(t, false)

	resp := doAuthed(t, env.app, http.MethodGet, "/api/stock/MAT-001", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
	}
	decodeJSON(t, resp, &out)
	assert.Equal(t, "MAT-001", out.ID)
	assert.Equal(t, "Tela Algodón", out.Name)
	assert.Equal(t, "10", out.Quantity)
}

func TestGetMaterial_NoExiste(t *testing.T) {
	env := buildEnv(t, false)

	resp := doAuthed(t, env.app, http.MethodGet, "/api/stock/MAT-404", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListMaterials_FiltroBelowThreshold(t *testing.T) {
	env := buildEnv(t, false)
	seedMaterial(env.store, "MAT-003", "Botón 15mm", "1", 5)

	resp := doAuthed(t, env.app, http.MethodGet, "/api/stock/?below_threshold=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []struct {
		ID  string `json:"id"`
		Low bool   `json:"low"`
	}
	decodeJSON(t, resp, &out)
	require.Len(t, out, 1)
	assert.Equal(t, "MAT-003", out[0].ID)
	assert.True(t, out[0].Low)
}

func TestListMovements_HistorialPorHTTP(t *testing.T) {
	env := buildEnv(t, false)

	resp := doAuthed(t, env.app, http.MethodPost, "/api/stock/in",
		`{"material_name":"Tela Algodón","quantity":5,"reference":"compra-77"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doAuthed(t, env.app, http.MethodGet, "/api/stock/MAT-001/movements", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []struct {
		Delta     string `json:"delta"`
		Type      string `json:"type"`
		Reference string `json:"reference"`
	}
	decodeJSON(t, resp, &out)
	require.Len(t, out, 1)
	assert.Equal(t, "5", out[0].Delta)
	assert.Equal(t, "entrada-api", out[0].Type)
	assert.Equal(t, "compra-77", out[0].Reference)

	resp = doAuthed(t, env.app, http.MethodGet, "/api/stock/MAT-404/movements", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListMaterialNames(t *testing.T) {
	env := buildEnv(t, false)

	resp := doAuthed(t, env.app, http.MethodGet, "/api/stock/materials", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var names []string
	decodeJSON(t, resp, &names)
	assert.Equal(t, []string{"Hilo Poliéster", "Tela Algodón"}, names)
}

// Sin header Authorization las rutas del panel quedan fuera de alcance.
func TestRutasProtegidas_SinToken(t *testing.T) {
	env := buildEnv(t, false)

	for _, target := range []string{"/api/stock/", "/api/stock/MAT-001", "/api/reports/generate"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "ruta %s", target)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateReports_DevuelveNombres(t *testing.T) {
	env := buildEnv(t, false)

	resp := doAuthed(t, env.app, http.MethodGet, "/api/reports/generate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Excel   string `json:"excel"`
		Chart   string `json:"chart"`
		Resumen string `json:"resumen"`
	}
	decodeJSON(t, resp, &out)
	assert.True(t, strings.HasPrefix(out.Excel, "stock_report_"))
	assert.True(t, strings.HasSuffix(out.Excel, ".xlsx"))
	assert.True(t, strings.HasPrefix(out.Chart, "stock_chart_"))
	assert.True(t, strings.HasSuffix(out.Chart, ".png"))
	assert.True(t, strings.HasPrefix(out.Resumen, "stock_resumen_"))
	assert.True(t, strings.HasSuffix(out.Resumen, ".pdf"))
}
