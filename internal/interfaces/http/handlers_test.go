package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Equipos-api/internal/application/auth"
	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/application/labels"
	"github.com/jhoicas/Equipos-api/internal/application/report"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/excel"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/memory"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Equipos-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app        *fiber.App
	svc        *inventory.Service
	adminToken string
	userToken  string
	category   entity.Category
	warehouse  entity.Location
	hotel      entity.Location
}

func newAPIFixture(t *testing.T, loginRate int) *apiFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	svc := inventory.NewService(inventory.Deps{
		TxRunner:   memory.NewTxRunner(store),
		Products:   store.Products(),
		Movements:  store.Movements(),
		Categories: store.Categories(),
		Locations:  store.Locations(),
	})
	require.NoError(t, svc.Load(ctx))

	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	_, err := authUC.EnsureAdmin(ctx, "admin", "secreto1")
	require.NoError(t, err)
	_, err = authUC.CreateUser(ctx, dto.CreateUserRequest{Username: "depocu", Password: "secreto2", ConfirmPassword: "secreto2"})
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:             authUC,
		Inventory:          svc,
		ReportUC:           report.NewReportUseCase(svc, nil),
		LabelsUC:           labels.NewLabelsUseCase(svc, pdf.NewLabelGenerator("test")),
		JWTSecret:          testJWTSecret,
		LoginRatePerMinute: loginRate,
	})

	f := &apiFixture{app: app, svc: svc}
	f.adminToken = f.login(t, "admin", "secreto1")
	f.userToken = f.login(t, "depocu", "secreto2")

	cat, err := svc.AddCategory(ctx, "Projeksiyon")
	require.NoError(t, err)
	f.category = *cat
	wh, err := svc.AddLocation(ctx, "Ana Depo", "")
	require.NoError(t, err)
	f.warehouse = *wh
	hotel, err := svc.AddLocation(ctx, "Otel Kervansaray", "")
	require.NoError(t, err)
	f.hotel = *hotel
	return f
}

func (f *apiFixture) login(t *testing.T, username, password string) string {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

// do envía una petición JSON y devuelve la respuesta con el cuerpo ya leído.
func (f *apiFixture) do(t *testing.T, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, body
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

// createProducts da de alta qty unidades vía API.
func (f *apiFixture) createProducts(t *testing.T, name string, qty int) []dto.ProductResponse {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/products", f.adminToken, dto.CreateProductRequest{
		Name:       name,
		CategoryID: f.category.ID,
		LocationID: f.warehouse.ID,
		Quantity:   qty,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decode[[]dto.ProductResponse](t, body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesInvalidas_Retorna401(t *testing.T) {
	f := newAPIFixture(t, 0)
	resp, body := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "UNAUTHORIZED")
}

func TestLogin_LimitePorMinuto_Retorna429(t *testing.T) {
	// el fixture ya consumió 2 logins exitosos
	f := newAPIFixture(t, 3)
	resp, _ := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "el tercer intento todavía entra")

	resp, body := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "secreto1"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, string(body), "RATE_LIMITED")
}

func TestMe_DevuelveUsuarioDelToken(t *testing.T) {
	f := newAPIFixture(t, 0)
	resp, body := f.do(t, http.MethodGet, "/api/auth/me", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, body)
	assert.Equal(t, "depocu", me.Username)
	assert.Equal(t, entity.RoleUser, me.Role)
}

func TestUsers_SoloAdmin(t *testing.T) {
	f := newAPIFixture(t, 0)
	resp, _ := f.do(t, http.MethodGet, "/api/users", f.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, "/api/users", f.adminToken, dto.CreateUserRequest{
		Username: "teknisyen", Password: "123456", ConfirmPassword: "123456",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodPost, "/api/users", f.adminToken, dto.CreateUserRequest{
		Username: "teknisyen", Password: "123456", ConfirmPassword: "123456",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodGet, "/api/users", f.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.UserResponse](t, body), 3)
}

func TestSinToken_Retorna401(t *testing.T) {
	f := newAPIFixture(t, 0)
	resp, body := f.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCategories_CrearDuplicadoYBorrar(t *testing.T) {
	f := newAPIFixture(t, 0)

	resp, _ := f.do(t, http.MethodPost, "/api/categories", f.userToken, dto.CreateCategoryRequest{Name: "Ses"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "user no crea categorías")

	resp, body := f.do(t, http.MethodPost, "/api/categories", f.adminToken, dto.CreateCategoryRequest{Name: "Ses"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decode[dto.CategoryResponse](t, body)

	resp, _ = f.do(t, http.MethodPost, "/api/categories", f.adminToken, dto.CreateCategoryRequest{Name: "SES"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "nombres únicos sin distinguir mayúsculas")

	resp, body = f.do(t, http.MethodPost, "/api/categories", f.adminToken, dto.CreateCategoryRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")

	resp, _ = f.do(t, http.MethodDelete, "/api/categories/"+created.ID, f.adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/categories", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.CategoryResponse](t, body), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CrearVariasUnidades(t *testing.T) {
	f := newAPIFixture(t, 0)
	created := f.createProducts(t, "Projeksiyon Epson", 3)
	require.Len(t, created, 3)

	seen := map[string]bool{}
	for _, p := range created {
		assert.Equal(t, 1, p.Quantity)
		assert.Equal(t, "Projeksiyon", p.CategoryName)
		assert.Equal(t, "Ana Depo", p.LocationName)
		assert.False(t, seen[p.Barcode], "códigos de barras únicos")
		seen[p.Barcode] = true
	}

	resp, body := f.do(t, http.MethodGet, "/api/products/barcode/"+created[1].Barcode, f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created[1].ID, decode[dto.ProductResponse](t, body).ID)

	resp, _ = f.do(t, http.MethodGet, "/api/products/barcode/PS00000000000000", f.userToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_ListadoPaginado(t *testing.T) {
	f := newAPIFixture(t, 0)
	f.createProducts(t, "Mikrofon", 3)

	resp, body := f.do(t, http.MethodGet, "/api/products?limit=2&offset=0", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ProductListResponse](t, body)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 3, list.Page.Total)

	resp, body = f.do(t, http.MethodGet, "/api/products?limit=2&offset=2", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.ProductListResponse](t, body).Items, 1)

	resp, body = f.do(t, http.MethodGet, "/api/products?search=zzz", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.ProductListResponse](t, body).Items)
}

func TestProducts_BorradoEnLote(t *testing.T) {
	f := newAPIFixture(t, 0)
	created := f.createProducts(t, "Kablo", 2)

	resp, _ := f.do(t, http.MethodPost, "/api/products/bulk-delete", f.userToken, dto.IDsRequest{IDs: []string{created[0].ID, "no-existe"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "un id desconocido aborta todo")
	assert.Len(t, f.svc.ListProducts(inventory.ProductFilter{}), 2)

	resp, _ = f.do(t, http.MethodPost, "/api/products/bulk-delete", f.userToken, dto.IDsRequest{IDs: []string{created[0].ID, created[1].ID}})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, f.svc.ListProducts(inventory.ProductFilter{}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_AgregarEditarEliminar(t *testing.T) {
	f := newAPIFixture(t, 0)
	p := f.createProducts(t, "Hoparlör", 1)[0]

	resp, body := f.do(t, http.MethodPost, "/api/movements", f.userToken, dto.CreateMovementRequest{
		ProductID: p.ID, Type: entity.MovementTypeOut, Quantity: 1, LocationID: f.hotel.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	res := decode[dto.MovementResultResponse](t, body)
	assert.Equal(t, 0, res.Product.Quantity)
	assert.Equal(t, entity.StatusDepleted, res.Product.Status)
	assert.Equal(t, "Otel Kervansaray", res.Product.LocationName)
	assert.Equal(t, "depocu", res.Movement.Username)

	resp, body = f.do(t, http.MethodGet, "/api/warehouse", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.ProductListResponse](t, body).Items, "sin existencias no aparece en bodega")

	in, qty := entity.MovementTypeIn, 2
	resp, body = f.do(t, http.MethodPut, "/api/movements/"+res.Movement.ID, f.userToken, dto.UpdateMovementRequest{Type: &in, Quantity: &qty})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decode[dto.MovementResultResponse](t, body)
	assert.Equal(t, 3, updated.Product.Quantity, "1 + revertir salida de 1 + entrada de 2")
	assert.Equal(t, entity.StatusInStock, updated.Product.Status)

	resp, _ = f.do(t, http.MethodDelete, "/api/movements/"+res.Movement.ID, f.userToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	got, err := f.svc.Product(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)

	resp, body = f.do(t, http.MethodGet, "/api/products/"+p.ID+"/movements", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.MovementListResponse](t, body).Items)
}

func TestMovements_TipoInvalido_Retorna400(t *testing.T) {
	f := newAPIFixture(t, 0)
	p := f.createProducts(t, "Perde", 1)[0]
	resp, body := f.do(t, http.MethodPost, "/api/movements", f.userToken, map[string]any{
		"product_id": p.ID, "type": "Transfer", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")
}

func TestMovements_LoteYBorradoEnLote(t *testing.T) {
	f := newAPIFixture(t, 0)
	created := f.createProducts(t, "Sehpa", 2)
	ids := []string{created[0].ID, created[1].ID}

	resp, body := f.do(t, http.MethodPost, "/api/movements/bulk", f.userToken, dto.BulkMovementRequest{
		ProductIDs: ids, Type: entity.MovementTypeOut, LocationID: f.hotel.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	results := decode[[]dto.MovementResultResponse](t, body)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, 0, r.Product.Quantity, "cantidad por defecto 1")
		assert.Equal(t, f.hotel.ID, r.Product.LocationID)
	}

	resp, body = f.do(t, http.MethodGet, "/api/movements?limit=10", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.MovementListResponse](t, body).Page.Total)

	resp, _ = f.do(t, http.MethodPost, "/api/movements/bulk-delete", f.userToken, dto.IDsRequest{
		IDs: []string{results[0].Movement.ID, results[1].Movement.ID},
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	for _, id := range ids {
		p, err := f.svc.Product(id)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Quantity)
		assert.Equal(t, entity.StatusInStock, p.Status)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Excel, etiquetas, reportes y auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_ExportarExcel(t *testing.T) {
	f := newAPIFixture(t, 0)
	f.createProducts(t, "Projeksiyon Epson", 2)

	resp, body := f.do(t, http.MethodGet, "/api/products/export", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, excel.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "urunler_")

	wb, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	rows, err := wb.GetRows(wb.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 3, "encabezado + 2 productos")
}

func TestProducts_ImportarExcel(t *testing.T) {
	f := newAPIFixture(t, 0)

	wb := excelize.NewFile()
	rows := [][]any{
		{"Ürün Adı", "Kategori", "Lokasyon", "Miktar"},
		{"Projeksiyon Perdesi", "projeksiyon", "Ana Depo", 2},
		{"Bilinmeyen", "Yok Böyle Kategori", "", 1},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &r))
	}
	xlsx, err := wb.WriteToBuffer()
	require.NoError(t, err)
	_ = wb.Close()

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "urunler.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/import", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.adminToken)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	out := decode[dto.ImportResponse](t, body)
	assert.Equal(t, 2, out.Rows)
	assert.Equal(t, 2, out.Created)
	assert.Len(t, out.Barcodes, 2)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, 3, out.Errors[0].Row)
}

func TestBarcodes_GenerarYEtiquetas(t *testing.T) {
	f := newAPIFixture(t, 0)
	p := f.createProducts(t, "Projeksiyon Epson", 1)[0]

	resp, body := f.do(t, http.MethodPost, "/api/barcodes", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Regexp(t, `^PS\d{14}$`, decode[dto.BarcodeResponse](t, body).Barcode)

	resp, body = f.do(t, http.MethodPost, "/api/barcodes/labels", f.userToken, dto.LabelsRequest{ProductIDs: []string{p.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, _ = f.do(t, http.MethodPost, "/api/barcodes/labels", f.userToken, dto.LabelsRequest{ProductIDs: []string{"no-existe"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReports_Resumen(t *testing.T) {
	f := newAPIFixture(t, 0)
	created := f.createProducts(t, "Mikser", 2)
	resp, body := f.do(t, http.MethodPost, "/api/movements", f.userToken, dto.CreateMovementRequest{
		ProductID: created[0].ID, Type: entity.MovementTypeOut, Quantity: 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodGet, "/api/reports/summary", f.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[dto.ReportSummaryDTO](t, body)
	assert.Equal(t, 2, summary.TotalProducts)
	assert.Equal(t, 1, summary.TotalUnits)
	assert.Equal(t, 1, summary.Movements.OutUnits)
}

func TestInventory_ReconcileDetectaEdicionManual(t *testing.T) {
	f := newAPIFixture(t, 0)
	p := f.createProducts(t, "Kürsü", 1)[0]

	resp, _ := f.do(t, http.MethodPost, "/api/inventory/reconcile", f.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	qty := 5
	resp, body := f.do(t, http.MethodPut, "/api/products/"+p.ID, f.userToken, dto.UpdateProductRequest{Quantity: &qty})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodPost, "/api/inventory/reconcile", f.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	audit := decode[dto.AuditReportDTO](t, body)
	require.Len(t, audit.Drifts, 1)
	assert.Equal(t, p.ID, audit.Drifts[0].ProductID)
	assert.Equal(t, 4, audit.Drifts[0].Diff, fmt.Sprintf("%+v", audit.Drifts[0]))
}
