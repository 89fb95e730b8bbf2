package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	apphttp "github.com/jhoicas/Equipos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Equipos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUsername  = "depo.sorumlusu"
	testIssuer    = "equipos-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	// Ruta protegida: JWT + RBAC
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, "admin", body["role"], "el role debe ser admin")
}

// Caso 1b: El usuario tiene uno de los roles permitidos (multi-rol) → HTTP 200.
func TestRequireRole_UserAccedeRutaAdminOUser(t *testing.T) {
	app := buildTestApp("admin", "user")
	resp := doRequest(t, app, tokenForRole(t, "user"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"user debe poder acceder a ruta que permite admin o user")
}

// Caso 2: El usuario tiene un rol diferente al requerido → HTTP 403 Forbidden.
func TestRequireRole_UserBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, tokenForRole(t, "user"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"user no debe poder acceder a ruta restringida a admin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN",
		"la respuesta de error debe incluir el código FORBIDDEN")
}

// Caso 2b: rol desconocido bloqueado aunque la ruta admita admin y user → HTTP 403.
func TestRequireRole_RolDesconocidoBloqueado(t *testing.T) {
	app := buildTestApp("admin", "user")
	resp := doRequest(t, app, tokenForRole(t, "invitado"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Caso 3: Token sin claim de rol (emulado con token vacío) → HTTP 401.
func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	// Generamos un token con rol vacío para simular un token legacy sin el claim.
	app := buildTestApp("admin")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"token sin rol debe retornar 401")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE",
		"la respuesta debe indicar el código MISSING_ROLE")
}

// Caso 4: Sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "") // sin header
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: Token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtractaClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"username": apphttp.GetUsername(c),
			"role":     apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testUsername, body["username"])
	assert.Equal(t, "admin", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg: integridad del generate/parse con role
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, "user", testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, username, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testUsername, username)
	assert.Equal(t, "user", role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de autorización sobre las rutas reales del router
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RutasDeAdminRechazanRolUser(t *testing.T) {
	f := newAPIFixture(t, 0)
	cases := []struct {
		name    string
		method  string
		path    string
		payload any
	}{
		{"alta de productos", http.MethodPost, "/api/products", dto.CreateProductRequest{Name: "Perde", CategoryID: f.category.ID}},
		{"importar productos", http.MethodPost, "/api/products/import", nil},
		{"listar usuarios", http.MethodGet, "/api/users", nil},
		{"crear usuario", http.MethodPost, "/api/users", dto.CreateUserRequest{Username: "yeni", Password: "secreto3", ConfirmPassword: "secreto3"}},
		{"crear categoría", http.MethodPost, "/api/categories", dto.CreateCategoryRequest{Name: "Ses"}},
		{"borrar categoría", http.MethodDelete, "/api/categories/" + f.category.ID, nil},
		{"crear ubicación", http.MethodPost, "/api/locations", dto.CreateLocationRequest{Name: "Depo 2"}},
		{"borrar ubicación", http.MethodDelete, "/api/locations/" + f.hotel.ID, nil},
		{"reconciliar", http.MethodPost, "/api/inventory/reconcile", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := f.do(t, tc.method, tc.path, f.userToken, tc.payload)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))
			assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, body).Code)
		})
	}

	// Nada de lo anterior llegó a escribirse.
	assert.Len(t, f.svc.Categories(), 1)
	assert.Len(t, f.svc.Locations(), 2)
	assert.Empty(t, f.svc.ListProducts(inventory.ProductFilter{}))
}

func TestRouter_AdminAccedeAAltaDeProductosYUsuarios(t *testing.T) {
	f := newAPIFixture(t, 0)

	resp, body := f.do(t, http.MethodPost, "/api/products", f.adminToken, dto.CreateProductRequest{Name: "Perde", CategoryID: f.category.ID})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodPost, "/api/users", f.adminToken, dto.CreateUserRequest{Username: "yeni", Password: "secreto3", ConfirmPassword: "secreto3"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "user", decode[dto.UserResponse](t, body).Role)

	resp, body = f.do(t, http.MethodGet, "/api/users", f.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Len(t, decode[[]dto.UserResponse](t, body), 3)
}

func TestRouter_UserOperaMovimientosYConsultas(t *testing.T) {
	f := newAPIFixture(t, 0)
	p := f.createProducts(t, "Sahne Işığı", 1)[0]

	resp, body := f.do(t, http.MethodGet, "/api/products", f.userToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodPost, "/api/movements", f.userToken, dto.CreateMovementRequest{
		ProductID: p.ID, Type: "Out", Quantity: 1, LocationID: f.hotel.ID,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func TestRouter_RolFueraDeLaListaBloqueado(t *testing.T) {
	f := newAPIFixture(t, 0)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, "invitado", testIssuer, testExpMin)
	require.NoError(t, err)

	resp, body := f.do(t, http.MethodGet, "/api/products", tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))
}

func TestRouter_PasswordDemasiadoLargaEsValidacion(t *testing.T) {
	f := newAPIFixture(t, 0)
	long := strings.Repeat("x", 73)

	resp, body := f.do(t, http.MethodPost, "/api/users", f.adminToken, dto.CreateUserRequest{Username: "uzun", Password: long, ConfirmPassword: long})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, body).Code)

	resp, body = f.do(t, http.MethodPut, "/api/auth/profile", f.userToken, dto.UpdateProfileRequest{NewPassword: long, ConfirmPassword: long})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
}
