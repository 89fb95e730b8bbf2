package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/pkg/config"
)

// fakeREST servidor mínimo que imita las rutas /rest/v1/<tabla> de PostgREST.
type fakeREST struct {
	mu       sync.Mutex
	requests []*http.Request
	respond  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(context.Background()))
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if f.respond != nil {
		f.respond(w, r)
		return
	}
	_, _ = w.Write([]byte(`[]`))
}

func newFake(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*fakeREST, *ProductRepo, *MovementRepo) {
	t.Helper()
	fake := &fakeREST{respond: respond}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client, err := NewClient(config.SupabaseConfig{URL: srv.URL, Key: "service-key"})
	require.NoError(t, err)
	return fake, NewProductRepository(client), NewMovementRepository(client)
}

func TestNewClient_RequiereURLYKey(t *testing.T) {
	_, err := NewClient(config.SupabaseConfig{})
	assert.Error(t, err)
}

func TestProductRepo_GetByBarcode_MapeaNulos(t *testing.T) {
	_, repo, _ := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/products", r.URL.Path)
		assert.Equal(t, "eq.PS12345678900001", r.URL.Query().Get("barcode"))
		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"id": "p1", "name": "Projeksiyon Epson", "brand": "Epson", "model": "EB-X51",
			"category_id": "c1", "status": "InStock", "location_id": nil,
			"serial_number": "", "barcode": "PS12345678900001", "quantity": 3, "opening_quantity": 1,
			"description": "", "created_at": "2024-04-05T10:00:00.123456+00:00", "updated_at": "2024-04-05T10:00:00+00:00",
		}})
	})

	p, err := repo.GetByBarcode(context.Background(), "PS12345678900001")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "c1", p.CategoryID)
	assert.Empty(t, p.LocationID, "location_id NULL se lee como vacío")
	assert.Equal(t, 3, p.Quantity)
	assert.Equal(t, 1, p.OpeningQuantity)
}

func TestProductRepo_GetByID_SinFilasDevuelveNil(t *testing.T) {
	_, repo, _ := newFake(t, nil)
	p, err := repo.GetByID(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestMovementRepo_DeleteMany_UsaFiltroIn(t *testing.T) {
	fake, _, repo := newFake(t, nil)

	require.NoError(t, repo.DeleteMany(context.Background(), []string{"m1", "m2"}))

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, http.MethodDelete, req.Method)
	filter := req.URL.Query().Get("id")
	assert.True(t, strings.HasPrefix(filter, "in.("), "filtro in: %s", filter)
	assert.Contains(t, filter, "m1")
	assert.Contains(t, filter, "m2")
}

func TestMovementRepo_DeleteMany_VacioNoLlamaAlServidor(t *testing.T) {
	fake, _, repo := newFake(t, nil)
	require.NoError(t, repo.DeleteMany(context.Background(), nil))
	assert.Empty(t, fake.requests)
}

func TestWrap_ViolacionUnica(t *testing.T) {
	err := wrap("insert product", errors.New(`duplicate key value violates unique constraint "products_barcode_key" (23505)`), domain.ErrDuplicate)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = wrap("list", errors.New("timeout"), domain.ErrDuplicate)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "supabase list")

	assert.NoError(t, wrap("noop", nil, nil))
}

func TestProductRepo_ContextoCanceladoNoLlegaAlServidor(t *testing.T) {
	fake, repo, _ := newFake(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx)
	require.Error(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Empty(t, fake.requests, "con el contexto cancelado no debe salir la petición")
}
