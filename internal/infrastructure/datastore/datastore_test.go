package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Equipos-api/pkg/config"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

func TestOpen_Memoria(t *testing.T) {
	repos, closeFn, err := Open(context.Background(), &config.Config{Backend: config.BackendMemory}, logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, config.BackendMemory, repos.Backend)
	n, err := repos.Users.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	products, err := repos.Products.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestOpen_Supabase(t *testing.T) {
	repos, closeFn, err := Open(context.Background(), &config.Config{
		Backend:  config.BackendSupabase,
		Supabase: config.SupabaseConfig{URL: "http://127.0.0.1:54321", Key: "service-key"},
	}, logger.Nop())
	require.NoError(t, err, "el cliente no conecta hasta la primera consulta")
	defer closeFn()
	assert.NotNil(t, repos.TxRunner)
}

func TestOpen_BackendDesconocido(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{Backend: "mongo"}, logger.Nop())
	assert.Error(t, err)
}
