package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/examseating/internal/config"
	"github.com/yigit/examseating/internal/pkg/events"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	return cfg
}

func TestSetupDatabaseSkipsMemoryDriver(t *testing.T) {
	database, err := SetupDatabase(context.Background(), memoryConfig(t), zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, database)
}

func TestBuildDependenciesMemory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := memoryConfig(t)

	deps, err := BuildDependencies(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)

	assert.Nil(t, deps.Redis)
	assert.IsType(t, events.NoopPublisher{}, deps.Publisher)
	require.NotNil(t, deps.Services.SeatingService)

	router := SetupRouter(cfg, deps, zerolog.Nop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/allocation", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBuildDependenciesBrokerEnabled(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Broker.Enabled = true

	deps, err := BuildDependencies(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &events.AMQPPublisher{}, deps.Publisher)
}

func TestBuildDependenciesPostgresWithoutPool(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Storage.Driver = "postgres"

	_, err := BuildDependencies(context.Background(), cfg, nil, zerolog.Nop())
	assert.Error(t, err)
}
