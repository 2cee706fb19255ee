package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-netstate/config"
	"github.com/dep2p/go-netstate/internal/core/tracking"
	"github.com/dep2p/go-netstate/pkg/interfaces/statetrack"
)

// TestModule_Handler 通过 HTTP 处理器导出会话指标
func TestModule_Handler(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Report.Enabled = false

	var (
		session statetrack.Session
		handler http.Handler
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		tracking.Module(),
		Module(),
		fx.Populate(&session),
		fx.Invoke(fx.Annotate(func(h http.Handler) { handler = h }, fx.ParamTags(`name:"metrics_handler"`))),
	)
	defer app.RequireStart().RequireStop()

	key := statetrack.Key{Type: "Player", Object: "1", Component: "Health"}
	_, err := session.Observe(key, []byte{0})
	require.NoError(t, err)
	_, err = session.Observe(key, []byte{0xFF})
	require.NoError(t, err)
	session.Fold()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `netstate_changed_bits_total{component="",level="total",object="",type=""} 8`)
	assert.Contains(t, string(body), "netstate_tracked_objects 1")
}

// TestModule_ExternalRegistry 使用注入的 Registry，停止时注销
func TestModule_ExternalRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	app := fxtest.New(t,
		fx.Supply(reg),
		tracking.Module(),
		Module(),
	)
	app.RequireStart()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	app.RequireStop()

	families, err = reg.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}
