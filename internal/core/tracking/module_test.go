package tracking

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-netstate/config"
	"github.com/dep2p/go-netstate/internal/core/statediff"
	"github.com/dep2p/go-netstate/pkg/interfaces/statetrack"
)

// TestModule_Provides 模块提供会话，并使用注入的配置与时间源
func TestModule_Provides(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Tracking.MismatchPolicy = "fail"
	mock := clock.NewMock()

	var (
		session *Session
		iface   statetrack.Session
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(func() clock.Clock { return mock }),
		Module(),
		fx.Populate(&session, &iface),
	)
	defer app.RequireStart().RequireStop()

	require.NotNil(t, session)
	assert.Same(t, session, iface.(*Session))
	assert.Equal(t, statediff.MismatchFail, session.cfg.MismatchPolicy)
	assert.Same(t, mock, session.Clock().(*clock.Mock))
}

// TestModule_AutoFold 配置折叠间隔后生命周期内自动折叠
func TestModule_AutoFold(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Tracking.FoldInterval = config.Duration(16 * time.Millisecond)
	cfg.Report.Enabled = false
	mock := clock.NewMock()

	var session *Session
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(func() clock.Clock { return mock }),
		Module(),
		fx.Populate(&session),
	)
	app.RequireStart()

	require.Eventually(t, func() bool {
		mock.Add(16 * time.Millisecond)
		return session.Totals().Samples > 0
	}, time.Second, time.Millisecond)

	app.RequireStop()
}

func TestModule_DefaultConfig(t *testing.T) {
	var session statetrack.Session
	app := fxtest.New(t,
		Module(),
		fx.Populate(&session),
	)
	defer app.RequireStart().RequireStop()

	require.NotNil(t, session)
	assert.Equal(t, statediff.MismatchResync, session.(*Session).cfg.MismatchPolicy)
}

func TestModule_InvalidPolicy(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Tracking.MismatchPolicy = "ignore"

	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		Module(),
		fx.Invoke(func(*Session) {}),
	)
	assert.ErrorContains(t, app.Err(), ErrInvalidConfig.Error())
}
