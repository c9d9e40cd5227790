package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/fxnlabs/device-runtime/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestModule_Lifecycle(t *testing.T) {
	var srv *Server

	app := fxtest.New(t,
		fx.Provide(
			func() *config.Config {
				cfg := config.Default()
				cfg.Server.ListenPort = 0
				return cfg
			},
			func() *zap.Logger { return zap.NewNop() },
		),
		Module,
		fx.Populate(&srv),
	)

	app.RequireStart()
	require.NotEmpty(t, srv.Addr())

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	app.RequireStop()
}

func TestStopBeforeStart(t *testing.T) {
	s := New(config.Default(), nil, zap.NewNop())
	assert.NoError(t, s.Stop(context.Background()))
	assert.Empty(t, s.Addr())
}
