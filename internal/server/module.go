package server

import (
	"github.com/fxnlabs/device-runtime/internal/config"
	"github.com/fxnlabs/device-runtime/internal/device"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the device manager and the HTTP server to an fx
// application and ties the server to the application lifecycle. The
// application must supply *config.Config and *zap.Logger.
var Module = fx.Options(
	fx.Provide(
		NewManager,
		New,
	),
	fx.Invoke(register),
)

// NewManager creates the manager over the compiled-in backend and activates
// the configured default device.
func NewManager(cfg *config.Config, logger *zap.Logger) (*device.Manager, error) {
	mgr := device.NewManager(logger)
	if err := mgr.Activate(cfg.Device.Default); err != nil {
		return nil, err
	}
	return mgr, nil
}

func register(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}
