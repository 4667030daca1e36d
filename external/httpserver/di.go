package httpserver

import (
	"github.com/foxseedlab/mensetsu/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewServer(cfg.MetricsAddr, do.MustInvoke[*prometheus.Registry](i)), nil
	})
}
