package report

import (
	"github.com/foxseedlab/mensetsu/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Generator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewGenerator(do.MustInvoke[Writer](i), cfg.ReportDir, cfg.ReportLocation()), nil
	})
}
