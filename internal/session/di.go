package session

import (
	"github.com/foxseedlab/mensetsu/internal/config"
	"github.com/foxseedlab/mensetsu/internal/discord"
	"github.com/foxseedlab/mensetsu/internal/gateway"
	"github.com/foxseedlab/mensetsu/internal/metrics"
	"github.com/foxseedlab/mensetsu/internal/prompt"
	"github.com/foxseedlab/mensetsu/internal/report"
	"github.com/foxseedlab/mensetsu/internal/repository"
	"github.com/foxseedlab/mensetsu/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewStore(cfg.SessionTTL(), do.MustInvoke[*metrics.Recorder](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[*Store](i)
		dc := do.MustInvoke[discord.Client](i)
		gw := do.MustInvoke[*gateway.Gateway](i)
		assembler := do.MustInvoke[*prompt.Assembler](i)
		generator := do.MustInvoke[*report.Generator](i)
		repo := do.MustInvoke[repository.Repository](i)
		wh := do.MustInvoke[webhook.Sender](i)
		recorder := do.MustInvoke[*metrics.Recorder](i)
		return NewManager(cfg, store, dc, gw, assembler, generator, repo, wh, recorder), nil
	})
}
