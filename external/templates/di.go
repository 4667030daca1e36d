package templates

import (
	"github.com/foxseedlab/mensetsu/internal/config"
	"github.com/foxseedlab/mensetsu/internal/prompt"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (prompt.TemplateStore, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewFilesystemStore(c.PromptsDir), nil
	})
}
