package gateway

import (
	"github.com/foxseedlab/mensetsu/internal/config"
	"github.com/foxseedlab/mensetsu/internal/llm"
	"github.com/foxseedlab/mensetsu/internal/metrics"
	"github.com/foxseedlab/mensetsu/internal/prompt"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Gateway, error) {
		cfg := do.MustInvoke[*config.Config](i)
		completer := do.MustInvoke[llm.Completer](i)
		assembler := do.MustInvoke[*prompt.Assembler](i)
		tokens := do.MustInvoke[llm.TokenCounter](i)
		recorder := do.MustInvoke[*metrics.Recorder](i)
		return NewGateway(completer, assembler, tokens, recorder, cfg.LLMRequestTimeout()), nil
	})
}
