package tokenizer

import (
	"github.com/foxseedlab/mensetsu/internal/llm"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (llm.TokenCounter, error) {
		return NewTiktokenCounter()
	})
}
