package prompt

import "github.com/samber/do/v2"

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Assembler, error) {
		catalog, err := LoadCatalog()
		if err != nil {
			return nil, err
		}
		return NewAssembler(do.MustInvoke[TemplateStore](i), catalog), nil
	})
}
