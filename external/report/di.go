package report

import (
	"github.com/foxseedlab/mensetsu/internal/report"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (report.Writer, error) {
		return NewDocxWriter(), nil
	})
}
