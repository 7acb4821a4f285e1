package billing

import (
	"github.com/smallbiznis/bizbook/internal/billing/repository"
	"github.com/smallbiznis/bizbook/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
