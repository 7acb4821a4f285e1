package cashbook

import (
	"github.com/smallbiznis/bizbook/internal/cashbook/repository"
	"github.com/smallbiznis/bizbook/internal/cashbook/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cashbook",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
