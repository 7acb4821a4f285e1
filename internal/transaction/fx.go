package transaction

import (
	"github.com/smallbiznis/bizbook/internal/transaction/repository"
	"github.com/smallbiznis/bizbook/internal/transaction/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transaction",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
