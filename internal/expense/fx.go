package expense

import (
	"github.com/smallbiznis/bizbook/internal/expense/repository"
	"github.com/smallbiznis/bizbook/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
