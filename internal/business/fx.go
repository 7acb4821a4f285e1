package business

import (
	"github.com/smallbiznis/bizbook/internal/business/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("business",
	fx.Provide(repository.Provide),
)
