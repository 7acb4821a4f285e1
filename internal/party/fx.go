package party

import (
	"github.com/smallbiznis/bizbook/internal/party/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("party",
	fx.Provide(repository.Provide),
)
