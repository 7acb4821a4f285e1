package sequence

import (
	"github.com/smallbiznis/bizbook/internal/sequence/repository"
	"github.com/smallbiznis/bizbook/internal/sequence/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sequence",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
