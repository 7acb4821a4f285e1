package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/smallbiznis/bizbook/internal/clock"
	"github.com/smallbiznis/bizbook/internal/config"
	"github.com/smallbiznis/bizbook/internal/logger"
	"github.com/smallbiznis/bizbook/internal/migration"
	"github.com/smallbiznis/bizbook/internal/scheduler"
	"github.com/smallbiznis/bizbook/internal/server"
	"github.com/smallbiznis/bizbook/pkg/db"
	"github.com/smallbiznis/bizbook/pkg/telemetry"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		telemetry.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Functional domains
		migration.Module,
		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
