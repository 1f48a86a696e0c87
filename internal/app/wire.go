//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/ticketflow/server/internal/module/notification"
	"github.com/ticketflow/server/internal/shared/config"
)

// InitializeDependencies builds the full dependency graph with wire.
// Run `mage wire` to regenerate wire_gen.go after changing providers.
func InitializeDependencies(cfg *config.Config) (*Dependencies, error) {
	wire.Build(
		InfraSet,
		RepositorySet,
		ServiceSet,
		HandlerSet,
		notification.NewEventHandler,
		wire.Struct(new(Dependencies), "*"),
	)
	return nil, nil
}
