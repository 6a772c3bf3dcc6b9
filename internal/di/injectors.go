//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"welcomer/internal"
	"welcomer/internal/animation"
	"welcomer/internal/controllers"
	"welcomer/internal/models"
	"welcomer/internal/providers"
	"welcomer/internal/services"
	"welcomer/internal/storage"
	"welcomer/internal/structures"
	"welcomer/internal/tick"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewClockProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewCooldownProvider,
		providers.NewOutboxProvider,
		wire.Bind(new(animation.Display), new(providers.OutboxProviderInterface)),
		wire.Bind(new(providers.Presence), new(*services.ProfileService)),

		tick.NewScheduler,
		models.NewProfileStore,
		services.NewProfileService,
		services.NewRecognitionService,
		services.NewThemeService,
		animation.NewEngine,
		services.NewMessageService,
		services.NewWelcomeService,
		services.NewConfigReloader,

		storage.NewZstdCompressor,
		storage.NewFileManager,
		storage.NewColdStorage,
		storage.NewScheduler,
		controllers.NewEventController,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
