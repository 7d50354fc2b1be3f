package components

import (
	"parkspot/internal/handler"
	"parkspot/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewSlotHandler,
		api.NewPricingHandler,
	),
	fx.Invoke(handler.NewRouter),
)
