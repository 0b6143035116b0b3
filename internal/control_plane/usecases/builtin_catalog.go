package usecases

import (
	"context"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

var _ CatalogSource = BuiltinCatalogSource{}

// BuiltinCatalogSource serves the commands known to work with the backend
// when its catalog endpoint is unavailable.
type BuiltinCatalogSource struct{}

func NewBuiltinCatalogSource() BuiltinCatalogSource {
	return BuiltinCatalogSource{}
}

func (BuiltinCatalogSource) AvailableCommands(context.Context) ([]domain.CommandDescriptor, error) {
	return []domain.CommandDescriptor{
		{
			ID:          "WAKE_VEHICLE",
			Description: "Wake the vehicle so it accepts further commands",
		},
		{
			ID:          "HONK_AND_FLASH_LIGHTS",
			Description: "Honk the horn and flash the lights",
		},
		{
			ID:          "CHARGING_LIMITS",
			Description: "Set the battery charge limit",
			Parameters: []domain.ParameterSpec{
				{
					Name:        "SOC_limit",
					Description: "Battery charge limit percentage (50-100)",
					Type:        domain.ParameterTypeInteger,
					Min:         bound(50),
					Max:         bound(100),
				},
			},
		},
		{
			ID:          "START_CHARGING",
			Description: "Start charging",
		},
		{
			ID:          "STOP_CHARGING",
			Description: "Stop charging",
		},
		{
			ID:          "CABIN_HVAC_DEFROST_DEFOG",
			Description: "Defrost and defog the windshield",
			Parameters: []domain.ParameterSpec{
				{
					Name:        "level",
					Description: "Defrost level (0-4 where 0=off)",
					Type:        domain.ParameterTypeInteger,
					Min:         bound(0),
					Max:         bound(4),
				},
			},
		},
		{
			ID:          "CABIN_PRECONDITIONING_SET_TEMP",
			Description: "Set the cabin preconditioning temperature",
			Parameters: []domain.ParameterSpec{
				{
					Name:          "HVAC_set_temp",
					Description:   "Temperature in Celsius (16-29, or 0 for LO, 63.5 for HI)",
					Type:          domain.ParameterTypeNumber,
					AllowedValues: []float64{0, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 63.5},
				},
			},
		},
	}, nil
}

func bound(v float64) *float64 {
	return &v
}
