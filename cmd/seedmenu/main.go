// Command seedmenu loads a starter menu so a fresh database can take orders.
// Items that already exist by name are left untouched.
//
// Usage: go run ./cmd/seedmenu
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/apierror"
	"github.com/Karthikx21/Alagarcater-sub000/internal/config"
	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/infra"
	"github.com/Karthikx21/Alagarcater-sub000/internal/repository"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var starterMenu = []dto.CreateMenuItemRequest{
	{Name: "Veg Meals", Category: "meals", Price: "180.00", Unit: "plate"},
	{Name: "Mutton Biryani", Category: "meals", Price: "320.00", Unit: "plate"},
	{Name: "Chicken Biryani", Category: "meals", Price: "260.00", Unit: "plate"},
	{Name: "Idli Sambar", Category: "tiffin", Price: "60.00", Unit: "plate"},
	{Name: "Kesari", Category: "sweets", Price: "420.00", Unit: "kg"},
	{Name: "Paruppu Payasam", Category: "sweets", Price: "35.00", Unit: "plate"},
	{Name: "Serving Staff", Category: "service", Price: "900.00", Unit: "service"},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	menu := service.NewMenuService(repository.NewMenuItemRepository(db))
	ctx := context.Background()
	created := 0
	for _, item := range starterMenu {
		m, err := menu.Create(ctx, item)
		switch {
		case errors.Is(err, apierror.ErrConflict):
			log.Info().Str("name", item.Name).Msg("already on the menu")
		case err != nil:
			log.Fatal().Err(err).Str("name", item.Name).Msg("seed failed")
		default:
			created++
			log.Info().Str("name", m.Name).Str("price", m.Price.String()).Msg("menu item created")
		}
	}
	log.Info().Int("created", created).Int("total", len(starterMenu)).Msg("menu seeded")
}
