package di

import (
	"fmt"

	"github.com/aristath/fundlens/internal/modules/holdings"
	"github.com/aristath/fundlens/internal/modules/market_hours"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates repositories over the open databases
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	container.HolidayRepo = market_hours.NewHolidayRepository(container.CalendarDB.Conn(), log)
	container.UploadRepo = holdings.NewUploadRepository(container.HoldingsDB.Conn(), log)

	log.Info().Msg("Repositories initialized")

	return nil
}
