package di

import (
	"fmt"
	"os"

	"github.com/aristath/fundlens/internal/config"
	"github.com/aristath/fundlens/internal/modules/columns"
	"github.com/aristath/fundlens/internal/modules/holdings"
	"github.com/aristath/fundlens/internal/modules/market_hours"
	"github.com/rs/zerolog"
)

// holidayFileSource tags rows imported from NSE_HOLIDAY_FILE
const holidayFileSource = "holiday_file"

// InitializeServices creates the trading calendar and the holdings service
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	if cfg.Calendar.HolidayFile != "" {
		if err := importHolidayFile(container.HolidayRepo, cfg.Calendar.HolidayFile, log); err != nil {
			return err
		}
	}

	extra, err := cfg.ExtraHolidayDates()
	if err != nil {
		return fmt.Errorf("invalid extra holidays: %w", err)
	}
	fallback := market_hours.NewStaticSource(extra...)

	var loader market_hours.SourceLoader
	if cfg.Calendar.Dynamic {
		loader = market_hours.NewDatabaseLoader(container.HolidayRepo)
	} else {
		log.Info().Msg("Dynamic holiday calendar disabled, using fallback holidays only")
	}

	container.Calendar = market_hours.NewTradingCalendar(loader, fallback, log)
	container.Normalizer = columns.NewNormalizer()
	container.HoldingsService = holdings.NewService(container.UploadRepo, container.Normalizer, log)

	log.Info().
		Int("fallback_holidays", fallback.Len()).
		Bool("dynamic", cfg.Calendar.Dynamic).
		Msg("Services initialized")

	return nil
}

func importHolidayFile(repo *market_hours.HolidayRepository, path string, log zerolog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer f.Close()

	n, err := repo.ImportCSV(f, holidayFileSource)
	if err != nil {
		return fmt.Errorf("failed to import holiday file %s: %w", path, err)
	}

	log.Info().Str("file", path).Int("holidays", n).Msg("Imported holiday file")
	return nil
}
