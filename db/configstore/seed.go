package configstore

import (
	"fmt"

	"github.com/spf13/viper"
)

type seedFile struct {
	Configuration SearchConfiguration `mapstructure:"configuration"`
	Filters       []FilterDefinition  `mapstructure:"filters"`
	SortOptions   []SortDefinition    `mapstructure:"sort_options"`
	Spotlights    []SpotlightEntry    `mapstructure:"spotlights"`
	Highlights    []DetailHighlight   `mapstructure:"highlights"`
}

// LoadSeed populates the store from a YAML seed file. It stands in for the
// administrative UI, which edits the same entries out-of-band.
func (s *Store) LoadSeed(path string) error {
	seedConfig := viper.New()
	seedConfig.SetConfigFile(path)
	if err := seedConfig.ReadInConfig(); err != nil {
		s.logger.Error("failed to read seed file", "path", path, "err", err.Error())
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seed seedFile
	if err := seedConfig.Unmarshal(&seed); err != nil {
		s.logger.Error("failed to unmarshal seed file", "path", path, "err", err.Error())
		return fmt.Errorf("failed to unmarshal seed file %s: %w", path, err)
	}

	if seed.Configuration.ResultsPerPage > 0 {
		if err := s.SaveConfiguration(seed.Configuration); err != nil {
			return err
		}
	}

	for _, filter := range seed.Filters {
		if err := s.SaveFilter(filter); err != nil {
			return err
		}
	}
	for _, sortOption := range seed.SortOptions {
		if err := s.SaveSort(sortOption); err != nil {
			return err
		}
	}
	for _, spotlight := range seed.Spotlights {
		if err := s.SaveSpotlight(spotlight); err != nil {
			return err
		}
	}
	for _, highlight := range seed.Highlights {
		if err := s.SaveHighlight(highlight); err != nil {
			return err
		}
	}

	s.logger.Info("loaded configuration seed",
		"path", path,
		"filters", len(seed.Filters),
		"sort_options", len(seed.SortOptions),
		"spotlights", len(seed.Spotlights),
		"highlights", len(seed.Highlights))

	return nil
}
