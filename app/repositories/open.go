package repositories

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Supported store drivers.
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

// Open returns the store for driver rooted at path.
func Open(driver, path string, log zerolog.Logger) (Store, error) {
	switch driver {
	case DriverBadger:
		store, err := OpenBadger(path, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverSQLite:
		store, err := OpenSQLite(path, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
