package infra

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/lib/pq"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

// SQLSTATE codes that mean "try again later" rather than "this will never work".
var transientCodes = map[pq.ErrorCode]bool{
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
	"53300": true, // too_many_connections
	"53400": true, // configuration_limit_exceeded
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// класс 08: connection_exception
		return pqErr.Code.Class() == "08" || transientCodes[pqErr.Code]
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify wraps a driver error with the storage sentinel callers branch on.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return fmt.Errorf("%s: %w: %w", op, ports.ErrTransientStorage, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ports.ErrPermanentStorage, err)
}
