// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package api

import (
	"errors"

	"github.com/tomtom215/rngdash/internal/engagement"
	"github.com/tomtom215/rngdash/internal/logging"
	"github.com/tomtom215/rngdash/internal/warehouse"
)

// Messages returned to clients for errors whose details stay in the logs.
const (
	msgWarehouseUnavailable = "The data warehouse is currently unavailable"
	msgInternal             = "An internal error occurred"
)

// writeLoadError maps an error returned by the view pipeline to a response.
// Unreachable warehouses are 503; everything else is unexpected.
func writeLoadError(rw *ResponseWriter, err error) {
	ctx := rw.r.Context()
	switch {
	case warehouse.IsConnectivity(err):
		logging.Ctx(ctx).Error().Err(err).Msg("Warehouse unavailable")
		rw.ServiceUnavailable(msgWarehouseUnavailable)
	case errors.Is(err, engagement.ErrUnknownTable):
		rw.NotFound(err.Error())
	default:
		logging.Ctx(ctx).Error().Err(err).Msg("Request failed")
		rw.InternalError(msgInternal)
	}
}

func isUnknownTable(err error) bool {
	return errors.Is(err, engagement.ErrUnknownTable)
}
