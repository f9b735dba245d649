// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

package engagement

import (
	"errors"
	"fmt"
)

// MissingColumnError reports that a column needed by a metric is absent from
// the loaded result set.
type MissingColumnError struct {
	Metric string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Metric == "" || e.Metric == e.Column {
		return fmt.Sprintf("missing column %q", e.Column)
	}
	return fmt.Sprintf("metric %s: missing column %q", e.Metric, e.Column)
}

// IsMissingColumn reports whether err is or wraps a *MissingColumnError.
func IsMissingColumn(err error) bool {
	var mc *MissingColumnError
	return errors.As(err, &mc)
}

// fatal is implemented by loader errors that end the session, such as an
// unreachable warehouse. Anything else is recovered at the view boundary.
type fatal interface {
	Fatal() bool
}

// IsFatal reports whether err must abort the request instead of rendering an
// empty view.
func IsFatal(err error) bool {
	var f fatal
	return errors.As(err, &f) && f.Fatal()
}
