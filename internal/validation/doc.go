// RnG Dashboard - Engagement Metrics Comparison Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rngdash

/*
Package validation wraps go-playground/validator for HTTP request parameters.

The API binds query and path parameters into small request structs and calls
ValidateStruct before touching the engagement pipeline. Failures convert to
the VALIDATION_ERROR shape of the API envelope via ToAPIError:

	{
	  "code": "VALIDATION_ERROR",
	  "message": "Date must be a valid date in YYYY-MM-DD format",
	  "details": {"field": "Date", "tag": "isodate", "value": "yesterday"}
	}

Cross-field rules that depend on parsed values, such as the compare date not
being after the selected date, are checked by the handlers after parsing.
*/
package validation
