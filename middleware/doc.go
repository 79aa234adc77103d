// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides request logging and JSON helpers.

  - WithLogging: wraps a handler, logging method, path, status, and latency
  - JSONResponse / ErrorResponse: JSON reply helpers
  - ParseJSONBody: request body decoding
  - StatusRecorder: ResponseWriter wrapper capturing the written status
*/
package middleware
