// Package api implements the HTTP transport for the mailat.co API.
//
// The transport sends one logical call to completion: it authenticates
// requests with the bearer credential, retries transient failures (network
// errors, timeouts, HTTP 429) with exponential backoff, unwraps the
// {"data": ...} response envelope, and maps error responses into the typed
// errors of the apierrors package.
//
// Per-resource endpoint methods and their wire DTOs live alongside the
// transport; the public mailat package converts DTOs into its exported
// types.
package api
