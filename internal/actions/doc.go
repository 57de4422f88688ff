// Package actions drives the mutations a signed-in or anonymous user can perform.
//
// Each action is a single round trip whose outcome is reported on a [Surface]:
//
//   - validation failures (password mismatch, missing image) are shown before any request
//   - endpoint errors (an "error" field in the response) go to the error region
//   - transport and parse failures are logged only
//
// Deleting a movie and submitting a rating are log-only placeholders that return
// [shared.ErrNotImplemented]; no endpoint is assumed for either.
package actions
