// Package api provides the HTTP front-end of the Feedgate gateway.
//
// Every request moves through the same stages: authenticate the bearer
// token into an Identity, apply the route's role or ownership check,
// execute against the repositories, and render the standard response
// envelope. Failures at any stage short-circuit to a terminal response
// with the matching status code.
//
// The server follows the same lifecycle pattern as the other
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
