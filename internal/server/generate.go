// Package server provides the HTTP server for the planets API.
//
// The package is layered as:
//
//   - Server: core server struct with lifecycle management
//   - Config: server configuration with defaults
//   - Router: route registration and middleware chain
//   - Handlers: HTTP request handlers
//
// The call path is CLI → App → Server → Router → Handlers → query.Service.
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	srv, err := server.New(app, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	srv.Start() // Start background services
//	http.ListenAndServe(":3000", srv.Handler())
package server

//go:generate gomarkdoc --output README.md .
