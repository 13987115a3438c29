package server

// @title Solar System Service
// @version 1.0
// @description CRUD API over a catalog of planets with sorted and distance
// @description views, plus real-time change notifications via WebSocket and
// @description Server-Sent Events.
//
// @license.name MIT
//
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
