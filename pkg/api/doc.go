// Package api exposes the resolution engine over HTTP.
//
// Routes:
//
//	GET /api/v1/scopes                           registered scopes and binaries
//	GET /api/v1/binaries/{key}/dependents        resolved dependents tree
//	GET /api/v1/binaries/{key}/graph             dependents subgraph, Cytoscape.js format
//	GET /api/v1/history                          recent resolution requests
//	GET /api/v1/daemon/diagnostics               daemon pid and log tail
//
// A cycle in the build graph maps to 409 Conflict with the rendered diagram
// in the error details; an unknown binary key maps to 404.
package api
