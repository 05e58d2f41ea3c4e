// Package server exposes the sync engine's control API over HTTP.
//
// The control API is the surface the host application drives the engine
// through: sync triggers, lifecycle and connectivity signals, cached record
// reads and the dashboard summary. It carries no remote credentials and is
// meant to listen on loopback only.
package server
