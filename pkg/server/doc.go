// Package server exposes live reconciliation sessions over HTTP and
// WebSocket.
//
// A session owns an in-memory document whose root starts as
// <div id="root"></div>. Clients post tree documents to the session; each
// post is patched against the previous tree and the recorded native
// mutations are returned and broadcast to the session's websocket
// subscribers.
//
// # Routes
//
//	POST   /sessions              create a session, or restore one from a snapshot
//	POST   /sessions/{id}/render  patch to the posted tree
//	GET    /sessions/{id}/html    current HTML
//	GET    /sessions/{id}/ws      subscribe to mutation frames
//	DELETE /sessions/{id}         tear the session down
//	GET    /metrics               Prometheus metrics, when a gatherer is set
//	GET    /healthz               liveness
//
// # Frames
//
// Subscribers receive JSON text frames:
//
//	{"type":"init","html":"<div id=\"root\"></div>"}
//	{"type":"ops","ops":[{"op":"createElement","node":3,"name":"p"}, ...]}
//	{"type":"closed"}
//
// Renders within one session are serialized; distinct sessions patch
// concurrently.
package server
