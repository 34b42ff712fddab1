// Package realtime manages live WebSocket connections and routes chat
// events between them.
//
// Every frame is a JSON envelope {"event": ..., "data": ...}. The hub
// authenticates the upgrade via the shared session token, tracks
// presence through an injected registry, and delivers messages
// best-effort: persistence is the REST layer's job, requested by the
// client as a separate call.
package realtime
