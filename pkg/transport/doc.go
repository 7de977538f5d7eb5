/*
Package transport implements the JSON-frame WebSocket link shared by the
agent-to-server connection and the server-to-dashboard push channel. Both
are "persistent bidirectional message transports" carrying `{type, data}`
frames, so they share one small Conn wrapper instead of two bespoke
implementations.
*/
package transport
