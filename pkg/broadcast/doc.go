/*
Package broadcast fans out dashboard push updates over WebSocket links.

A Hub holds the set of connected dashboard subscribers. Publish sends one
frame to every subscriber without blocking the caller: each subscriber has
a bounded outbox, and a subscriber whose outbox is full simply misses that
update (fire-and-forget, matching the spec's "best-effort fan-out"). This
package only knows about transports and frames, not the store or agent
registry, so the three on-subscribe snapshot frames (servers, errors,
insights) the spec calls for are pushed by the caller via Subscriber.Send
right after Subscribe returns — see pkg/restapi's dashboard handler.
*/
package broadcast
