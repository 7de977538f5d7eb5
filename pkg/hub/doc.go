/*
Package hub implements the Ingestion Hub and the agent registry behind
it: accepting agent links, dispatching register/error/stats frames into
the Memory Store and AgentRecord table, and broadcasting the resulting
deltas to dashboard subscribers.

The hub tracks which AgentRecord owns a given transport with a plain
map[*transport.Conn]string rather than a back-pointer on the connection
itself, per the design notes' stance against cyclic references: on
transport close the hub looks up the owning serverId, flips that record
to offline, and forgets the mapping.

A transport close is the primary offline signal, but spec.md §5 notes
that no I/O in this design carries a deadline, so a link that dies
silently (no FIN, no error) would otherwise stay "online" forever. The
hub also runs a periodic liveness sweep (pkg/liveness) over each agent's
last-seen timestamp as a backstop for that case.
*/
package hub
