/*
Package liveness tracks whether a registered agent is still reachable.

The server never receives an explicit "I'm shutting down" message from an
agent — it only sees a stream of reports. Status turns that stream into
an online/offline flag by watching for gaps: it is marked offline once
enough consecutive windows have passed without a report, and back online
the moment another report arrives.
*/
package liveness
