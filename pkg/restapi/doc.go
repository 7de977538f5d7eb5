/*
Package restapi implements the read-only REST surface and the dashboard
push endpoint described in spec.md §6: GET /api/servers, /api/errors,
/api/stats, /api/insights, /api/health, a Prometheus /metrics route, and
a WebSocket /ws endpoint that subscribes a dashboard to the broadcast fan
-out and immediately pushes its three snapshot frames.

Routing is github.com/gorilla/mux, matching the other REST surfaces in
the pack; CORS is github.com/rs/cors configured exactly to spec: origin
*, GET/POST/OPTIONS, Content-Type header, 200 on preflight. Handler
faults never crash the process — they respond 500 with a JSON error body
and the server keeps serving, per the spec's "availability over
completeness" stance.
*/
package restapi
