/*
Package log provides structured logging for sentrylog using zerolog.

It wraps a single global zerolog.Logger, initialized once via Init, plus
helpers for component-scoped child loggers (WithComponent, WithServerID,
WithLogFile) so agent and server code can attach consistent fields without
threading a logger through every call.
*/
package log
