// Package logging assembles the structured slog loggers used across the
// termview CLI.
//
// All diagnostics go to stderr so that stdout stays reserved for rendered
// payload (sixel escapes, text art, GIF bytes). The console handler colors
// levels when stderr is a terminal; a JSON handler is selectable for
// machine consumption.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits diagnostics with the same shape and routing.
package logging
