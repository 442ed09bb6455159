// Package plan composes the external-tool invocations for one run.
//
// Compose maps a resolved configuration onto a CommandPlan: up to two video
// side stages (transcode, render) that either pipe together or run in strict
// sequence through a temporary frame file, plus an optional audio stage. The
// composer only assembles argument vectors; it never starts a process.
package plan
