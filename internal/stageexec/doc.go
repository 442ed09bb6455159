// Package stageexec runs composed command plans.
//
// Execution follows shell pipeline semantics: when two stages are piped, the
// terminal (render) stage's exit status decides the outcome and the upstream
// transcoder's status is only logged. An optional audio stage runs in the
// background with discarded output and is joined exactly once after the
// video side finishes; its failure never changes the video result.
//
// The engine enforces no timeout and performs no retry. Cancelling the
// context kills every child process.
package stageexec
