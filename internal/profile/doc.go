// Package profile manages named bundles of tool flags.
//
// A profile is declarative data: a description, a default output format, and
// one flag string per downstream tool. Profiles never carry executable text;
// the command composer interprets them, it does not evaluate them.
//
// Built-in profiles are immutable. User overrides live in a TOML file (one
// table per profile) and replace built-ins on name collision. Invalid user
// entries are skipped with a warning so that listing always works.
package profile
