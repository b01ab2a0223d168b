// Package cli provides the interactive KeepSafe command-line client.
//
// It wires configuration, the local entry cache, the backend API client and
// an interactive REPL. Typical flow: prompt for credentials, start the
// background connectivity watcher and the stalled-upload sweeper, then
// execute user commands.
//
// Key features:
//   - Login / Register / Logout
//   - Capture entries (photo, video, audio) with sharing options
//   - List the feed and the per-day calendar view
//   - Retry failed uploads
//   - Show reactions and comments on an entry
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and StartStuckSweeper for details.
package cli
