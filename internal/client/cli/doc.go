// Package cli provides the interactive PanelDesk command-line client.
//
// It wires configuration, the REST API client, upload and preview services,
// and an interactive REPL. Typical flow: prompt for credentials, then execute
// user commands against the backend collections.
//
// Key features:
//   - Login / Logout against the REST API
//   - List / Show / Delete records of any managed collection
//   - Create projects with cover, gallery and document attachments
//   - Browse collections in a full-screen interactive view
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
