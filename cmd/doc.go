// Package cmd implements the CLI commands for the gemini-chat application.
//
// # Architecture
//
//   - root.go: Main entry point, App struct, cobra command setup, flags and
//     the config subcommands
//   - interactive.go: InteractiveSession, the read-eval-print loop and one
//     prompt/response exchange with rollback on failure
//   - slash_commands.go: Command enumeration, parsing and handlers
//     (/help, /exit, /new, /copy, /save, /save all, /save json)
//
// # Key Components
//
// ## App
//
// The App struct holds the configuration populated by flags. It is
// created in Execute() and builds the client, printer and writer once
// the configuration is validated.
//
// ## InteractiveSession
//
// Owns the conversation and processes one input at a time:
//   - Slash commands are matched exactly on the trimmed line
//   - Any other non-empty line is sent with the full history
//   - A failed exchange removes the prompt from the history
//   - Lines ending in a backslash continue on the next line
//
// # Usage
//
//	// Main entry point
//	func main() {
//	    cmd.Execute()
//	}
package cmd
