// Command meeting-mcp serves meeting recordings, transcripts and calendars
// from the Meeting BaaS API over the Model Context Protocol.
package main

import "github.com/teemow/meeting-mcp/cmd"

// version is stamped by goreleaser
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
