package config

import (
	"flag"
	"os"
)

const defaultServerURL = "ws://localhost:8080/api/v1/ws"

// parses CLI flags for the terminal client
func ParseClientFlags() ClientFlags {
	return parseClientFlags(os.Args[1:])
}

func parseClientFlags(args []string) ClientFlags {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	server := fs.String("server", getenv("COLLABBOARD_SERVER", defaultServerURL), "websocket endpoint of the board server")
	room := fs.String("room", "", "room id to join (blank mints a new room)")
	name := fs.String("name", os.Getenv("USER"), "display name shown to other participants")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return ClientFlags{Server: *server, Room: *room, Username: *name}
}
