package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Check    CheckCmd    `cmd:"" default:"1" help:"Fetch listings, alert on new ones, update the seen file."`
	Listings ListingsCmd `cmd:"" help:"Fetch and print current listings."`
	Seen     SeenCmd     `cmd:"" help:"Seen lots utilities."`
	Notify   NotifyCmd   `cmd:"" help:"Send a Telegram message to the configured chat."`
	Proxies  ProxiesCmd  `cmd:"" help:"Proxy utilities."`
	Config   ConfigCmd   `cmd:"" help:"Manage configuration."`
	Version  VersionCmd  `cmd:"" help:"Print version."`
}

func NewCLI() *CLI {
	return &CLI{}
}
