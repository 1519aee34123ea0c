// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package main

import (
	"fmt"
	"log"

	"github.com/docopt/docopt-go"

	"github.com/chinnucsk/ircd-pony/irc"
	"github.com/chinnucsk/ircd-pony/irc/logger"
)

// set via linker flags, either by make or by goreleaser:
var commit = ""  // git hash
var version = "" // tagged version

func main() {
	irc.SetVersionString(version, commit)

	usage := `ircd-pony, a line-oriented chat daemon.

Usage:
	ircd-pony run [--conf <filename>]
	ircd-pony -h | --help
	ircd-pony --version

Options:
	--conf <filename>  Configuration file to use [default: ircd.yaml].
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, fmt.Sprintf("ircd-pony version %s", irc.Ver))

	configfile := arguments["--conf"].(string)
	config, err := irc.LoadConfig(configfile)
	if err != nil {
		log.Fatal("Config file did not load successfully: ", err.Error())
	}

	logman, err := logger.NewManager(config.Logging)
	if err != nil {
		log.Fatal("Logger did not load successfully: ", err.Error())
	}

	if arguments["run"].(bool) {
		server, err := irc.NewServer(config, logman)
		if err != nil {
			logman.Error("server", fmt.Sprintf("Could not load server: %s", err.Error()))
			return
		}
		logman.Info("server", fmt.Sprintf("ircd-pony v%s starting", irc.Ver))
		server.Run()
	}
}
