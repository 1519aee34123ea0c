// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"github.com/ergochat/irc-go/ircmsg"
)

// Command represents a command accepted from a client.
type Command struct {
	handler      func(server *Server, client *Client, msg ircmsg.Message) bool
	usablePreReg bool
	minParams    int
}

// Run runs a command with the given client/message. It returns true if the
// client is exiting (i.e. on QUIT).
func (cmd *Command) Run(server *Server, client *Client, msg ircmsg.Message) (exiting bool) {
	if !client.Registered() && !cmd.usablePreReg {
		// before registration, anything that isn't part of the handshake is
		// ignored with a diagnostic, not answered
		server.logger.Debug("in", "command before registration ignored:", msg.Command)
		return false
	}
	if len(msg.Params) < cmd.minParams {
		client.sendNumeric(ERR_NEEDMOREPARAMS, msg.Command, "Not enough parameters")
		return false
	}

	exiting = cmd.handler(server, client, msg)

	// both nick and username have to be set before the transition fires;
	// any handshake command can be the one that completes the pair
	if !exiting && !client.Registered() {
		server.tryRegister(client)
	}
	return exiting
}

// Commands holds all commands executable by a client connected to us.
var Commands = map[string]Command{
	"NICK": {
		handler:      nickHandler,
		usablePreReg: true,
	},
	"USER": {
		handler:      userHandler,
		usablePreReg: true,
		minParams:    4,
	},
	"PING": {
		handler:   pingHandler,
		minParams: 1,
	},
	"PRIVMSG": {
		handler: privmsgHandler,
	},
	"JOIN": {
		handler:   joinHandler,
		minParams: 1,
	},
	"PART": {
		handler:   partHandler,
		minParams: 1,
	},
	"TOPIC": {
		handler:   topicHandler,
		minParams: 1,
	},
	"NAMES": {
		handler:   namesHandler,
		minParams: 1,
	},
	"LIST": {
		handler: listHandler,
	},
	"QUIT": {
		handler:      quitHandler,
		usablePreReg: true,
	},
}
