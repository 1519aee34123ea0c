// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// NICK <nickname>
// claims or renames to a nickname. Also the first half of registration.
func nickHandler(server *Server, client *Client, msg ircmsg.Message) bool {
	if len(msg.Params) < 1 {
		client.sendNumeric(ERR_NONICKNAMEGIVEN, "No nickname given")
		return false
	}

	if _, err := server.clients.SetNick(client, msg.Params[0]); err != nil {
		// both a malformed nickname and a lost claim race leave the
		// previous nickname (or its absence) untouched
		client.sendNumeric(ERR_ERRONEUSNICKNAME, msg.Params[0], "Erroneous nickname")
		return false
	}
	return false
}

// USER <username> <hostname> <servername> <realname>
// the second half of registration. Ignored once registered.
func userHandler(server *Server, client *Client, msg ircmsg.Message) bool {
	if client.Registered() {
		return false
	}

	if err := client.SetNames(msg.Params[0], msg.Params[3]); err != nil {
		server.logger.Debug("in", "invalid username rejected:", msg.Params[0])
	}
	return false
}

// PING <token>
func pingHandler(server *Server, client *Client, msg ircmsg.Message) bool {
	client.Send("", "PONG", msg.Params[0])
	return false
}

// PRIVMSG <target> <message>
func privmsgHandler(server *Server, client *Client, msg ircmsg.Message) bool {
	if len(msg.Params) < 1 {
		client.sendNumeric(ERR_NORECIPIENT, "No recipient given (PRIVMSG)")
		return false
	}
	if len(msg.Params) < 2 {
		client.sendNumeric(ERR_NOTEXTTOSEND, "No text to send")
		return false
	}

	target, text := msg.Params[0], msg.Params[1]
	if strings.HasPrefix(target, "#") {
		if err := server.channels.Message(client, target, text); err != nil {
			client.sendNumeric(ERR_NOSUCHCHANNEL, target, "No such channel")
		}
		return false
	}

	// a message to an unknown nickname is dropped without a reply
	if recipient := server.clients.Get(target); recipient != nil {
		recipient.Send(client.NickMaskString(), "PRIVMSG", target, text)
	}
	return false
}

// JOIN <channel>{,<channel>}
func joinHandler(server *Server, client *Client, msg ircmsg.Message) bool {
	for _, name := range strings.Split(msg.Params[0], ",") {
		if err := server.channels.Join(client, name); err != nil {
			client.sendNumeric(ERR_NOSUCHCHANNEL, name, "No such channel")
		}
	}
	return false
}

// PART <channel>{,<channel>}
func partHandler(server *Server, client *Client, msg ircmsg.Message) bool {
	for _, name := range strings.Split(msg.Params[0], ",") {
		if err := server.channels.Part(client, name); err != nil {
			client.sendNumeric(ERR_NOSUCHCHANNEL, name, "No such channel")
		}
	}
	return false
}

// TOPIC <channel> [<topic>]
func topicHandler(server *Server, client *Client, msg ircmsg.Message) bool {
	var err error
	if len(msg.Params) > 1 {
		err = server.channels.SetTopic(client, msg.Params[0], msg.Params[1])
	} else {
		err = server.channels.Topic(client, msg.Params[0])
	}
	if err != nil {
		client.sendNumeric(ERR_NOSUCHCHANNEL, msg.Params[0], "No such channel")
	}
	return false
}

// NAMES <channel>{,<channel>}
func namesHandler(server *Server, client *Client, msg ircmsg.Message) bool {
	for _, name := range strings.Split(msg.Params[0], ",") {
		server.channels.SendNames(client, name)
	}
	return false
}

// LIST
func listHandler(server *Server, client *Client, msg ircmsg.Message) bool {
	server.channels.ListChannels(client)
	return false
}

// QUIT [<message>]
func quitHandler(server *Server, client *Client, msg ircmsg.Message) bool {
	message := "Client Quit"
	if len(msg.Params) > 0 {
		message = msg.Params[0]
	}
	client.Quit(message)
	return true
}
