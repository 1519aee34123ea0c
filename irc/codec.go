// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"bytes"

	"github.com/ergochat/irc-go/ircmsg"
)

const (
	// maxLineLen is the maximum length of the non-tag portion of a wire line,
	// CRLF included.
	maxLineLen = 512
)

var (
	crlf = []byte{'\r', '\n'}

	// these are all the output commands that MUST have their last param be a
	// trailing param (preceded by a colon) even when it contains no spaces.
	// this is needed because dumb clients like to treat trailing params
	// separately from the other params in messages.
	commandsThatMustUseTrailing = map[string]bool{
		"PRIVMSG": true,
		"NOTICE":  true,
		"JOIN":    true,
		"PART":    true,
		"TOPIC":   true,
		"PONG":    true,
		"ERROR":   true,

		RPL_NAMREPLY: true,
	}
)

// ParseLine parses one wire line (without its CRLF terminator) into a
// message. The command token is uppercased; whether it belongs to the
// command vocabulary is the dispatch table's concern, so unrecognized
// commands parse successfully and carry their raw token. Parsing fails only
// when no command token can be found at all, e.g. an empty line or a
// dangling prefix.
func ParseLine(line string) (msg ircmsg.Message, err error) {
	return ircmsg.ParseLineStrict(line, true, maxLineLen)
}

// RenderLine assembles a wire line from a prefix, a command or numeric code,
// and its params. The returned line carries no terminator; appending CRLF is
// the transport's business. An empty prefix renders a prefixless line (used
// for PONG).
func RenderLine(prefix, command string, params ...string) (line []byte, err error) {
	msg := ircmsg.MakeMessage(nil, prefix, command, params...)
	if commandsThatMustUseTrailing[command] {
		msg.ForceTrailing()
	}
	line, err = msg.LineBytesStrict(false, maxLineLen)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(line, crlf), nil
}
