// Copyright (c) 2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	testCases := []struct {
		line    string
		source  string
		command string
		params  []string
	}{
		{"NICK alice", "", "NICK", []string{"alice"}},
		{"nick alice", "", "NICK", []string{"alice"}},
		{"USER b 0 * :Bob Real", "", "USER", []string{"b", "0", "*", "Bob Real"}},
		{":irc.example PING token", "irc.example", "PING", []string{"token"}},
		{"PRIVMSG #chan :hello :world", "", "PRIVMSG", []string{"#chan", "hello :world"}},
		{"LIST", "", "LIST", nil},
		// unrecognized commands parse fine; rejecting them is dispatch's job
		{"WIBBLE a b", "", "WIBBLE", []string{"a", "b"}},
	}

	for _, tc := range testCases {
		msg, err := ParseLine(tc.line)
		if err != nil {
			t.Errorf("Could not parse %q: %v", tc.line, err)
			continue
		}
		if msg.Source != tc.source {
			t.Errorf("%q: expected source %q, got %q", tc.line, tc.source, msg.Source)
		}
		if msg.Command != tc.command {
			t.Errorf("%q: expected command %q, got %q", tc.line, tc.command, msg.Command)
		}
		if len(msg.Params) != 0 || len(tc.params) != 0 {
			if !reflect.DeepEqual(msg.Params, tc.params) {
				t.Errorf("%q: expected params %#v, got %#v", tc.line, tc.params, msg.Params)
			}
		}
	}
}

func TestParseLineFailures(t *testing.T) {
	for _, line := range []string{"", "    ", ":prefix.only"} {
		if _, err := ParseLine(line); err == nil {
			t.Errorf("expected parsing of %q to fail", line)
		}
	}
}

func TestRenderLine(t *testing.T) {
	testCases := []struct {
		prefix  string
		command string
		params  []string
		expect  string
	}{
		{
			"ircd.example", RPL_WELCOME,
			[]string{"alice", "Welcome to the PonyNet Internet Relay Chat Network alice"},
			":ircd.example 001 alice :Welcome to the PonyNet Internet Relay Chat Network alice",
		},
		{
			"alice!~a@localhost", "JOIN", []string{"#chat"},
			":alice!~a@localhost JOIN :#chat",
		},
		{
			"alice!~a@localhost", "PART", []string{"#chat"},
			":alice!~a@localhost PART :#chat",
		},
		{
			"alice!~a@localhost", "TOPIC", []string{"#chat", "no ponies allowed"},
			":alice!~a@localhost TOPIC #chat :no ponies allowed",
		},
		{
			"alice!~a@localhost", "PRIVMSG", []string{"bob", "hi"},
			":alice!~a@localhost PRIVMSG bob :hi",
		},
		{
			"", "PONG", []string{"ircd.example"},
			"PONG :ircd.example",
		},
		{
			"ircd.example", RPL_NAMREPLY, []string{"alice", "=", "#chat", "alice"},
			":ircd.example 353 alice = #chat :alice",
		},
		{
			"ircd.example", RPL_NOTOPIC, []string{"alice", "#chat", "No topic is set"},
			":ircd.example 331 alice #chat :No topic is set",
		},
	}

	for _, tc := range testCases {
		line, err := RenderLine(tc.prefix, tc.command, tc.params...)
		if err != nil {
			t.Errorf("Could not render %s: %v", tc.command, err)
			continue
		}
		if string(line) != tc.expect {
			t.Errorf("expected %q, got %q", tc.expect, string(line))
		}
		if strings.HasSuffix(string(line), "\r\n") {
			t.Errorf("rendered line %q should not carry a terminator", string(line))
		}
	}
}
