// Copyright (c) 2017 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"testing"
)

func TestChannelLifecycle(t *testing.T) {
	server := newTestServer()
	alice, aliceConn := newTestClient(t, server, "alice")

	if err := server.channels.Join(alice, "#test"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if server.channels.Get("#test") == nil {
		t.Fatal("channel was not created on first join")
	}
	// join echo, names reply, end of names; a new channel has no topic to send
	lines := aliceConn.awaitLines(t, 3)
	if lines[0] != ":alice!~alice@unknown.host JOIN :#test" {
		t.Errorf("got %q", lines[0])
	}
	if lines[1] != ":ircd.example 353 alice = #test :alice" {
		t.Errorf("got %q", lines[1])
	}
	if lines[2] != ":ircd.example 366 alice #test :End of /NAMES list" {
		t.Errorf("got %q", lines[2])
	}
	aliceConn.drain()

	// a repeated join is a no-op
	if err := server.channels.Join(alice, "#test"); err != nil {
		t.Fatalf("repeated join failed: %v", err)
	}
	if members := len(server.channels.Get("#test").members); members != 1 {
		t.Errorf("expected 1 member after duplicate join, got %d", members)
	}

	// the last part deletes the channel
	if err := server.channels.Part(alice, "#test"); err != nil {
		t.Fatalf("part failed: %v", err)
	}
	if server.channels.Get("#test") != nil {
		t.Error("channel should be deleted once its last member parts")
	}
	if err := server.channels.Topic(alice, "#test"); err != errNoSuchChannel {
		t.Errorf("expected topic query on a deleted channel to fail, got %v", err)
	}
	if server.channels.Len() != 0 {
		t.Errorf("expected no channels, got %d", server.channels.Len())
	}
}

func TestChannelJoinValidation(t *testing.T) {
	server := newTestServer()
	alice, _ := newTestClient(t, server, "alice")

	for _, name := range []string{"", "#", "nohash", "#with space", "#with,comma"} {
		if err := server.channels.Join(alice, name); err != errInvalidChannel {
			t.Errorf("expected join of %q to be rejected, got %v", name, err)
		}
	}
}

func TestTopicBroadcastFanout(t *testing.T) {
	server := newTestServer()
	clients := make([]*Client, 3)
	conns := make([]*mockConn, 3)
	nicks := []string{"alice", "bob", "carol"}
	for i, nick := range nicks {
		clients[i], conns[i] = newTestClient(t, server, nick)
		if err := server.channels.Join(clients[i], "#test"); err != nil {
			t.Fatalf("join failed: %v", err)
		}
	}
	// everyone saw their own join burst plus each later member's join echo;
	// drain before the interesting part
	for i := range conns {
		conns[i].awaitLines(t, 3+(len(conns)-1-i))
		conns[i].drain()
	}

	if err := server.channels.SetTopic(clients[0], "#test", "no ponies allowed"); err != nil {
		t.Fatalf("setTopic failed: %v", err)
	}

	// every member, the setter included, sees exactly one TOPIC event
	expected := ":alice!~alice@unknown.host TOPIC #test :no ponies allowed"
	for i := range conns {
		lines := conns[i].awaitLines(t, 1)
		if lines[0] != expected {
			t.Errorf("%s: expected %q, got %q", nicks[i], expected, lines[0])
		}
		conns[i].drain()
	}

	// the update is visible to subsequent topic queries
	if err := server.channels.Topic(clients[1], "#test"); err != nil {
		t.Fatalf("topic query failed: %v", err)
	}
	lines := conns[1].awaitLines(t, 1)
	if lines[0] != ":ircd.example 332 bob #test :no ponies allowed" {
		t.Errorf("got %q", lines[0])
	}
}

func TestTopicQueryNoTopic(t *testing.T) {
	server := newTestServer()
	alice, aliceConn := newTestClient(t, server, "alice")
	if err := server.channels.Join(alice, "#test"); err != nil {
		t.Fatal(err)
	}
	aliceConn.awaitLines(t, 3)
	aliceConn.drain()

	if err := server.channels.Topic(alice, "#test"); err != nil {
		t.Fatal(err)
	}
	lines := aliceConn.awaitLines(t, 1)
	if lines[0] != ":ircd.example 331 alice #test :No topic is set" {
		t.Errorf("got %q", lines[0])
	}
}

func TestChannelNamesAreCaseSensitive(t *testing.T) {
	server := newTestServer()
	alice, _ := newTestClient(t, server, "alice")
	bob, _ := newTestClient(t, server, "bob")

	server.channels.Join(alice, "#Test")
	server.channels.Join(bob, "#test")
	if server.channels.Len() != 2 {
		t.Errorf("#Test and #test should be distinct channels, got %d", server.channels.Len())
	}
}

func TestSendNames(t *testing.T) {
	server := newTestServer()
	alice, aliceConn := newTestClient(t, server, "alice")
	bob, _ := newTestClient(t, server, "bob")
	server.channels.Join(alice, "#test")
	server.channels.Join(bob, "#test")
	aliceConn.awaitLines(t, 4)
	aliceConn.drain()

	server.channels.SendNames(alice, "#test")
	lines := aliceConn.awaitLines(t, 2)
	if lines[0] != ":ircd.example 353 alice = #test :alice bob" {
		t.Errorf("got %q", lines[0])
	}
	if lines[1] != ":ircd.example 366 alice #test :End of /NAMES list" {
		t.Errorf("got %q", lines[1])
	}
	aliceConn.drain()

	// a channel nobody is in has an empty member set, not an error
	server.channels.SendNames(alice, "#void")
	lines = aliceConn.awaitLines(t, 1)
	if lines[0] != ":ircd.example 366 alice #void :End of /NAMES list" {
		t.Errorf("got %q", lines[0])
	}
}

func TestListChannels(t *testing.T) {
	server := newTestServer()
	alice, aliceConn := newTestClient(t, server, "alice")
	bob, _ := newTestClient(t, server, "bob")

	server.channels.Join(alice, "#apples")
	server.channels.Join(bob, "#apples")
	server.channels.Join(bob, "#bananas")
	server.channels.SetTopic(bob, "#bananas", "fruit talk")
	aliceConn.awaitLines(t, 4)
	aliceConn.drain()

	server.channels.ListChannels(alice)
	lines := aliceConn.awaitLines(t, 4)
	if lines[0] != ":ircd.example 321 alice Channel :Users  Name" {
		t.Errorf("got %q", lines[0])
	}
	if lines[1] != ":ircd.example 322 alice #apples 2 :" {
		t.Errorf("got %q", lines[1])
	}
	if lines[2] != ":ircd.example 322 alice #bananas 1 :fruit talk" {
		t.Errorf("got %q", lines[2])
	}
	if lines[3] != ":ircd.example 323 alice :End of /LIST" {
		t.Errorf("got %q", lines[3])
	}
}

func TestQuitsNotifiesChannels(t *testing.T) {
	server := newTestServer()
	alice, aliceConn := newTestClient(t, server, "alice")
	bob, _ := newTestClient(t, server, "bob")

	server.channels.Join(alice, "#shared")
	server.channels.Join(bob, "#shared")
	server.channels.Join(bob, "#solo")
	aliceConn.awaitLines(t, 4)
	aliceConn.drain()

	server.channels.Quits(bob)

	// alice sees exactly one PART, for the shared channel only
	lines := aliceConn.awaitLines(t, 1)
	if lines[0] != ":bob!~bob@unknown.host PART :#shared" {
		t.Errorf("got %q", lines[0])
	}
	// the emptied channel is gone, the shared one survives
	if server.channels.Get("#solo") != nil {
		t.Error("#solo should be deleted after its only member quit")
	}
	if server.channels.Get("#shared") == nil {
		t.Error("#shared should survive with a remaining member")
	}
}

func TestChannelMessage(t *testing.T) {
	server := newTestServer()
	alice, aliceConn := newTestClient(t, server, "alice")
	bob, bobConn := newTestClient(t, server, "bob")

	server.channels.Join(alice, "#test")
	server.channels.Join(bob, "#test")
	aliceConn.awaitLines(t, 4)
	aliceConn.drain()
	bobConn.awaitLines(t, 3)
	bobConn.drain()

	if err := server.channels.Message(alice, "#test", "hello channel"); err != nil {
		t.Fatal(err)
	}
	lines := bobConn.awaitLines(t, 1)
	if lines[0] != ":alice!~alice@unknown.host PRIVMSG #test :hello channel" {
		t.Errorf("got %q", lines[0])
	}
	// no echo to the sender
	if len(aliceConn.Lines()) != 0 {
		t.Errorf("sender should not see their own channel message: %#v", aliceConn.Lines())
	}
}
