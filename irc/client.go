// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"net"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	ident "github.com/ergochat/go-ident"

	"github.com/chinnucsk/ircd-pony/irc/utils"
)

const (
	// IdentTimeout is how long before our ident (username) lookup times out.
	IdentTimeout = time.Second + 500*time.Millisecond
)

// cap on the number of reverse DNS lookups in flight at once, so a stalled
// resolver can't pile up goroutines
var hostnameLookupSem utils.Semaphore

func init() {
	hostnameLookupSem.Initialize(32)
}

// Client is the internal representation of a connected user.
type Client struct {
	server *Server
	socket *Socket

	// ready is the listener's backpressure channel; closing it tells the
	// listener to admit the next connection. closed exactly once, after the
	// greeting banner has been sent and the peer's hostname resolved.
	ready     chan<- struct{}
	readyOnce sync.Once

	stateMutex     sync.RWMutex // tier 1
	nick           string
	nickCasefolded string
	skeleton       string
	username       string
	identUsername  string
	realname       string
	rawHostname    string
	nickMaskString string // nick!user@host
	registered     bool
	destroyed      bool
	quitMessage    string
}

// RunClient sets up a new client and runs its main loop. It does not return
// until the connection is finished. `ready` is closed once the client has
// completed its handshake; the listener blocks on it before accepting the
// next connection.
func (server *Server) RunClient(conn IRCConn, ready chan<- struct{}) {
	config := server.Config()
	client := &Client{
		server: server,
		socket: NewSocket(conn, config.Server.MaxSendQBytes),
		ready:  ready,
	}
	client.run()
}

func (client *Client) run() {
	defer func() {
		if r := recover(); r != nil {
			client.server.logger.Error("internal",
				fmt.Sprintf("Client caused panic: %v\n%s", r, debug.Stack()))
		}
		client.destroy()
	}()

	client.preregNotice(fmt.Sprintf("Processing connection to %s", client.server.name))
	client.lookupHostname()
	if client.server.Config().Server.CheckIdent {
		client.doIdentLookup()
	}
	// handshake complete: let the listener accept the next connection
	client.ackListener()

	for {
		line, err := client.socket.Read()
		if err != nil {
			quitMessage := "connection closed"
			if err == errReadQ {
				quitMessage = "readQ exceeded"
			}
			client.Quit(quitMessage)
			return
		}

		if client.server.logger.IsLoggingRawIO() {
			client.server.logger.Debug("userinput", client.Nick(), " <- ", line)
		}

		msg, err := ParseLine(line)
		if err != nil {
			// a line with no command token is discarded, not fatal
			client.server.logger.Debug("in", "invalid line dropped from", client.Nick())
			continue
		}

		cmd, exists := Commands[msg.Command]
		if !exists {
			client.server.logger.Debug("in", "unknown command", msg.Command, "from", client.Nick())
			continue
		}

		if exiting := cmd.Run(client.server, client, msg); exiting {
			return
		}
	}
}

// ackListener signals the listener, exactly once, that this connection has
// finished its handshake.
func (client *Client) ackListener() {
	client.readyOnce.Do(func() {
		if client.ready != nil {
			close(client.ready)
		}
	})
}

// preregNotice sends a NOTICE AUTH line, the pre-registration status channel.
// These are written synchronously: the greeting must be on the wire before
// the listener is acked for the next connection.
func (client *Client) preregNotice(text string) {
	line, err := RenderLine(client.server.name, "NOTICE", "AUTH", "*** "+text)
	if err != nil {
		return
	}
	if client.server.logger.IsLoggingRawIO() {
		client.server.logger.Debug("useroutput", client.Nick(), " -> ", string(line))
	}
	client.socket.BlockingWrite(append(line, '\r', '\n'))
}

// lookupHostname determines the hostname we will show for the client,
// reporting progress over NOTICE AUTH.
func (client *Client) lookupHostname() {
	client.preregNotice("Looking up your hostname...")

	ip := utils.AddrToIP(client.socket.conn.UnderlyingConn().RemoteAddr())
	if ip == nil {
		client.preregNotice("Couldn't look up your hostname")
		client.setRawHostname("unknown.host")
		return
	}

	ipString := ip.String()
	if !client.server.Config().Server.LookupHostnames {
		client.preregNotice("Found your hostname")
		client.setRawHostname(utils.IPStringToHostname(ipString))
		return
	}

	hostnameLookupSem.Acquire()
	names, err := net.LookupAddr(ipString)
	hostnameLookupSem.Release()
	if err == nil && len(names) > 0 {
		candidate := strings.TrimSuffix(names[0], ".")
		if utils.IsHostname(candidate) {
			client.preregNotice("Found your hostname")
			client.setRawHostname(candidate)
			return
		}
	}
	client.preregNotice("Couldn't look up your hostname")
	client.setRawHostname(utils.IPStringToHostname(ipString))
}

func (client *Client) doIdentLookup() {
	conn := client.socket.conn.UnderlyingConn()
	localTCPAddr, ok := conn.LocalAddr().(*net.TCPAddr)
	if !ok {
		return
	}
	remoteTCPAddr, ok := conn.RemoteAddr().(*net.TCPAddr)
	if !ok {
		return
	}

	client.preregNotice("Checking Ident")
	resp, err := ident.Query(remoteTCPAddr.IP.String(), localTCPAddr.Port, remoteTCPAddr.Port, IdentTimeout)
	if err == nil && len(resp.Identifier) > 0 {
		if _, err := CasefoldUsername(resp.Identifier); err == nil {
			client.setIdentUsername(resp.Identifier)
			client.preregNotice("Found your username")
			return
		}
	}
	client.preregNotice("Could not find your username")
}

// Send renders a single protocol line from `prefix`, `command` and `params`
// and queues it on the client's socket. This is the only path by which
// events reach a client, whether originated by its own commands or pushed
// by another session.
func (client *Client) Send(prefix, command string, params ...string) (err error) {
	line, err := RenderLine(prefix, command, params...)
	if err != nil {
		client.server.logger.Error("internal",
			fmt.Sprintf("Could not render line to %s: %v", client.Nick(), err))
		return err
	}

	if client.server.logger.IsLoggingRawIO() {
		client.server.logger.Debug("useroutput", client.Nick(), " -> ", string(line))
	}

	line = append(line, '\r', '\n')
	return client.socket.Write(line)
}

// sendNumeric sends a numeric reply addressed to the client's current nick,
// falling back to the placeholder "*" before a nick is set.
func (client *Client) sendNumeric(numeric string, params ...string) {
	target := client.Nick()
	if target == "" {
		target = "*"
	}
	fullParams := make([]string, 0, len(params)+1)
	fullParams = append(fullParams, target)
	fullParams = append(fullParams, params...)
	client.Send(client.server.name, numeric, fullParams...)
}

// Quit marks the client as quitting with the given message; the main loop
// exits and destroy finishes the teardown.
func (client *Client) Quit(message string) {
	client.setQuitMessage(message)
	quitLine, err := RenderLine("", "ERROR", message)
	if err == nil {
		client.socket.SetFinalData(append(quitLine, '\r', '\n'))
	}
}

// destroy tears the client down: the nickname is released, the channels the
// client belonged to are notified, and the connection is closed. Idempotent.
func (client *Client) destroy() {
	client.stateMutex.Lock()
	alreadyDestroyed := client.destroyed
	client.destroyed = true
	quitMessage := client.quitMessage
	client.stateMutex.Unlock()

	if alreadyDestroyed {
		return
	}

	// a connection that died during its handshake must still unblock the listener
	client.ackListener()

	client.server.channels.Quits(client)
	client.server.clients.Remove(client)
	client.socket.Close()

	if quitMessage == "" {
		quitMessage = "connection closed"
	}
	client.server.logger.Debug("server", "client disconnected", client.Nick(), "("+quitMessage+")")
}
