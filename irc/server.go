// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/okzk/sdnotify"

	"github.com/chinnucsk/ircd-pony/irc/logger"
)

var (
	// ServerExitSignals are the signals the server will exit on.
	ServerExitSignals = []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
)

// Server is the main IRC server.
type Server struct {
	name     string // server name, the source of our numerics
	network  string // network name, quoted in the welcome numeric
	clients  *ClientManager
	channels *ChannelManager
	logger   *logger.Manager

	configMutex sync.RWMutex
	config      *Config

	listeners   map[string]*NetListener
	wsListeners map[string]*WSListener

	rehashMutex sync.Mutex
	signals     chan os.Signal
}

// NewServer returns a new Server.
func NewServer(config *Config, logger *logger.Manager) (*Server, error) {
	server := &Server{
		name:        config.Server.Name,
		network:     config.Network.Name,
		clients:     NewClientManager(),
		channels:    NewChannelManager(),
		logger:      logger,
		config:      config,
		listeners:   make(map[string]*NetListener),
		wsListeners: make(map[string]*WSListener),
		signals:     make(chan os.Signal, len(ServerExitSignals)+1),
	}

	if err := server.setupListeners(config); err != nil {
		return nil, err
	}

	signal.Notify(server.signals, ServerExitSignals...)
	signal.Notify(server.signals, syscall.SIGHUP)

	return server, nil
}

// Config returns the current configuration.
func (server *Server) Config() *Config {
	server.configMutex.RLock()
	defer server.configMutex.RUnlock()
	return server.config
}

// Run starts the server, listening for signals until shutdown.
func (server *Server) Run() {
	sdnotify.Ready()
	for {
		sig := <-server.signals
		if sig == syscall.SIGHUP {
			server.logger.Info("server", "rehashing due to SIGHUP")
			if err := server.rehash(); err != nil {
				server.logger.Error("server", "rehash failed", err.Error())
			}
			continue
		}
		server.logger.Info("server", fmt.Sprintf("Shutting down on %v", sig))
		server.shutdown()
		return
	}
}

// tryRegister fires the registration transition once both halves of the
// handshake have landed, sending the welcome burst to the new client.
func (server *Server) tryRegister(client *Client) {
	if !client.HasNick() || !client.HasUsername() {
		return
	}
	if !client.SetRegistered() {
		return
	}

	nick := client.Nick()
	client.sendNumeric(RPL_WELCOME,
		fmt.Sprintf("Welcome to the %s Internet Relay Chat Network %s", server.network, nick))
	client.sendNumeric(RPL_YOURHOST,
		fmt.Sprintf("Your host is %s, running version %s", server.name, Ver))

	server.logger.Info("connect", "client registered", nick, "("+client.Realname()+")")
}

func (server *Server) setupListeners(config *Config) (err error) {
	for addr, conf := range config.Server.Listeners {
		if conf.WebSocket {
			wsListener, wsErr := server.newWSListener(addr, conf)
			if wsErr != nil {
				return wsErr
			}
			server.wsListeners[addr] = wsListener
		} else {
			netListener, netErr := server.newNetListener(addr, conf)
			if netErr != nil {
				return netErr
			}
			server.listeners[addr] = netListener
		}
		server.logger.Info("listeners", fmt.Sprintf("now listening on %s", addr))
	}
	return nil
}

// rehash reloads the configuration file. Only logging and per-connection
// settings can change at runtime; the server identity and listener set are
// fixed at startup.
func (server *Server) rehash() error {
	server.rehashMutex.Lock()
	defer server.rehashMutex.Unlock()

	config, err := LoadConfig(server.Config().Filename)
	if err != nil {
		return err
	}
	if config.Server.Name != server.name {
		return errors.New("Server name cannot be changed on rehash")
	}
	if config.Network.Name != server.network {
		return errors.New("Network name cannot be changed on rehash")
	}

	if err := server.logger.ApplyConfig(config.Logging); err != nil {
		return err
	}

	server.configMutex.Lock()
	server.config = config
	server.configMutex.Unlock()

	server.logger.Info("server", "rehash complete")
	return nil
}

func (server *Server) shutdown() {
	sdnotify.Stopping()
	for _, listener := range server.listeners {
		listener.Stop()
	}
	for _, wsListener := range server.wsListeners {
		wsListener.Stop()
	}
}
