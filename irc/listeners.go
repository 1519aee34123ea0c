// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// NetListener accepts connections on a TCP, TLS or unix-socket address and
// starts one client per connection. It admits connections one at a time:
// after each accept it waits for the new client to finish its handshake
// before accepting the next.
type NetListener struct {
	listener net.Listener
	server   *Server
	addr     string
	stopped  atomic.Bool
}

func (server *Server) newNetListener(addr string, conf listenerConfig) (*NetListener, error) {
	listener, err := createBaseListener(addr)
	if err != nil {
		return nil, err
	}

	if conf.TLS.Cert != "" {
		tlsConfig, err := loadTLSConfig(conf.TLS)
		if err != nil {
			return nil, err
		}
		listener = tls.NewListener(listener, tlsConfig)
	}

	nl := &NetListener{
		listener: listener,
		server:   server,
		addr:     addr,
	}
	go nl.serve()
	return nl, nil
}

// Stop closes the listener. In-flight connections are unaffected.
func (nl *NetListener) Stop() error {
	nl.stopped.Store(true)
	return nl.listener.Close()
}

func (nl *NetListener) serve() {
	for {
		conn, err := nl.listener.Accept()
		if err != nil {
			if !nl.stopped.Load() {
				nl.server.logger.Error("listeners", fmt.Sprintf("accept error on %s: %v", nl.addr, err))
			}
			return
		}

		// wait for the new client's handshake ack before admitting another
		// connection; a slow greeting throttles the accept rate
		ready := make(chan struct{})
		go nl.server.RunClient(NewIRCStreamConn(conn), ready)
		<-ready
	}
}

// WSListener accepts websocket connections over HTTP and runs each upgraded
// connection as a normal client.
type WSListener struct {
	httpServer *http.Server
	server     *Server
	addr       string
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  maxLineLen,
	WriteBufferSize: maxLineLen,
	Subprotocols:    []string{"text.ircv3.net"},
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (server *Server) newWSListener(addr string, conf listenerConfig) (*WSListener, error) {
	listener, err := createBaseListener(addr)
	if err != nil {
		return nil, err
	}

	wl := &WSListener{
		server: server,
		addr:   addr,
	}
	wl.httpServer = &http.Server{
		Handler:      http.HandlerFunc(wl.handle),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		var serveErr error
		if conf.TLS.Cert != "" {
			serveErr = wl.httpServer.ServeTLS(listener, conf.TLS.Cert, conf.TLS.Key)
		} else {
			serveErr = wl.httpServer.Serve(listener)
		}
		if serveErr != nil && serveErr != http.ErrServerClosed {
			server.logger.Error("listeners", fmt.Sprintf("websocket serve error on %s: %v", addr, serveErr))
		}
	}()
	return wl, nil
}

func (wl *WSListener) Stop() error {
	return wl.httpServer.Close()
}

func (wl *WSListener) handle(w http.ResponseWriter, r *http.Request) {
	wsConn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		wl.server.logger.Info("listeners", fmt.Sprintf("websocket upgrade error on %s: %v", wl.addr, err))
		return
	}

	// the http handler goroutine is per-connection already, so no accept
	// throttling applies here
	wl.server.RunClient(NewIRCWSConn(wsConn), nil)
}

// createBaseListener listens on a TCP address, or on a unix socket if the
// address is given as an absolute path.
func createBaseListener(addr string) (net.Listener, error) {
	if strings.HasPrefix(addr, "/") {
		// permissions sanity: the socket is world-connectable, like a TCP port
		return net.Listen("unix", addr)
	}
	return net.Listen("tcp", addr)
}

func loadTLSConfig(conf TLSListenConfig) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(conf.Cert, conf.Key)
	if err != nil {
		return nil, ErrInvalidCertKeyPair
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
	}, nil
}
