// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2017 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"io"
	"sync"
)

// Socket represents an IRC socket. Writes are queued in an in-memory buffer
// and flushed by a single background goroutine, so command handlers never
// block on a slow peer.
type Socket struct {
	conn IRCConn

	maxSendQBytes int

	// this mutex protects the buffer and the flags:
	sync.Mutex
	buffers       [][]byte
	closed        bool
	sendQExceeded bool
	finalData     []byte // what to send when we die
	finalized     bool

	writerSlotOpen chan bool
}

// NewSocket returns a new Socket.
func NewSocket(conn IRCConn, maxSendQBytes int) *Socket {
	result := Socket{
		conn:           conn,
		maxSendQBytes:  maxSendQBytes,
		writerSlotOpen: make(chan bool, 1),
	}
	result.writerSlotOpen <- true
	return &result
}

// Close stops a Socket from being able to send/receive any more data.
func (socket *Socket) Close() {
	socket.Lock()
	socket.closed = true
	socket.Unlock()

	socket.wakeWriter()
}

// Read returns a single IRC line from a Socket.
func (socket *Socket) Read() (string, error) {
	// immediately fail if Close() has been called, even if there's
	// still data in a bufio.Reader or websocket buffer:
	if socket.IsClosed() {
		return "", io.EOF
	}

	lineBytes, err := socket.conn.ReadLine()
	line := string(lineBytes)
	return line, err
}

// Write sends the given string out of Socket. Requires a terminated line.
func (socket *Socket) Write(data []byte) (err error) {
	if len(data) == 0 {
		return
	}

	socket.Lock()
	if socket.closed {
		err = io.EOF
	} else {
		var currentLen int
		for _, buffer := range socket.buffers {
			currentLen += len(buffer)
		}
		if currentLen+len(data) > socket.maxSendQBytes {
			socket.sendQExceeded = true
			socket.closed = true
			err = errSendQExceeded
		} else {
			socket.buffers = append(socket.buffers, data)
		}
	}
	socket.Unlock()

	socket.wakeWriter()
	return
}

// BlockingWrite sends the given string out of Socket. Requires a terminated line.
// If the socket is in a non-error state, blocks until the write succeeds.
func (socket *Socket) BlockingWrite(data []byte) (err error) {
	if len(data) == 0 {
		return
	}

	defer func() {
		if err == nil && socket.IsClosed() {
			err = io.EOF
		}
	}()

	// blocking acquire of the trylock
	<-socket.writerSlotOpen
	defer func() {
		socket.writerSlotOpen <- true
	}()

	// first, flush any buffered data, to preserve the ordering guarantees
	socket.performWrite()
	if socket.IsClosed() {
		return io.EOF
	}

	err = socket.conn.WriteLine(data)
	if err != nil {
		socket.finalize()
	}
	return
}

// wakeWriter starts the goroutine that actually performs the write, if necessary.
func (socket *Socket) wakeWriter() {
	select {
	case <-socket.writerSlotOpen:
		// got the trylock: let's lease it out to a new goroutine
		go socket.send()
	default:
		// someone else has the lock and will take care of it
	}
}

// SetFinalData sets the final data to send when the socket is closed.
func (socket *Socket) SetFinalData(data []byte) {
	socket.Lock()
	defer socket.Unlock()
	socket.finalData = data
}

// IsClosed returns whether the socket is closed.
func (socket *Socket) IsClosed() bool {
	socket.Lock()
	defer socket.Unlock()
	return socket.closed
}

// send actually writes messages to socket.conn; it may block
func (socket *Socket) send() {
	for {
		// we are holding the trylock: actually do the write
		socket.performWrite()
		// surrender the trylock:
		socket.writerSlotOpen <- true
		// check if more data came in while we held the trylock:
		if !socket.readyToWrite() {
			return
		}
		select {
		case <-socket.writerSlotOpen:
			// got the trylock again, loop back around and write
		default:
			// someone else got the trylock
			return
		}
	}
}

func (socket *Socket) readyToWrite() bool {
	socket.Lock()
	defer socket.Unlock()
	// on closure, we must have invoked the actual close and sent the final data
	return !socket.finalized && (len(socket.buffers) > 0 || socket.closed)
}

// performWrite drains the buffer, writing its contents to the connection
func (socket *Socket) performWrite() {
	// retrieve the buffered data:
	socket.Lock()
	buffers := socket.buffers
	socket.buffers = nil
	socket.Unlock()

	var err error
	for _, buf := range buffers {
		if err = socket.conn.WriteLine(buf); err != nil {
			break
		}
	}
	if err != nil {
		socket.finalize()
		return
	}

	// check the closed flag again, last chance to send finalData
	if socket.IsClosed() {
		socket.finalize()
	}
}

// mark closed and send final data. you must be holding the trylock to call this:
func (socket *Socket) finalize() {
	// determine if we need to send the final data, and
	// mark the socket closed (if someone hasn't already)
	socket.Lock()
	socket.closed = true
	finalized := socket.finalized
	socket.finalized = true
	finalData := socket.finalData
	if socket.sendQExceeded {
		finalData = []byte("\r\nERROR :SendQ Exceeded\r\n")
	}
	socket.Unlock()

	if finalized {
		return
	}

	if len(finalData) != 0 {
		socket.conn.WriteLine(finalData)
	}

	// close the connection
	socket.conn.Close()
}
