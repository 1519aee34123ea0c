// Copyright (c) 2017 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"fmt"
)

func (client *Client) Nick() string {
	client.stateMutex.RLock()
	defer client.stateMutex.RUnlock()
	return client.nick
}

// uniqueIdentifiers returns the keys the client is registered under in the
// ClientManager's lookup maps.
func (client *Client) uniqueIdentifiers() (nickCasefolded string, skeleton string) {
	client.stateMutex.RLock()
	defer client.stateMutex.RUnlock()
	return client.nickCasefolded, client.skeleton
}

// updateNick is called by the ClientManager, inside its own critical section,
// once a nickname claim has succeeded.
func (client *Client) updateNick(nick, nickCasefolded, skeleton string) {
	client.stateMutex.Lock()
	defer client.stateMutex.Unlock()
	client.nick = nick
	client.nickCasefolded = nickCasefolded
	client.skeleton = skeleton
	client.updateNickMaskNoMutex()
}

// HasNick returns true if the client's nickname is set.
func (client *Client) HasNick() bool {
	client.stateMutex.RLock()
	defer client.stateMutex.RUnlock()
	return client.nick != ""
}

// HasUsername returns true if the client's username is set.
func (client *Client) HasUsername() bool {
	client.stateMutex.RLock()
	defer client.stateMutex.RUnlock()
	return client.username != ""
}

// SetNames sets the client's username and realname. The username is set
// once per connection; an ident response takes precedence over the
// user-declared value, which is marked with the customary "~" prefix.
func (client *Client) SetNames(username, realname string) error {
	if _, err := CasefoldUsername(username); err != nil {
		return errInvalidUsername
	}

	client.stateMutex.Lock()
	defer client.stateMutex.Unlock()

	if client.username == "" {
		if client.identUsername != "" {
			client.username = client.identUsername
		} else {
			client.username = "~" + username
		}
		client.updateNickMaskNoMutex()
	}
	if client.realname == "" {
		client.realname = realname
	}
	return nil
}

func (client *Client) setIdentUsername(username string) {
	client.stateMutex.Lock()
	defer client.stateMutex.Unlock()
	client.identUsername = username
}

func (client *Client) Username() string {
	client.stateMutex.RLock()
	defer client.stateMutex.RUnlock()
	return client.username
}

func (client *Client) Realname() string {
	client.stateMutex.RLock()
	defer client.stateMutex.RUnlock()
	return client.realname
}

func (client *Client) RawHostname() string {
	client.stateMutex.RLock()
	defer client.stateMutex.RUnlock()
	return client.rawHostname
}

func (client *Client) setRawHostname(rawHostname string) {
	client.stateMutex.Lock()
	defer client.stateMutex.Unlock()
	client.rawHostname = rawHostname
	client.updateNickMaskNoMutex()
}

// NickMaskString returns the nickmask (nick!user@host) the client's events
// are sourced from.
func (client *Client) NickMaskString() string {
	client.stateMutex.RLock()
	defer client.stateMutex.RUnlock()
	return client.nickMaskString
}

// updateNickMaskNoMutex rebuilds the nickmask. stateMutex must be held.
func (client *Client) updateNickMaskNoMutex() {
	nick := client.nick
	if nick == "" {
		nick = "*"
	}
	username := client.username
	if username == "" {
		username = "*"
	}
	hostname := client.rawHostname
	if hostname == "" {
		hostname = "unknown.host"
	}
	client.nickMaskString = fmt.Sprintf("%s!%s@%s", nick, username, hostname)
}

// Registered returns true if the client has completed the registration
// handshake. The transition fires at most once per connection.
func (client *Client) Registered() bool {
	client.stateMutex.RLock()
	defer client.stateMutex.RUnlock()
	return client.registered
}

// SetRegistered flips the client into the registered state. Returns false
// if the client was registered already.
func (client *Client) SetRegistered() bool {
	client.stateMutex.Lock()
	defer client.stateMutex.Unlock()
	if client.registered {
		return false
	}
	client.registered = true
	return true
}

func (client *Client) Destroyed() bool {
	client.stateMutex.RLock()
	defer client.stateMutex.RUnlock()
	return client.destroyed
}

func (client *Client) setQuitMessage(message string) {
	client.stateMutex.Lock()
	defer client.stateMutex.Unlock()
	if client.quitMessage == "" {
		client.quitMessage = message
	}
}
