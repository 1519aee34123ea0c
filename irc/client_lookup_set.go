// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2017 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"sync"
)

// ClientManager keeps track of clients by nickname. Nicknames are claimed
// atomically: of any number of concurrent claims on the same (casefolded)
// nickname, exactly one succeeds and the rest fail with errNicknameInUse.
type ClientManager struct {
	sync.RWMutex
	byNick     map[string]*Client
	bySkeleton map[string]*Client
}

// NewClientManager returns a new ClientManager.
func NewClientManager() *ClientManager {
	return &ClientManager{
		byNick:     make(map[string]*Client),
		bySkeleton: make(map[string]*Client),
	}
}

// Count returns the number of clients currently holding a nickname.
func (clients *ClientManager) Count() int {
	clients.RLock()
	defer clients.RUnlock()
	return len(clients.byNick)
}

// Get retrieves a client from the manager, if they exist.
func (clients *ClientManager) Get(nick string) *Client {
	casefoldedName, err := CasefoldName(nick)
	if err != nil {
		return nil
	}
	clients.RLock()
	defer clients.RUnlock()
	return clients.byNick[casefoldedName]
}

// SetNick sets a client's nickname, validating it and claiming it against
// all other clients in one step. On a rename, the old nickname is released
// as part of the same critical section.
func (clients *ClientManager) SetNick(client *Client, newNick string) (setNick string, err error) {
	newCfNick, err := CasefoldName(newNick)
	if err != nil {
		return "", errInvalidNickname
	}
	newSkeleton, err := Skeleton(newNick)
	if err != nil {
		return "", errInvalidNickname
	}

	clients.Lock()
	defer clients.Unlock()

	currentClient := clients.byNick[newCfNick]
	if currentClient != nil && currentClient != client {
		return "", errNicknameInUse
	}
	// confusable with an existing nick that doesn't casefold to the same thing
	skeletonHolder := clients.bySkeleton[newSkeleton]
	if skeletonHolder != nil && skeletonHolder != client {
		return "", errNicknameInUse
	}

	clients.removeInternal(client)
	clients.byNick[newCfNick] = client
	clients.bySkeleton[newSkeleton] = client
	client.updateNick(newNick, newCfNick, newSkeleton)
	return newNick, nil
}

// Remove releases the client's nickname, if they hold one.
func (clients *ClientManager) Remove(client *Client) {
	clients.Lock()
	defer clients.Unlock()
	clients.removeInternal(client)
}

// removeInternal removes the client from the lookup maps. The manager's
// write lock must be held.
func (clients *ClientManager) removeInternal(client *Client) {
	cfNick, skeleton := client.uniqueIdentifiers()
	if clients.byNick[cfNick] == client {
		delete(clients.byNick, cfNick)
	}
	if clients.bySkeleton[skeleton] == client {
		delete(clients.bySkeleton, skeleton)
	}
}
