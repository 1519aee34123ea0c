// Copyright (c) 2017 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"sort"
	"sync"
)

// ChannelManager keeps track of all the channels on the server.
// All operations, including the event broadcasts they trigger, run under
// a single mutex; concurrent joins, parts, topic changes and quits are
// therefore totally ordered, and every member observes broadcasts for
// the same channel in the same order.
type ChannelManager struct {
	sync.Mutex
	chans map[string]*Channel
}

// NewChannelManager returns a new ChannelManager.
func NewChannelManager() *ChannelManager {
	return &ChannelManager{
		chans: make(map[string]*Channel),
	}
}

// Get returns the channel with the given name, if it exists.
// Channel names are matched exactly, no casefolding is performed.
func (cm *ChannelManager) Get(name string) *Channel {
	cm.Lock()
	defer cm.Unlock()
	return cm.chans[name]
}

// Join causes `client` to join the channel named `name`, creating it if
// necessary. The join is echoed to every member; the joining client
// additionally receives the topic (when one is set) and the names burst.
// Joining a channel the client is already in is a no-op.
func (cm *ChannelManager) Join(client *Client, name string) error {
	if !ValidChannelName(name) {
		return errInvalidChannel
	}

	cm.Lock()
	defer cm.Unlock()

	channel := cm.chans[name]
	if channel == nil {
		channel = NewChannel(name)
		cm.chans[name] = channel
	}
	if channel.hasMember(client) {
		return nil
	}

	channel.members.Add(client)
	channel.broadcast(client, "JOIN", name)
	if channel.topic != "" {
		channel.sendTopic(client)
	}
	channel.sendNames(client)
	return nil
}

// Part removes `client` from the channel named `name`, echoing the part
// to every member (including the leaver). A channel left with no members
// is deleted before the call returns.
func (cm *ChannelManager) Part(client *Client, name string) error {
	cm.Lock()
	defer cm.Unlock()

	channel := cm.chans[name]
	if channel == nil || !channel.hasMember(client) {
		return errNoSuchChannel
	}

	channel.broadcast(client, "PART", name)
	channel.members.Remove(client)
	cm.maybeCleanup(channel)
	return nil
}

// SetTopic replaces the topic of the channel named `name` and broadcasts
// the change to every member, the setter included.
func (cm *ChannelManager) SetTopic(client *Client, name, topic string) error {
	cm.Lock()
	defer cm.Unlock()

	channel := cm.chans[name]
	if channel == nil {
		return errNoSuchChannel
	}

	channel.topic = topic
	channel.broadcast(client, "TOPIC", name, topic)
	return nil
}

// Topic sends the current topic of the channel named `name` to `client`.
func (cm *ChannelManager) Topic(client *Client, name string) error {
	cm.Lock()
	defer cm.Unlock()

	channel := cm.chans[name]
	if channel == nil {
		return errNoSuchChannel
	}

	channel.sendTopic(client)
	return nil
}

// SendNames sends the names burst for the channel named `name` to `client`.
// A nonexistent channel has an empty member set, not an error: the burst is
// just the end-of-names marker.
func (cm *ChannelManager) SendNames(client *Client, name string) {
	cm.Lock()
	defer cm.Unlock()

	channel := cm.chans[name]
	if channel == nil {
		client.sendNumeric(RPL_ENDOFNAMES, name, "End of /NAMES list")
		return
	}

	channel.sendNames(client)
}

// Message delivers a PRIVMSG from `client` to every other member of the
// channel named `name`.
func (cm *ChannelManager) Message(client *Client, name, text string) error {
	cm.Lock()
	defer cm.Unlock()

	channel := cm.chans[name]
	if channel == nil || !channel.hasMember(client) {
		return errNoSuchChannel
	}

	source := client.NickMaskString()
	for member := range channel.members {
		if member != client {
			member.Send(source, "PRIVMSG", name, text)
		}
	}
	return nil
}

// ListChannels sends the RPL_LIST burst for all current channels to `client`.
func (cm *ChannelManager) ListChannels(client *Client) {
	cm.Lock()
	defer cm.Unlock()

	names := make([]string, 0, len(cm.chans))
	for name := range cm.chans {
		names = append(names, name)
	}
	sort.Strings(names)

	client.sendNumeric(RPL_LISTSTART, "Channel", "Users  Name")
	for _, name := range names {
		chname, count, topic := cm.chans[name].listItem()
		client.sendNumeric(RPL_LIST, chname, count, topic)
	}
	client.sendNumeric(RPL_LISTEND, "End of /LIST")
}

// Quits removes `client` from every channel it is a member of, sending a
// part notification to the remaining members of each. Channels left empty
// are deleted.
func (cm *ChannelManager) Quits(client *Client) {
	cm.Lock()
	defer cm.Unlock()

	source := client.NickMaskString()
	for _, channel := range cm.chans {
		if !channel.hasMember(client) {
			continue
		}
		channel.members.Remove(client)
		for member := range channel.members {
			member.Send(source, "PART", channel.name)
		}
		cm.maybeCleanup(channel)
	}
}

// Len returns the number of channels.
func (cm *ChannelManager) Len() int {
	cm.Lock()
	defer cm.Unlock()
	return len(cm.chans)
}

// maybeCleanup deletes the channel if it has no members left.
// The manager's lock must be held.
func (cm *ChannelManager) maybeCleanup(channel *Channel) {
	if len(channel.members) == 0 {
		delete(cm.chans, channel.name)
	}
}
