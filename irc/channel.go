// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"sort"
	"strconv"
	"strings"

	"github.com/chinnucsk/ircd-pony/irc/utils"
)

// Channel represents a channel that clients can join. Its fields are
// guarded by the ChannelManager's mutex; only the manager mutates them.
type Channel struct {
	name    string
	topic   string
	members utils.HashSet[*Client]
}

func NewChannel(name string) *Channel {
	return &Channel{
		name:    name,
		members: make(utils.HashSet[*Client]),
	}
}

// Name returns the name of the channel.
func (channel *Channel) Name() string {
	return channel.name
}

func (channel *Channel) hasMember(client *Client) bool {
	return channel.members.Has(client)
}

// broadcast sends a rendered event line to every member of the channel,
// including `from` itself.
func (channel *Channel) broadcast(from *Client, command string, params ...string) {
	source := from.NickMaskString()
	for member := range channel.members {
		member.Send(source, command, params...)
	}
}

// nickList returns the nicks of all members, sorted for determinism.
func (channel *Channel) nickList() []string {
	nicks := make([]string, 0, len(channel.members))
	for member := range channel.members {
		nicks = append(nicks, member.Nick())
	}
	sort.Strings(nicks)
	return nicks
}

// sendNames sends the RPL_NAMREPLY burst for this channel to a single client.
func (channel *Channel) sendNames(client *Client) {
	client.sendNumeric(RPL_NAMREPLY, "=", channel.name, strings.Join(channel.nickList(), " "))
	client.sendNumeric(RPL_ENDOFNAMES, channel.name, "End of /NAMES list")
}

// sendTopic sends RPL_TOPIC or RPL_NOTOPIC as appropriate to a single client.
func (channel *Channel) sendTopic(client *Client) {
	if channel.topic == "" {
		client.sendNumeric(RPL_NOTOPIC, channel.name, "No topic is set")
	} else {
		client.sendNumeric(RPL_TOPIC, channel.name, channel.topic)
	}
}

// listItem returns the RPL_LIST parameters for this channel.
func (channel *Channel) listItem() (name, count, topic string) {
	return channel.name, strconv.Itoa(len(channel.members)), channel.topic
}
