// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

// Numeric reply codes. Only the numerics this server actually sends are
// listed; the names follow the RFC 2812 vocabulary.
const (
	RPL_WELCOME          = "001"
	RPL_YOURHOST         = "002"
	RPL_LISTSTART        = "321"
	RPL_LIST             = "322"
	RPL_LISTEND          = "323"
	RPL_NOTOPIC          = "331"
	RPL_TOPIC            = "332"
	RPL_NAMREPLY         = "353"
	RPL_ENDOFNAMES       = "366"
	ERR_NOSUCHCHANNEL    = "403"
	ERR_NORECIPIENT      = "411"
	ERR_NOTEXTTOSEND     = "412"
	ERR_NONICKNAMEGIVEN  = "431"
	ERR_ERRONEUSNICKNAME = "432"
	ERR_NEEDMOREPARAMS   = "461"
)
