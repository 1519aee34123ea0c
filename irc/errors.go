// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import "errors"

// Runtime Errors
var (
	errNicknameInUse   = errors.New("nickname in use")
	errInvalidNickname = errors.New("invalid nickname")
	errInvalidChannel  = errors.New("invalid channel name")
	errNoSuchChannel   = errors.New("No such channel")
	errInvalidUsername = errors.New("Invalid username")
)

// Socket Errors
var (
	errSendQExceeded = errors.New("SendQ exceeded")
	errReadQ         = errors.New("ReadQ Exceeded")
)

// String Errors
var (
	errCouldNotStabilize = errors.New("Could not stabilize string while casefolding")
	errStringIsEmpty     = errors.New("String is empty")
	errInvalidCharacter  = errors.New("Invalid character")
)

// Config Errors
var (
	ErrInvalidCertKeyPair = errors.New("tls cert+key: invalid pair")
)
