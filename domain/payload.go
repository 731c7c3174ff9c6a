package domain

import (
	"fmt"
	"message-relay/errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	// ChunkSize is the initial read buffer of a relay connection.
	ChunkSize = 1024
	// FrameDelimiter terminates every payload on the relay wire.
	FrameDelimiter = '\n'

	usernameKey = "username"
	messageKey  = "message"
)

// Payload is the decoded form body relayed from the front end.
type Payload struct {
	Username string
	Message  string
}

// DecodePayload parses a percent-encoded query string.
// Pairs are separated by '&' only, so a raw ';' stays part of a value.
// Absent keys default to the empty string. Only the first value of a
// repeated key is kept.
func DecodePayload(raw string) (Payload, error) {
	if !utf8.ValidString(raw) {
		return Payload{}, errors.ErrInvalidEncoding
	}
	values, err := parseQuery(raw)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", errors.ErrMalformedPayload, err)
	}
	username, message := values.Get(usernameKey), values.Get(messageKey)
	if !utf8.ValidString(username) || !utf8.ValidString(message) {
		return Payload{}, errors.ErrInvalidEncoding
	}
	return Payload{
		Username: username,
		Message:  NormalizeBody(message),
	}, nil
}

func parseQuery(raw string) (url.Values, error) {
	values := make(url.Values)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		values.Add(key, value)
	}
	return values, nil
}

// Encode returns the percent-encoded query string of the payload.
func (p Payload) Encode() string {
	return url.Values{
		usernameKey: []string{p.Username},
		messageKey:  []string{p.Message},
	}.Encode()
}

// Frame returns the payload ready to be written on a relay connection.
func (p Payload) Frame() []byte {
	return append([]byte(p.Encode()), FrameDelimiter)
}

// NormalizeBody strips trailing line terminators and folds inner CRLF
// pairs into a single space.
func NormalizeBody(body string) string {
	body = strings.TrimRight(body, "\r\n")
	return strings.ReplaceAll(body, "\r\n", " ")
}

// EscapeLineBreaks percent-encodes raw CR and LF bytes so an already
// encoded body always fits in a single frame.
func EscapeLineBreaks(raw []byte) []byte {
	s := strings.TrimRight(string(raw), "\r\n")
	s = strings.NewReplacer("\r", "%0D", "\n", "%0A").Replace(s)
	return []byte(s)
}
