package irc

import (
	"strconv"
	"strings"
	"time"
)

// Message is one parsed TMI line.
type Message struct {
	// Raw is the original line, kept only when requested at parse time.
	Raw string

	Command  string
	Username string
	Channel  string
	Text     string
	Tags     Tags

	// Time is resolved from tmi-sent-ts when present, otherwise it is the
	// wall-clock capture time at parse.
	Time time.Time
}

// ParseMessage parses a raw TMI line into a Message. Lines with unknown
// commands, and lines malformed beyond recognition, yield nil. It never
// panics.
func ParseMessage(raw string, keepRaw bool) (msg *Message) {
	// The slicing below assumes well-formed lines; a truncated line may
	// index out of range, which counts as unparseable.
	defer func() {
		if recover() != nil {
			msg = nil
		}
	}()

	msg = parseMessage(raw)
	if msg != nil && keepRaw {
		msg.Raw = raw
	}
	return msg
}

func parseMessage(raw string) *Message {
	if raw == "" {
		return nil
	}

	created := time.Now().UTC()

	if len(raw) > 4 && strings.HasPrefix(raw, "PING") {
		return &Message{Command: CmdPing, Text: raw[5:], Time: created}
	}

	var tagBlob, rest string
	if raw[0] == '@' {
		split := strings.IndexByte(raw, ' ')
		tagBlob = raw[1:split]
		// +2 skips the space and the ':' of the prefix.
		rest = raw[split+2:]
	} else {
		rest = raw[1:]
	}

	var text string
	if i := strings.IndexByte(rest, ':'); i != -1 {
		text = rest[i+1:]
		rest = rest[:i-1]
	}

	parts := strings.Split(rest, " ")
	tags := ParseTags(tagBlob)

	build := func(m Message) *Message {
		m.Tags = tags
		m.Time = resolveTime(tags, created)
		return &m
	}

	command := parts[1]
	switch {
	case command == CmdPrivmsg:
		// A /me action is wrapped in \x01ACTION ...\x01.
		if len(text) > 0 && text[0] == 0x01 && text[len(text)-1] == 0x01 {
			text = text[8 : len(text)-1]
			tags[TagIsMe] = "1"
		}
		return build(Message{
			Command:  CmdPrivmsg,
			Username: prefixUser(parts[0]),
			Channel:  stripSigil(parts[2]),
			Text:     text,
		})

	case command == CmdNotice, command == CmdUsernotice,
		command == CmdClearchat, command == CmdClearmsg:
		return build(Message{
			Command: command,
			Channel: stripSigil(parts[2]),
			Text:    text,
		})

	case command == CmdWhisper:
		// The WHISPER target is the bot's own login, not a channel; keep
		// it verbatim.
		return build(Message{
			Command:  CmdWhisper,
			Username: prefixUser(parts[0]),
			Channel:  parts[2],
			Text:     text,
		})

	case command == CmdRoomstate, command == CmdUserstate:
		return build(Message{
			Command: command,
			Channel: stripSigil(parts[2]),
		})

	case welcomeNumerics[command]:
		return build(Message{Command: command, Text: text})

	case command == CmdCap:
		tags[TagCapResult] = parts[3]
		return build(Message{Command: CmdCap, Text: text})

	case command == CmdJoin, command == CmdPart:
		return build(Message{
			Command:  command,
			Username: prefixUser(parts[0]),
			Channel:  stripSigil(parts[2]),
		})

	case command == CmdGlobalUserstate:
		return build(Message{Command: CmdGlobalUserstate})

	case command == CmdNamesList:
		return build(Message{
			Command:  CmdNamesList,
			Username: parts[2],
			Channel:  stripSigil(parts[4]),
			Text:     text,
		})

	case command == CmdEndOfNamesList:
		return build(Message{
			Command:  CmdEndOfNamesList,
			Username: parts[2],
			Channel:  stripSigil(parts[3]),
			Text:     text,
		})

	case command == CmdHosttarget:
		// Payload is "<target> <viewers>"; surfaced as synthetic tags.
		hostParts := strings.Split(text, " ")
		tags[TagHostTarget] = hostParts[0]
		tags[TagHostViewers] = hostParts[1]
		return build(Message{
			Command: CmdHosttarget,
			Channel: stripSigil(parts[2]),
		})

	case command == CmdReconnect:
		return build(Message{Command: CmdReconnect})
	}

	return nil
}

// prefixUser extracts the login from a "user!user@host" prefix token.
func prefixUser(token string) string {
	if i := strings.IndexByte(token, '!'); i != -1 {
		return token[:i]
	}
	return ""
}

// stripSigil drops the leading '#' (or any first byte) of a channel token.
func stripSigil(token string) string {
	return token[1:]
}

func resolveTime(tags Tags, created time.Time) time.Time {
	if v, ok := tags[TagSentTimestamp]; ok {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}
	}
	return created
}
