package irc

import (
	"fmt"
	"strconv"
	"strings"
)

// EmoteSize selects the rendered image resolution.
type EmoteSize int

const (
	EmoteSizeSmall  EmoteSize = 1
	EmoteSizeMedium EmoteSize = 2
	EmoteSizeLarge  EmoteSize = 3
)

// EmoteSpan is one emote occurrence inside a chat message. Start and End
// are inclusive character positions.
type EmoteSpan struct {
	ID     string
	Start  int
	End    int
	Length int
}

// Emotes holds the decoded emote spans of one message plus a memoized HTML
// rendering of it.
type Emotes struct {
	spans    []EmoteSpan
	rendered string
}

// emptyEmotes is shared by every message without emotes. It holds no spans
// and never memoizes, so sharing is safe.
var emptyEmotes = &Emotes{}

// ParseEmotes decodes the emotes tag value, groups separated by '/' in the
// form "id:start-end". Empty input returns a shared empty instance and
// malformed groups are skipped.
func ParseEmotes(raw string) *Emotes {
	if raw == "" {
		return emptyEmotes
	}

	e := &Emotes{}
	for _, group := range strings.Split(raw, "/") {
		id, pos, ok := strings.Cut(group, ":")
		if !ok {
			continue
		}
		from, to, ok := strings.Cut(pos, "-")
		if !ok {
			continue
		}
		start, err := strconv.Atoi(from)
		if err != nil {
			continue
		}
		end, err := strconv.Atoi(to)
		if err != nil {
			continue
		}
		e.spans = append(e.spans, EmoteSpan{
			ID:     id,
			Start:  start,
			End:    end,
			Length: end - start + 1,
		})
	}

	return e
}

// Spans returns the decoded emote spans in wire order.
func (e *Emotes) Spans() []EmoteSpan {
	return e.spans
}

// RenderHTML replaces every emote span in message with an <img> tag
// pointing at the Twitch emote CDN. brightness must be "dark" or "light".
// The first successful rendering is memoized; later calls return it
// regardless of arguments.
func (e *Emotes) RenderHTML(message string, size EmoteSize, brightness string) (string, error) {
	if brightness != "dark" && brightness != "light" {
		return "", fmt.Errorf("irc: brightness must be dark or light, got %q", brightness)
	}

	if len(e.spans) == 0 {
		return message, nil
	}

	if e.rendered != "" {
		return e.rendered, nil
	}

	// Span positions count characters, not bytes.
	runes := []rune(message)

	var sb strings.Builder

	if first := e.spans[0].Start; first > 0 {
		sb.WriteString(string(runes[:first]))
	}

	for i, span := range e.spans {
		sb.WriteString(`<img alt="`)
		sb.WriteString(string(runes[span.Start : span.End+1]))
		sb.WriteString(`" src="https://static-cdn.jtvnw.net/emoticons/v2/`)
		sb.WriteString(span.ID)
		sb.WriteString("/default/")
		sb.WriteString(brightness)
		sb.WriteString("/")
		sb.WriteString(strconv.Itoa(int(size)))
		sb.WriteString(`.0" />`)

		if i != len(e.spans)-1 {
			sb.WriteString(string(runes[span.End+1 : e.spans[i+1].Start]))
		}
	}

	if last := e.spans[len(e.spans)-1].End; last < len(runes)-1 {
		sb.WriteString(string(runes[last+1:]))
	}

	e.rendered = sb.String()
	return e.rendered, nil
}
