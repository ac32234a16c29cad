package config

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"strings"
)

type Config struct {
	IRC     IRCConfig
	Events  EventConfig
	Metrics MetricsConfig
}

type IRCConfig struct {
	Addr      string
	Nick      string
	Token     string
	TokenFile string
	Channels  []string
	TLS       bool
	Moderator bool
}

type EventConfig struct {
	IncludeMessages bool
	ParseEmotes     bool
	KeepRaw         bool
	GiftWindow      int
}

type MetricsConfig struct {
	Enabled bool
	Addr    string
}

const (
	defaultAddr        = "irc-ws.chat.twitch.tv"
	defaultMetricsAddr = ":9190"
	defaultGiftWindow  = 100
)

func Load() Config {
	cfg := Config{}

	cfg.IRC.Addr = strings.TrimSpace(os.Getenv("CHATWIRE_ADDR"))
	if cfg.IRC.Addr == "" {
		cfg.IRC.Addr = defaultAddr
	}
	cfg.IRC.Nick = strings.TrimSpace(os.Getenv("CHATWIRE_NICK"))
	cfg.IRC.Token = strings.TrimSpace(os.Getenv("CHATWIRE_TOKEN"))
	cfg.IRC.TokenFile = strings.TrimSpace(os.Getenv("CHATWIRE_TOKEN_FILE"))
	cfg.IRC.Channels = splitList(os.Getenv("CHATWIRE_CHANNELS"))
	cfg.IRC.TLS = readBoolDefaultTrue("CHATWIRE_TLS", true)
	cfg.IRC.Moderator = readBool("CHATWIRE_MODERATOR", false)

	cfg.Events.IncludeMessages = readBoolDefaultTrue("CHATWIRE_INCLUDE_MESSAGES", true)
	cfg.Events.ParseEmotes = readBool("CHATWIRE_PARSE_EMOTES", false)
	cfg.Events.KeepRaw = readBool("CHATWIRE_KEEP_RAW", false)
	cfg.Events.GiftWindow = readInt("CHATWIRE_GIFT_WINDOW", defaultGiftWindow)

	cfg.Metrics.Addr = strings.TrimSpace(os.Getenv("CHATWIRE_METRICS_ADDR"))
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = defaultMetricsAddr
	}
	cfg.Metrics.Enabled = readBool("CHATWIRE_METRICS", false)

	return cfg
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\t', '\n':
			return true
		}
		return false
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return dedupe(out)
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(v))
	}
	sort.Strings(out)
	return out
}

func readInt(name string, def int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n <= 0 {
		return def
	}
	return n
}

func readBool(name string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func readBoolDefaultTrue(name string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

type Summary struct {
	Addr      string `json:"addr"`
	Nick      string `json:"nick,omitempty"`
	Token     string `json:"token,omitempty"`
	TokenFile string `json:"token_file,omitempty"`
	Channels  int    `json:"channels"`
	TLS       bool   `json:"tls"`
	Moderator bool   `json:"moderator"`
	Anonymous bool   `json:"anonymous"`
	Metrics   string `json:"metrics,omitempty"`
}

func (c Config) Summary() Summary {
	summary := Summary{
		Addr:      c.IRC.Addr,
		Nick:      c.IRC.Nick,
		Token:     redactString(c.IRC.Token),
		TokenFile: c.IRC.TokenFile,
		Channels:  len(c.IRC.Channels),
		TLS:       c.IRC.TLS,
		Moderator: c.IRC.Moderator,
		Anonymous: c.Anonymous(),
	}
	if c.Metrics.Enabled {
		summary.Metrics = c.Metrics.Addr
	}
	return summary
}

func (c Config) Redacted() map[string]any {
	payload := map[string]any{
		"irc": map[string]any{
			"addr":       c.IRC.Addr,
			"nick":       c.IRC.Nick,
			"token":      redactString(c.IRC.Token),
			"token_file": c.IRC.TokenFile,
			"channels":   append([]string(nil), c.IRC.Channels...),
			"tls":        c.IRC.TLS,
			"moderator":  c.IRC.Moderator,
			"anonymous":  c.Anonymous(),
		},
		"events": map[string]any{
			"include_messages": c.Events.IncludeMessages,
			"parse_emotes":     c.Events.ParseEmotes,
			"keep_raw":         c.Events.KeepRaw,
			"gift_window":      c.Events.GiftWindow,
		},
		"metrics": map[string]any{
			"enabled": c.Metrics.Enabled,
			"addr":    c.Metrics.Addr,
		},
	}
	return payload
}

func (c Config) RedactedJSON() []byte {
	data, _ := json.MarshalIndent(c.Redacted(), "", "  ")
	return data
}

func redactString(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return "***REDACTED*** (len=" + strconv.Itoa(len(value)) + ")"
}

// Anonymous reports whether the client will connect read-only, with no
// credentials at all.
func (c Config) Anonymous() bool {
	return c.IRC.Nick == "" && c.IRC.Token == "" && c.IRC.TokenFile == ""
}

func (c Config) SummaryJSON() []byte {
	summary := struct {
		Config Summary `json:"config_summary"`
	}{Config: c.Summary()}
	data, _ := json.Marshal(summary)
	return data
}
