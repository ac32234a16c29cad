package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHATWIRE_ADDR", "")
	t.Setenv("CHATWIRE_NICK", "")
	t.Setenv("CHATWIRE_TOKEN", "")
	t.Setenv("CHATWIRE_TOKEN_FILE", "")
	t.Setenv("CHATWIRE_CHANNELS", "")
	t.Setenv("CHATWIRE_TLS", "")
	t.Setenv("CHATWIRE_MODERATOR", "")
	t.Setenv("CHATWIRE_INCLUDE_MESSAGES", "")
	t.Setenv("CHATWIRE_GIFT_WINDOW", "")
	t.Setenv("CHATWIRE_METRICS", "")
	t.Setenv("CHATWIRE_METRICS_ADDR", "")

	cfg := Load()
	if cfg.IRC.Addr != "irc-ws.chat.twitch.tv" {
		t.Fatalf("unexpected default addr: %q", cfg.IRC.Addr)
	}
	if !cfg.IRC.TLS {
		t.Fatalf("expected TLS on by default")
	}
	if !cfg.Anonymous() {
		t.Fatalf("expected anonymous with no credentials")
	}
	if !cfg.Events.IncludeMessages {
		t.Fatalf("expected include messages by default")
	}
	if cfg.Events.GiftWindow != 100 {
		t.Fatalf("expected default gift window 100, got %d", cfg.Events.GiftWindow)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("expected metrics disabled by default")
	}
	if cfg.Metrics.Addr != ":9190" {
		t.Fatalf("unexpected default metrics addr: %q", cfg.Metrics.Addr)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHATWIRE_ADDR", "irc.test.local:8080")
	t.Setenv("CHATWIRE_NICK", "elora_bot")
	t.Setenv("CHATWIRE_TOKEN", "oauth:abc")
	t.Setenv("CHATWIRE_CHANNELS", "elora, riverdell; elora")
	t.Setenv("CHATWIRE_TLS", "false")
	t.Setenv("CHATWIRE_MODERATOR", "true")
	t.Setenv("CHATWIRE_INCLUDE_MESSAGES", "false")
	t.Setenv("CHATWIRE_GIFT_WINDOW", "250")
	t.Setenv("CHATWIRE_METRICS", "true")
	t.Setenv("CHATWIRE_METRICS_ADDR", ":9999")

	cfg := Load()
	if cfg.IRC.Addr != "irc.test.local:8080" {
		t.Fatalf("unexpected addr: %q", cfg.IRC.Addr)
	}
	if cfg.IRC.Nick != "elora_bot" {
		t.Fatalf("unexpected nick: %q", cfg.IRC.Nick)
	}
	if cfg.IRC.Token != "oauth:abc" {
		t.Fatalf("unexpected token: %q", cfg.IRC.Token)
	}
	if len(cfg.IRC.Channels) != 2 {
		t.Fatalf("expected two deduped channels, got %v", cfg.IRC.Channels)
	}
	if cfg.IRC.TLS {
		t.Fatalf("expected TLS disabled from env override")
	}
	if !cfg.IRC.Moderator {
		t.Fatalf("expected moderator flag set")
	}
	if cfg.Anonymous() {
		t.Fatalf("expected authenticated config")
	}
	if cfg.Events.IncludeMessages {
		t.Fatalf("expected include messages disabled")
	}
	if cfg.Events.GiftWindow != 250 {
		t.Fatalf("gift window mismatch: %d", cfg.Events.GiftWindow)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != ":9999" {
		t.Fatalf("metrics override mismatch: %+v", cfg.Metrics)
	}
}

func TestGiftWindowRejectsGarbage(t *testing.T) {
	t.Setenv("CHATWIRE_GIFT_WINDOW", "not-a-number")
	if cfg := Load(); cfg.Events.GiftWindow != 100 {
		t.Fatalf("expected default on garbage, got %d", cfg.Events.GiftWindow)
	}
	t.Setenv("CHATWIRE_GIFT_WINDOW", "-5")
	if cfg := Load(); cfg.Events.GiftWindow != 100 {
		t.Fatalf("expected default on negative, got %d", cfg.Events.GiftWindow)
	}
}

func TestRedactedSnapshot(t *testing.T) {
	cfg := Config{
		IRC: IRCConfig{
			Addr:      "irc-ws.chat.twitch.tv",
			Nick:      "elora_bot",
			Token:     "oauth:secret",
			TokenFile: "/secrets/token",
			Channels:  []string{"elora"},
			TLS:       true,
		},
		Events:  EventConfig{IncludeMessages: true, GiftWindow: 100},
		Metrics: MetricsConfig{Enabled: true, Addr: ":9190"},
	}

	summary := cfg.Summary()
	if summary.Token != "***REDACTED*** (len=12)" {
		t.Fatalf("expected redacted token, got %q", summary.Token)
	}
	if summary.Channels != 1 {
		t.Fatalf("expected one channel counted, got %d", summary.Channels)
	}
	if summary.Metrics != ":9190" {
		t.Fatalf("expected metrics addr in summary, got %q", summary.Metrics)
	}

	redacted := cfg.Redacted()
	ircRaw := redacted["irc"].(map[string]any)
	if ircRaw["token"].(string) != "***REDACTED*** (len=12)" {
		t.Fatalf("unexpected redacted token: %v", ircRaw["token"])
	}
	if ircRaw["token_file"].(string) != "/secrets/token" {
		t.Fatalf("expected token file path preserved in redacted snapshot")
	}
	if ircRaw["anonymous"].(bool) {
		t.Fatalf("expected anonymous false with credentials present")
	}
}
