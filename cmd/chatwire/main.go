package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/you/chatwire/internal/client"
	"github.com/you/chatwire/internal/config"
	"github.com/you/chatwire/internal/dispatch"
	"github.com/you/chatwire/internal/events"
	"github.com/you/chatwire/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var (
		versionFlag bool
		nick        string
		token       string
		tokenFile   string
		channels    string
		addr        string
		useTLS      bool
		moderator   bool
		parseEmotes bool
		keepRaw     bool
		metricsAddr string
	)

	flag.BoolVar(&versionFlag, "version", false, "Print build version and exit")
	flag.StringVar(&nick, "nick", "", "Login to connect as (empty: anonymous read-only)")
	flag.StringVar(&token, "token", "", "OAuth token (format: oauth:xxxxx)")
	flag.StringVar(&tokenFile, "token-file", "", "Path to file containing the OAuth token")
	flag.StringVar(&channels, "channels", "", "Comma-separated channels to join (without #)")
	flag.StringVar(&addr, "addr", "", "Chat websocket host[:port] override")
	flag.BoolVar(&useTLS, "tls", true, "Use TLS for the chat connection")
	flag.BoolVar(&moderator, "moderator", false, "Raise the send budget to moderator limits")
	flag.BoolVar(&parseEmotes, "parse-emotes", false, "Decode emote spans on chat messages")
	flag.BoolVar(&keepRaw, "keep-raw", false, "Retain raw IRC lines on parsed messages")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Prometheus metrics address (e.g., :9190)")
	flag.Parse()

	if versionFlag {
		fmt.Printf(
			"chatwire version: %s (commit %s, built %s)\n",
			version.Version,
			version.Commit,
			version.BuildTime,
		)
		os.Exit(0)
	}

	overrides := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		overrides[f.Name] = true
	})

	cfg := config.Load()

	if overrides["nick"] {
		cfg.IRC.Nick = strings.TrimSpace(nick)
	}
	if overrides["token"] {
		cfg.IRC.Token = strings.TrimSpace(token)
	}
	if overrides["token-file"] {
		cfg.IRC.TokenFile = strings.TrimSpace(tokenFile)
	}
	if overrides["channels"] {
		cfg.IRC.Channels = nil
		for _, ch := range strings.Split(channels, ",") {
			if ch = strings.TrimSpace(ch); ch != "" {
				cfg.IRC.Channels = append(cfg.IRC.Channels, ch)
			}
		}
	}
	if overrides["addr"] {
		cfg.IRC.Addr = strings.TrimSpace(addr)
	}
	if overrides["tls"] {
		cfg.IRC.TLS = useTLS
	}
	if overrides["moderator"] {
		cfg.IRC.Moderator = moderator
	}
	if overrides["parse-emotes"] {
		cfg.Events.ParseEmotes = parseEmotes
	}
	if overrides["keep-raw"] {
		cfg.Events.KeepRaw = keepRaw
	}
	if overrides["metrics-addr"] {
		cfg.Metrics.Addr = strings.TrimSpace(metricsAddr)
		cfg.Metrics.Enabled = cfg.Metrics.Addr != ""
	}

	if len(cfg.IRC.Channels) == 0 {
		log.Fatal("chatwire: no channels configured; set CHATWIRE_CHANNELS or -channels")
	}

	log.Printf("%s", cfg.SummaryJSON())

	if cfg.IRC.Token == "" && cfg.IRC.TokenFile != "" {
		data, err := os.ReadFile(cfg.IRC.TokenFile)
		if err != nil {
			log.Printf("chatwire: token file: %v", err)
		} else {
			cfg.IRC.Token = strings.TrimSpace(string(data))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("chatwire: received %s, shutting down", sig)
		cancel()
	}()

	metrics := client.NewMetrics()

	c, err := client.New(client.Config{
		Username:        cfg.IRC.Nick,
		Token:           cfg.IRC.Token,
		Addr:            cfg.IRC.Addr,
		UseTLS:          cfg.IRC.TLS,
		IsModerator:     cfg.IRC.Moderator,
		Channels:        cfg.IRC.Channels,
		IncludeMessages: cfg.Events.IncludeMessages,
		ParseEmotes:     cfg.Events.ParseEmotes,
		KeepRaw:         cfg.Events.KeepRaw,
		GiftWindow:      cfg.Events.GiftWindow,
		Metrics:         metrics,
	}, loggingHandlers())
	if err != nil {
		log.Fatalf("chatwire: %v", err)
	}

	if cfg.IRC.TokenFile != "" {
		if err := c.WatchTokenFile(ctx, cfg.IRC.TokenFile); err != nil {
			log.Printf("chatwire: watch token file: %v", err)
		}
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("chatwire: metrics listener: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			_ = srv.Shutdown(shutdownCtx)
			cancelShutdown()
		}()
		log.Printf("chatwire: metrics ready on %s", cfg.Metrics.Addr)
	}

	log.Printf("chatwire: connecting as %s (anonymous=%t)", c.Username(), c.IsAnonymous())
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("chatwire: %v", err)
	}
	log.Printf("chatwire: shutdown complete")
}

// loggingHandlers prints every event kind the dispatcher produces. Real
// applications set only the callbacks they care about.
func loggingHandlers() dispatch.Handlers {
	return dispatch.Handlers{
		OnConnected: func() {
			log.Printf("connected to chat")
		},
		OnDisconnected: func() {
			log.Printf("disconnected from chat")
		},
		OnReconnectRequested: func(events.ReconnectRequested) {
			log.Printf("server requested reconnect")
		},
		OnChatMessage: func(e events.ChatMessage) {
			log.Printf("[#%s] %s: %s", e.Channel, e.Username, e.Text)
		},
		OnBitsChatMessage: func(e events.ChatMessage) {
			log.Printf("[#%s] %s cheered %d bits", e.Channel, e.Username, e.Bits)
		},
		OnWhisper: func(e events.Whisper) {
			log.Printf("[whisper] %s: %s", e.Username, e.Text)
		},
		OnNotice: func(e events.Notice) {
			log.Printf("[#%s] notice %s: %s", e.Channel, e.NoticeType, e.Text)
		},
		OnChannelJoined: func(e events.ChannelJoined) {
			log.Printf("joined #%s", e.Channel)
		},
		OnChannelParted: func(e events.ChannelParted) {
			log.Printf("parted #%s", e.Channel)
		},
		OnSubscribe: func(e events.Subscribe) {
			log.Printf("[#%s] %s subscribed (%s)", e.Channel, e.Username, e.Plan)
		},
		OnResubscribe: func(e events.Resubscribe) {
			log.Printf("[#%s] %s resubscribed, %d months", e.Channel, e.Username, e.Months)
		},
		OnGiftSubscription: func(e events.GiftSubscription) {
			log.Printf("[#%s] %s gifted a sub to %s (%s)", e.Channel, e.Username, e.RecipientUsername, e.GiftType)
		},
		OnCommunityGiftSubscription: func(e events.CommunityGiftSubscription) {
			log.Printf("[#%s] %s gifted %d subs", e.Channel, e.Username, e.GiftCount)
		},
		OnRaid: func(e events.Raid) {
			log.Printf("[#%s] raid from %s with %d viewers", e.Channel, e.Username, e.Viewers)
		},
		OnUserTimeout: func(e events.UserTimeout) {
			log.Printf("[#%s] %s timed out for %s", e.Channel, e.Username, e.Duration)
		},
		OnUserBanned: func(e events.UserBanned) {
			log.Printf("[#%s] %s banned", e.Channel, e.Username)
		},
		OnChatCleared: func(e events.ChatCleared) {
			log.Printf("[#%s] chat cleared", e.Channel)
		},
		OnUnknownMessage: func(e events.Unknown) {
			log.Printf("unknown line (%s): %s", e.Reason, e.Raw)
		},
	}
}
