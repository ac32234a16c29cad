// Package client maintains the websocket connection to Twitch chat and
// feeds received lines into the dispatcher.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"

	"github.com/you/chatwire/internal/dispatch"
	"github.com/you/chatwire/internal/events"
)

// DefaultAddr is the Twitch chat websocket endpoint.
const DefaultAddr = "irc-ws.chat.twitch.tv"

const (
	// Outbound windows Twitch enforces. One extra second of headroom on
	// each, matching what the service actually tolerates.
	joinWindow    = 11 * time.Second
	joinBurst     = 20
	messageWindow = 31 * time.Second

	authFailureNeedle = "Login authentication failed"
)

var loginRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Config describes one chat connection.
type Config struct {
	// Username is the bot login. Empty means an anonymous read-only
	// session under a random justinfan login.
	Username string
	// Token is the OAuth access token, with or without the oauth:
	// prefix.
	Token string
	// TokenProvider, when set, supplies the token for each (re)connect.
	TokenProvider func() string
	// RefreshNow is invoked after an authentication failure. It returns
	// the replacement token used on the next attempt.
	RefreshNow func(ctx context.Context) (string, error)

	// Addr overrides the endpoint host[:port]; used by tests.
	Addr   string
	UseTLS bool
	// IsModerator raises the message budget from 20 to 100 per window.
	IsModerator bool

	// Channels to join once connected.
	Channels []string

	IncludeMessages bool
	ParseEmotes     bool
	KeepRaw         bool
	// GiftWindow sizes the anonymous gift correlation window. Zero means
	// the dispatcher default.
	GiftWindow int

	Metrics *Metrics
}

// Client is a reconnecting TMI websocket client.
type Client struct {
	cfg       Config
	username  string
	anonymous bool
	metrics   *Metrics
	d         *dispatch.Dispatcher

	onConnected    func()
	onDisconnected func()

	joinLimiter *rate.Limiter
	msgLimiter  *rate.Limiter
	joinQueue   chan string
	msgQueue    chan string
	forceConn   chan struct{}

	mu       sync.Mutex
	token    string
	conn     *websocket.Conn
	desired  map[string]bool
	authFail bool
}

// New builds a Client. The handler set is fixed for the client's
// lifetime.
func New(cfg Config, h dispatch.Handlers) (*Client, error) {
	username := strings.ToLower(strings.TrimSpace(cfg.Username))
	anonymous := false
	if username == "" {
		username = fmt.Sprintf("justinfan%d", 100000+rand.Intn(900000))
		anonymous = true
	}
	if !loginRe.MatchString(username) {
		return nil, errors.Errorf("client: invalid username %q", cfg.Username)
	}
	if strings.HasPrefix(username, "justinfan") && normalizeToken(cfg.Token) == "" {
		anonymous = true
	}

	msgBurst := 20
	if cfg.IsModerator {
		msgBurst = 100
	}

	c := &Client{
		cfg:         cfg,
		username:    username,
		anonymous:   anonymous,
		metrics:     cfg.Metrics,
		token:       normalizeToken(cfg.Token),
		joinLimiter: rate.NewLimiter(rate.Every(joinWindow/joinBurst), joinBurst),
		msgLimiter:  rate.NewLimiter(rate.Every(messageWindow/time.Duration(msgBurst)), msgBurst),
		joinQueue:   make(chan string, 64),
		msgQueue:    make(chan string, 256),
		forceConn:   make(chan struct{}, 1),
		desired:     make(map[string]bool),
	}

	for _, ch := range cfg.Channels {
		ch = strings.ToLower(strings.TrimSpace(ch))
		if ch != "" {
			c.desired[ch] = true
		}
	}

	// Lifecycle callbacks belong to the connection manager, not to
	// routing.
	c.onConnected = h.OnConnected
	c.onDisconnected = h.OnDisconnected

	// Unknown lines are counted before the application sees them.
	userUnknown := h.OnUnknownMessage
	h.OnUnknownMessage = func(e events.Unknown) {
		c.metrics.IncUnknown()
		if userUnknown != nil {
			userUnknown(e)
		}
	}

	c.d = dispatch.New(dispatch.Config{
		Username:        username,
		IncludeMessages: cfg.IncludeMessages,
		ParseEmotes:     cfg.ParseEmotes,
		KeepRaw:         cfg.KeepRaw,
		GiftWindow:      cfg.GiftWindow,
		Sender:          (*sender)(c),
	}, h)

	return c, nil
}

// Username returns the login the client connects as.
func (c *Client) Username() string { return c.username }

// IsAnonymous reports whether the session is read-only.
func (c *Client) IsAnonymous() bool { return c.anonymous }

// Channels returns the channels the server currently has us joined to.
func (c *Client) Channels() []string { return c.d.Channels() }

// Run connects and keeps the connection alive until ctx is done,
// reconnecting with increasing delay. Auth failures trigger the
// RefreshNow hook before the next attempt.
func (c *Client) Run(ctx context.Context) error {
	attempt := 0
	for {
		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if c.takeAuthFail() {
			slog.Warn("client: authentication failed", "user", c.username)
			if c.cfg.RefreshNow != nil {
				if tok, rerr := c.cfg.RefreshNow(ctx); rerr != nil {
					slog.Error("client: token refresh", "err", rerr)
				} else {
					c.SetToken(tok)
					attempt = 0
				}
			}
		}

		attempt++
		if attempt > 8 {
			attempt = 8
		}
		delay := time.Duration(attempt) * 5 * time.Second
		if err != nil {
			slog.Info("client: connection lost", "err", err, "retry_in", delay)
		} else {
			slog.Info("client: connection closed", "retry_in", delay)
		}
		c.metrics.IncReconnects()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	url := c.endpoint()

	dialCtx, cancelDial := context.WithTimeout(ctx, 15*time.Second)
	conn, _, err := websocket.Dial(dialCtx, url, nil)
	cancelDial()
	if err != nil {
		return errors.Wrap(err, "client: dial")
	}
	conn.SetReadLimit(1 << 20)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close(websocket.StatusNormalClosure, "done")
	if c.onDisconnected != nil {
		defer c.onDisconnected()
	}

	c.mu.Lock()
	c.conn = conn
	token := c.token
	c.mu.Unlock()
	if c.cfg.TokenProvider != nil {
		token = normalizeToken(c.cfg.TokenProvider())
	}

	for _, line := range []string{
		"CAP REQ twitch.tv/membership",
		"CAP REQ twitch.tv/commands",
		"CAP REQ twitch.tv/tags",
		"PASS oauth:" + token,
		"NICK " + c.username,
	} {
		if err := c.write(connCtx, line); err != nil {
			return errors.Wrap(err, "client: login")
		}
	}

	for _, ch := range c.rejoinList() {
		c.enqueueJoin("JOIN #" + ch)
	}

	go c.pump(connCtx, c.joinQueue, c.joinLimiter)
	go c.pump(connCtx, c.msgQueue, c.msgLimiter)

	// A forced reconnect (RECONNECT command, token reload) tears down
	// this connection; Run dials the next one.
	go func() {
		select {
		case <-c.forceConn:
			cancel()
			conn.Close(websocket.StatusNormalClosure, "reconnect")
		case <-connCtx.Done():
		}
	}()

	slog.Info("client: connected", "url", url, "user", c.username, "anonymous", c.anonymous)
	if c.onConnected != nil {
		c.onConnected()
	}

	for {
		_, data, err := conn.Read(connCtx)
		if err != nil {
			return errors.Wrap(err, "client: read")
		}
		for _, line := range strings.Split(string(data), "\r\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.Contains(line, authFailureNeedle) {
				c.setAuthFail()
				return errors.New("client: login authentication failed")
			}
			c.ingest(line)
		}
	}
}

func (c *Client) ingest(line string) {
	c.metrics.IncLines()
	c.d.Ingest(line)
}

// SimulateMessages feeds raw lines through the identical ingest path the
// reader uses. Intended for tests and replay tooling.
func (c *Client) SimulateMessages(lines ...string) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.ingest(line)
	}
}

// JoinChannel queues a JOIN. The channel is remembered and rejoined
// after a reconnect.
func (c *Client) JoinChannel(channel string) error {
	channel, err := cleanLogin(channel)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.desired[channel] = true
	c.mu.Unlock()
	c.enqueueJoin("JOIN #" + channel)
	return nil
}

// PartChannel queues a PART and stops rejoining the channel.
func (c *Client) PartChannel(channel string) error {
	channel, err := cleanLogin(channel)
	if err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.desired, channel)
	c.mu.Unlock()
	c.enqueueJoin("PART #" + channel)
	return nil
}

// SendMessage queues a chat message to a channel.
func (c *Client) SendMessage(channel, message string) error {
	return c.sendPrivmsg(channel, message, "")
}

// SendReply queues a chat message replying to the message with the given
// ID.
func (c *Client) SendReply(channel, message, replyID string) error {
	return c.sendPrivmsg(channel, message, replyID)
}

// SendAction queues a /me action message to a channel.
func (c *Client) SendAction(channel, message string) error {
	return c.sendPrivmsg(channel, "\x01ACTION "+message+"\x01", "")
}

func (c *Client) sendPrivmsg(channel, message, replyID string) error {
	if c.anonymous {
		return errors.New("client: anonymous session is read-only")
	}
	channel, err := cleanLogin(channel)
	if err != nil {
		return err
	}
	cmd := "PRIVMSG #" + channel + " :" + message
	if replyID != "" {
		cmd = "@reply-parent-msg-id=" + replyID + " " + cmd
	}
	c.enqueueMsg(cmd)
	return nil
}

// SendWhisper queues a whisper to a user.
func (c *Client) SendWhisper(username, message string) error {
	if c.anonymous {
		return errors.New("client: anonymous session is read-only")
	}
	username, err := cleanLogin(username)
	if err != nil {
		return err
	}
	c.enqueueMsg(fmt.Sprintf(":%s!%s@%s.tmi.twitch.tv WHISPER %s :%s",
		username, username, username, c.username, message))
	return nil
}

// SetToken replaces the stored token and forces a reconnect so it takes
// effect.
func (c *Client) SetToken(token string) {
	token = normalizeToken(token)
	if token == "" {
		return
	}
	c.mu.Lock()
	changed := c.token != token
	c.token = token
	c.mu.Unlock()
	if changed {
		c.forceReconnect()
	}
}

func (c *Client) forceReconnect() {
	select {
	case c.forceConn <- struct{}{}:
	default:
	}
}

func (c *Client) endpoint() string {
	addr := c.cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	if c.cfg.UseTLS {
		return "wss://" + addr
	}
	return "ws://" + addr
}

// rejoinList is the union of requested channels and those the server
// already had us in before the connection dropped.
func (c *Client) rejoinList() []string {
	seen := make(map[string]bool)
	var out []string
	c.mu.Lock()
	for ch := range c.desired {
		if !seen[ch] {
			seen[ch] = true
			out = append(out, ch)
		}
	}
	c.mu.Unlock()
	for _, ch := range c.d.Channels() {
		if !seen[ch] {
			seen[ch] = true
			out = append(out, ch)
		}
	}
	return out
}

func (c *Client) enqueueJoin(cmd string) {
	select {
	case c.joinQueue <- cmd:
	default:
		slog.Warn("client: join queue full, dropping", "cmd", cmd)
	}
}

func (c *Client) enqueueMsg(cmd string) {
	select {
	case c.msgQueue <- cmd:
	default:
		slog.Warn("client: message queue full, dropping")
	}
}

// pump drains a queue onto the connection at the limiter's pace.
func (c *Client) pump(ctx context.Context, queue <-chan string, limiter *rate.Limiter) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-queue:
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			if err := c.write(ctx, cmd); err != nil {
				slog.Debug("client: queued write failed", "err", err)
				return
			}
		}
	}
}

func (c *Client) write(ctx context.Context, line string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.New("client: not connected")
	}
	c.metrics.IncSent()
	return conn.Write(ctx, websocket.MessageText, []byte(line))
}

func (c *Client) setAuthFail() {
	c.mu.Lock()
	c.authFail = true
	c.mu.Unlock()
}

func (c *Client) takeAuthFail() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	failed := c.authFail
	c.authFail = false
	return failed
}

// sender adapts Client to the dispatcher's outbound interface.
type sender Client

func (s *sender) Pong(payload string) {
	c := (*Client)(s)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.write(ctx, "PONG :"+strings.TrimPrefix(payload, ":")); err != nil {
		slog.Debug("client: pong failed", "err", err)
	}
}

func (s *sender) PartChannel(channel string) error {
	return (*Client)(s).PartChannel(channel)
}

func (s *sender) Reconnect() {
	(*Client)(s).forceReconnect()
}

func cleanLogin(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !loginRe.MatchString(name) {
		return "", errors.Errorf("client: invalid channel or user name %q", name)
	}
	return name, nil
}

func normalizeToken(token string) string {
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, "oauth:")
	return strings.TrimSpace(token)
}
