package client

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchTokenFile follows the OAuth token file and applies rewrites to the
// client, forcing a reconnect when the token actually changed. Editors
// and secret managers replace rather than rewrite, so Remove/Rename
// re-arm the watch. The watcher stops when ctx is done.
func (c *Client) WatchTokenFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		debounce := time.NewTimer(0)
		if !debounce.Stop() {
			<-debounce.C
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					if err := w.Add(path); err != nil {
						slog.Error("client: token watch re-add", "path", path, "err", err)
					}
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					if !debounce.Stop() {
						select {
						case <-debounce.C:
						default:
						}
					}
					debounce.Reset(250 * time.Millisecond)
				}
			case <-debounce.C:
				data, err := os.ReadFile(path)
				if err != nil {
					slog.Error("client: token reload failed", "path", path, "err", err)
					continue
				}
				if tok := normalizeToken(string(data)); tok != "" {
					slog.Info("client: token file changed, reconnecting")
					c.SetToken(tok)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Error("client: token watch error", "err", err)
			}
		}
	}()

	return nil
}
