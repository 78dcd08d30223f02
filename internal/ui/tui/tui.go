package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PizzaHomicide/koma/internal/config"
	"github.com/PizzaHomicide/koma/internal/library"
	"github.com/PizzaHomicide/koma/internal/log"
	"github.com/PizzaHomicide/koma/internal/player"
	"github.com/PizzaHomicide/koma/internal/scrub"
	"github.com/PizzaHomicide/koma/internal/ui/tui/models"
)

// Run starts the TUI.  When media is empty the library picker is shown first.  When proxy is empty a proxy next to
// the media is used if one exists.
func Run(cfg *config.Config, media, proxy string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := scrub.NewController(scrub.Options{
		FPS:               cfg.Scrub.FPS,
		ControlsHideDelay: time.Duration(cfg.Scrub.ControlsHideDelayMs) * time.Millisecond,
		Volume:            cfg.Scrub.Volume,
	})
	defer ctrl.Close()

	open := func(item library.Item) (models.Session, error) {
		s, err := player.Open(ctx, cfg, item.Path, item.Proxy, ctrl)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	var initial *library.Item
	if media != "" {
		if proxy == "" {
			proxy = library.FindProxy(media, library.Options{
				Extensions:  cfg.Library.Extensions,
				ProxySuffix: cfg.Library.ProxySuffix,
			})
		}
		initial = &library.Item{Name: media, Path: media, Proxy: proxy}
	}

	p := tea.NewProgram(models.NewAppModel(cfg, ctrl, open, initial), tea.WithAltScreen(), tea.WithMouseAllMotion())

	forwarder := newStateForwarder()
	unsubscribe := ctrl.Subscribe(forwarder.push)
	defer unsubscribe()
	go forwarder.run(ctx, p.Send)

	final, err := p.Run()
	cancel()
	if app, ok := final.(models.AppModel); ok {
		app.Shutdown()
		if err == nil {
			err = app.Err()
		}
	}
	log.Info("TUI stopped")
	return err
}
