package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/PizzaHomicide/koma/internal/config"
	"github.com/PizzaHomicide/koma/internal/log"
	"github.com/PizzaHomicide/koma/internal/scrub"
)

// Controller is the part of scrub.Controller a session feeds with player events
type Controller interface {
	Attach(primary, proxy scrub.Media)
	Detach()
	SetDisplay(d scrub.Display)
	Play()
	OnTimeTick()
	OnEnded()
	OnLoadedMetadata()
	OnDurationChange()
	OnProgress()
	OnFullscreenChange()
	SetFPS(fps float64)
}

var _ Controller = (*scrub.Controller)(nil)

// Session is an opened media: the primary mpv, an optional proxy mpv and the pumps feeding their events to a
// controller
type Session struct {
	primary *MPV
	proxy   *MPV
	ctrl    Controller

	autoplay bool
	fixedFPS bool

	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
}

// Open starts mpv for the media and, when proxy is not empty, a second muted mpv for the proxy.  Both are attached to
// ctrl once their IPC connections are up.
func Open(ctx context.Context, cfg *config.Config, media, proxy string, ctrl Controller) (*Session, error) {
	if media == "" {
		return nil, errors.New("no media file given")
	}

	args, err := SplitArgs(cfg.Player.Args)
	if err != nil {
		return nil, err
	}
	var extra []string
	if proxy != "" {
		if extra, err = SplitArgs(cfg.Player.ProxyArgs); err != nil {
			return nil, err
		}
	}

	s := &Session{
		ctrl:     ctrl,
		autoplay: cfg.Player.Autoplay,
		fixedFPS: cfg.Scrub.FPS > 0,
		done:     make(chan struct{}),
	}

	s.primary = NewMPV(Options{
		Path:      cfg.Player.Path,
		Args:      args,
		SocketDir: cfg.Player.SocketDir,
		Role:      "primary",
	})
	if err := s.primary.Start(ctx, media); err != nil {
		return nil, fmt.Errorf("failed to open media: %w", err)
	}

	if proxy != "" {
		proxyArgs := append(append([]string{}, args...), extra...)
		s.proxy = NewMPV(Options{
			Path:      cfg.Player.Path,
			Args:      proxyArgs,
			SocketDir: cfg.Player.SocketDir,
			Role:      "proxy",
		})
		if err := s.proxy.Start(ctx, proxy); err != nil {
			_ = s.primary.Close()
			return nil, fmt.Errorf("failed to open proxy: %w", err)
		}
	}

	if s.proxy != nil {
		ctrl.Attach(s.primary, s.proxy)
	} else {
		ctrl.Attach(s.primary, nil)
	}
	ctrl.SetDisplay(&display{primary: s.primary, proxy: s.proxy})

	s.wg.Add(1)
	go s.pumpPrimary()
	if s.proxy != nil {
		s.wg.Add(1)
		go s.drainProxy()
	}

	log.Info("Session opened", "media", media, "proxy", proxy)
	return s, nil
}

// Done is closed when the primary mpv goes away, e.g. because its window was closed
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close detaches the controller, stops both mpv instances and waits for the event pumps
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.ctrl.Detach()
		s.ctrl.SetDisplay(nil)
		if s.proxy != nil {
			_ = s.proxy.Close()
		}
		_ = s.primary.Close()
		s.wg.Wait()
		log.Info("Session closed")
	})
	return nil
}

// pumpPrimary delivers the primary's events to the controller in arrival order
func (s *Session) pumpPrimary() {
	defer s.wg.Done()
	defer close(s.done)

	for ev := range s.primary.Events() {
		s.dispatch(ev)
	}
	log.Debug("Primary event stream ended")
}

func (s *Session) dispatch(ev PlaybackEvent) {
	switch ev.Type {
	case EventLoaded:
		s.ctrl.OnLoadedMetadata()
		if s.autoplay {
			s.ctrl.Play()
		}
	case EventTimeTick:
		s.ctrl.OnTimeTick()
	case EventDuration:
		s.ctrl.OnDurationChange()
	case EventProgress:
		s.ctrl.OnProgress()
	case EventEnded:
		s.ctrl.OnEnded()
	case EventFullscreen:
		s.ctrl.OnFullscreenChange()
	case EventFPS:
		if !s.fixedFPS {
			s.ctrl.SetFPS(ev.Value)
		}
	case EventShutdown:
		log.Info("Primary mpv is shutting down")
	}
}

// drainProxy consumes the proxy's events.  The proxy only follows the primary, so only fullscreen matters.
func (s *Session) drainProxy() {
	defer s.wg.Done()

	for ev := range s.proxy.Events() {
		if ev.Type == EventFullscreen {
			s.ctrl.OnFullscreenChange()
			continue
		}
		log.Trace("Proxy event", "type", ev.Type, "value", ev.Value)
	}
}

// display applies fullscreen requests to both windows so the proxy covers the same area while dragging
type display struct {
	primary *MPV
	proxy   *MPV
}

func (d *display) RequestFullscreen() error {
	if d.proxy != nil {
		if err := d.proxy.RequestFullscreen(); err != nil {
			log.Debug("Failed to fullscreen proxy", "error", err)
		}
	}
	return d.primary.RequestFullscreen()
}

func (d *display) ExitFullscreen() error {
	if d.proxy != nil {
		if err := d.proxy.ExitFullscreen(); err != nil {
			log.Debug("Failed to leave fullscreen on proxy", "error", err)
		}
	}
	return d.primary.ExitFullscreen()
}

func (d *display) IsFullscreen() bool {
	return d.primary.IsFullscreen()
}
