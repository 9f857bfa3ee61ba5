package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledpwm5947/internal/config"
	"github.com/coreman2200/ledpwm5947/internal/fade"
	"github.com/coreman2200/ledpwm5947/internal/preview"
	"github.com/coreman2200/ledpwm5947/internal/ws"
	"github.com/coreman2200/ledpwm5947/pwm"
	"github.com/coreman2200/ledpwm5947/tlc5947"
)

func main() {
	var (
		configPath = flag.String("config", "ledpwm5947.yaml", "path to the YAML config")
		simOnly    = flag.Bool("sim", false, "force the simulated chip (no hardware output)")
		addr       = flag.String("addr", "", "HTTP listen address for /ws and /health")
		console    = flag.Bool("console", false, "print every frame to the terminal")
		once       = flag.Bool("once", false, "flush one frame and exit, leaving it latched")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	code := 0
	defer func() { os.Exit(code) }()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	if *simOnly {
		cfg.Backend = config.BackendSim
	}
	if *addr != "" {
		cfg.Preview.Addr = *addr
	}
	if *console {
		cfg.Preview.Console = true
	}

	lines, err := openBackend(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("open lines")
	}
	defer func() {
		if err := lines.Close(); err != nil {
			log.Warn().Err(err).Msg("close lines")
		}
	}()

	dev := tlc5947.New(lines.Pins())
	if err := dev.Begin(); err != nil {
		log.Error().Err(err).Msg("begin failed")
		code = 1
		return
	}

	fader, err := fade.New(fade.Options{
		Mode:     fade.Mode(cfg.Mode),
		Step:     pwm.NewStep(cfg.Step),
		Channels: cfg.ChannelList(),
		Spread:   cfg.Spread,
	}, log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("fader")
		code = 1
		return
	}

	r := &runner{dev: dev, fader: fader, mirror: openMirror(cfg), log: log.Logger}

	if *once {
		if err := r.tick(); err != nil {
			code = 1
		}
		return
	}

	var srv *http.Server
	if cfg.Preview.Addr != "" {
		r.hub = ws.NewHub(log.Logger)
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", r.hub.HandleFrames)
		mux.HandleFunc("/health", r.hub.HandleHealth)
		srv = &http.Server{
			Addr:         cfg.Preview.Addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server crashed")
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-ch
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
	}()

	log.Info().
		Str("backend", cfg.Backend).
		Str("mode", cfg.Mode).
		Dur("interval", cfg.Interval).
		Int("mirrors", r.mirror.Len()).
		Msg("running")
	r.loop(ctx, cfg.Interval)

	if srv != nil {
		_ = srv.Close()
		r.hub.Close()
	}
	if err := r.shutdown(); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
}

func openMirror(cfg *config.Config) *preview.Mirror {
	m := preview.NewMirror()
	if cfg.Preview.Console {
		m.Add(preview.Console())
	}
	if cfg.Mirror.Enabled {
		d, err := preview.Strip(cfg.Mirror.SPI, cfg.Mirror.SpeedKHz)
		if err != nil {
			log.Warn().Err(err).Str("spi", cfg.Mirror.SPI).Msg("strip mirror disabled")
		} else {
			m.Add(d)
		}
	}
	return m
}
