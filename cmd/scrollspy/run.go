package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/scrollspy/internal/document"
	"github.com/tinytelemetry/scrollspy/internal/httpserver"
	"github.com/tinytelemetry/scrollspy/internal/tui"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func run(ctx context.Context, cfg cliConfig, path string) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}
	logger, closeLog := configureRuntimeLogger(cfg.LogFile, level)
	defer closeLog()

	parseOpts := []document.Option{
		document.WithHeadingLevel(cfg.HeadingLevel),
		document.WithCodeStyle(cfg.CodeStyle),
	}
	doc, err := document.Load(path, parseOpts...)
	if err != nil {
		return err
	}
	for _, w := range doc.Warnings {
		logger.Warn("document warning", zap.String("path", path), zap.String("warning", w))
	}

	remote := tui.NewRemote()
	reader, err := tui.NewReaderPage(doc, tui.ReaderOptions{
		Path:               path,
		ParseOptions:       parseOpts,
		Observer:           cfg.Observer,
		SuppressDuration:   cfg.SuppressDuration,
		ScrollOffset:       cfg.ScrollOffset,
		Smooth:             cfg.SmoothScroll,
		SmoothFrames:       cfg.SmoothFrames,
		ReverseScrollWheel: cfg.ReverseScrollWheel,
		Remote:             remote,
		Logger:             logger.Named("reader"),
	})
	if err != nil {
		return err
	}
	app := tui.NewApp(reader)
	defer app.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(gctx))
	remote.Attach(p.Send)

	if cfg.APIEnabled {
		srv := httpserver.NewServer(cfg.APIAddr, remote, logger.Named("api"))
		if err := srv.Start(); err != nil {
			return fmt.Errorf("start control API: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			return srv.Stop()
		})
	}

	if cfg.Watch {
		w := document.NewWatcher(path, func(msg document.ReloadedMsg) { p.Send(msg) },
			document.WithLogger(logger.Named("watch")),
			document.WithParseOptions(parseOpts...),
		)
		g.Go(func() error { return w.Run(gctx) })
	}

	g.Go(func() error {
		// The other members stop once the reader exits.
		defer cancel()
		if _, err := p.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
				return nil
			}
			if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
				return fmt.Errorf("scrollspy requires a real terminal")
			}
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	})

	logger.Info("reader started",
		zap.String("path", path),
		zap.Int("sections", len(doc.Sections)),
		zap.Bool("watch", cfg.Watch),
		zap.Bool("api", cfg.APIEnabled),
	)
	return g.Wait()
}
