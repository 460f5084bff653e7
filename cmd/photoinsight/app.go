package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/user/photoinsight/pkg/adapters/exifreader"
	"github.com/user/photoinsight/pkg/adapters/filesink"
	"github.com/user/photoinsight/pkg/adapters/galleryshare"
	"github.com/user/photoinsight/pkg/adapters/ggrenderer"
	"github.com/user/photoinsight/pkg/adapters/httpfetcher"
	"github.com/user/photoinsight/pkg/adapters/logger"
	"github.com/user/photoinsight/pkg/adapters/nullsink"
	"github.com/user/photoinsight/pkg/adapters/osfilesystem"
	"github.com/user/photoinsight/pkg/config"
	"github.com/user/photoinsight/pkg/orchestrator"
	"github.com/user/photoinsight/pkg/ports"
	"github.com/user/photoinsight/pkg/stages/compress"
	"github.com/user/photoinsight/pkg/stages/export"
	"github.com/user/photoinsight/pkg/stages/loader"
	"github.com/user/photoinsight/pkg/stages/sharecard"
)

// app holds the adapters shared by every command.
type app struct {
	cfg      config.Config
	log      ports.Logger
	fs       ports.FileSystem
	renderer ports.Renderer
	sink     ports.DebugSink
}

// newApp loads the config file and applies global flag overrides.
func newApp(c *cli.Context) (*app, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("platform") {
		cfg.Platform = c.String("platform")
	}
	if c.IsSet("target-mb") {
		cfg.TargetMB = c.Float64("target-mb")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Level()
	if c.Bool("quiet") {
		level = ports.LevelQuiet
	}

	fs := osfilesystem.New()

	fonts, err := cfg.Fonts.Load(fs)
	if err != nil {
		return nil, err
	}
	renderer, err := ggrenderer.NewWithFonts(fonts)
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	return &app{
		cfg:      cfg,
		log:      logger.New(level),
		fs:       fs,
		renderer: renderer,
		sink:     sink,
	}, nil
}

func (a *app) compressStage() *compress.Stage {
	return compress.NewStage(a.renderer, a.sink, a.log)
}

// cardStage renders cards from URLs, data URIs and local paths.
func (a *app) cardStage() *sharecard.Stage {
	fetcher := httpfetcher.New(a.cfg.ToFetcherConfig())
	load := loader.NewStage(fetcher, a.fs, a.renderer, a.log)
	return sharecard.NewStage(load, a.renderer, a.sink, a.log, a.cfg.ToShareCardConfig())
}

// remoteCardStage never reads the local filesystem. The server uses it.
func (a *app) remoteCardStage() *sharecard.Stage {
	fetcher := httpfetcher.New(a.cfg.ToFetcherConfig())
	load := loader.NewRemoteStage(fetcher, a.renderer, a.log)
	return sharecard.NewStage(load, a.renderer, a.sink, a.log, a.cfg.ToShareCardConfig())
}

func (a *app) exporter() *export.Exporter {
	var share ports.ShareTarget
	if export.ParsePlatform(a.cfg.Platform) == export.PlatformMobile {
		share = galleryshare.New(a.fs, a.cfg.GalleryDir)
	}
	return export.New(share, a.fs, a.log, a.cfg.ToExportConfig())
}

func (a *app) orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(
		exifreader.New(),
		a.compressStage(),
		a.cardStage(),
		a.exporter(),
		a.log,
		a.cfg.ToOrchestratorConfig(),
	)
}
