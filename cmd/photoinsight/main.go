// Package main provides the CLI entry point for photoinsight.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/user/photoinsight/pkg/adapters/exifreader"
	"github.com/user/photoinsight/pkg/datauri"
	"github.com/user/photoinsight/pkg/orchestrator"
	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/scoring"
	"github.com/user/photoinsight/pkg/server"
	"github.com/user/photoinsight/pkg/summarizer"
)

var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:    "photoinsight",
		Usage:   l10n.T("Render photo-evaluation share cards and size-bounded uploads"),
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), EnvVars: []string{"PHOTOINSIGHT_CONFIG"}},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Save layout, card and compression attempts for inspection"), Category: l10n.T("Debug")},
			&cli.StringFlag{Name: "debug-dir", Value: "./debug", Usage: l10n.T("Directory for debug output"), Category: l10n.T("Debug")},
			&cli.StringFlag{Name: "platform", Usage: l10n.T("Export platform (desktop, mobile)"), Category: l10n.T("Export")},
			&cli.Float64Flag{Name: "target-mb", Usage: l10n.T("Upload size budget in megabytes"), Category: l10n.T("Compression")},
		},
		Commands: []*cli.Command{
			cardCommand(),
			compressCommand(),
			exifCommand(),
			serveCommand(),
		},
	}
}

func cardCommand() *cli.Command {
	return &cli.Command{
		Name:      "card",
		Usage:     l10n.T("Render a share card for a photo"),
		ArgsUsage: "<photo path or URL>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "request", Aliases: []string{"r"}, Usage: l10n.T("YAML or JSON share-card request file")},
			&cli.StringFlag{Name: "analysis", Aliases: []string{"a"}, Usage: l10n.T("JSON payload returned by the analysis service")},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: l10n.T("Card title")},
			&cli.StringSliceFlag{Name: "tag", Usage: l10n.T("Tag shown on the card (repeatable)")},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Write the card JPEG here instead of exporting it")},
			&cli.StringFlag{Name: "download-dir", Usage: l10n.T("Directory for downloaded cards"), Category: l10n.T("Export")},
			&cli.StringFlag{Name: "summary", Aliases: []string{"s"}, Usage: l10n.T("Write a Markdown summary to this path")},
		},
		Action: runCard,
	}
}

func runCard(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit(l10n.T("Exactly one photo is required"), 2)
	}
	a, err := newApp(c)
	if err != nil {
		return err
	}
	if c.IsSet("download-dir") {
		a.cfg.DownloadDir = c.String("download-dir")
	}

	req, err := buildRequest(c, a)
	if err != nil {
		return err
	}

	orch := a.orchestrator()
	toFile := c.String("output")
	source := strings.TrimPrefix(c.Args().First(), "file://")

	var result orchestrator.RunResult
	if isLocal(source) {
		data, err := a.fs.ReadFile(source)
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		result, err = orch.Run(c.Context, orchestrator.RunInput{
			File:    pipeline.ImageFile{Name: filepath.Base(source), MIMEType: mimetype.Detect(data).String(), Data: data, ModTime: time.Now()},
			Request: req,
			Export:  toFile == "",
		})
		if err != nil {
			return err
		}
	} else {
		req.Source = source
		card, err := orch.Render(c.Context, req)
		if err != nil {
			return err
		}
		result = orchestrator.RunResult{
			Title:  req.Title,
			Source: source,
			Tags:   req.Tags,
			Scores: req.Scores,
			Tier:   scoring.TierFor(req.Scores.Overall),
			Exif:   req.Exif,
			Card:   card,
		}
		if p, err := datauri.Decode(card.DataURI); err == nil {
			result.CardBytes = len(p.Data)
		}
		if toFile == "" && !orch.ExportCard(c.Context, card.DataURI, req.Title) {
			return cli.Exit(l10n.T("Save failed, please long-press to save manually"), 1)
		}
	}

	if toFile != "" {
		p, err := datauri.Decode(result.Card.DataURI)
		if err != nil {
			return err
		}
		if err := a.fs.WriteFile(toFile, p.Data); err != nil {
			a.log.Error("Failed to write output: %s", err.Error())
			return fmt.Errorf("write output: %w", err)
		}
		a.log.Info("Card written to %s", toFile)
	}

	if path := c.String("summary"); path != "" {
		w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), a.fs)
		if err := w.Write(path, buildSummary(result)); err != nil {
			return err
		}
		a.log.Info("Summary written to %s", path)
	}

	if toFile == "" && isLocal(source) && !result.Export.Saved {
		return cli.Exit(l10n.T("Save failed, please long-press to save manually"), 1)
	}
	return nil
}

// buildRequest merges the request file, the analysis payload and flags,
// later sources winning.
func buildRequest(c *cli.Context, a *app) (pipeline.ShareCardRequest, error) {
	var req pipeline.ShareCardRequest

	if path := c.String("request"); path != "" {
		data, err := a.fs.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("read request: %w", err)
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse request %s: %w", path, err)
		}
		req.Scores = req.Scores.Normalize()
	}

	if path := c.String("analysis"); path != "" {
		data, err := a.fs.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("read analysis: %w", err)
		}
		analysis, err := pipeline.DecodeAnalysis(data)
		if err != nil {
			return req, err
		}
		req.Scores = analysis.Scores
		req.Analysis = analysis.Analysis
		if req.Title == "" && len(analysis.Analysis.SuggestedTitles) > 0 {
			req.Title = analysis.Analysis.SuggestedTitles[0]
		}
		if len(req.Tags) == 0 {
			req.Tags = analysis.Analysis.SuggestedTags
		}
	}

	if c.IsSet("title") {
		req.Title = c.String("title")
	}
	if tags := c.StringSlice("tag"); len(tags) > 0 {
		req.Tags = tags
	}
	return req, nil
}

func buildSummary(r orchestrator.RunResult) *summarizer.Summary {
	b := summarizer.NewBuilder().
		WithPhoto(r.Title, r.Source, r.Tags).
		WithScores(r.Scores).
		WithTier(r.Tier.ID, tierLabel(r)).
		WithExif(r.Exif).
		WithCard(r.Card.Layout, r.CardBytes).
		WithExport(r.Export)
	if r.OriginalBytes > 0 {
		b.WithCompression(r.OriginalBytes, r.Compression)
	}
	return b.Build()
}

func tierLabel(r orchestrator.RunResult) string {
	if r.Tier.LabelKey == "" {
		return ""
	}
	return r.Tier.Label()
}

func compressCommand() *cli.Command {
	return &cli.Command{
		Name:      "compress",
		Usage:     l10n.T("Compress a photo to the upload size budget"),
		ArgsUsage: "<photo path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output path (default: next to the input)")},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit(l10n.T("Exactly one photo is required"), 2)
			}
			a, err := newApp(c)
			if err != nil {
				return err
			}

			in := c.Args().First()
			data, err := a.fs.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read photo: %w", err)
			}
			file := pipeline.ImageFile{Name: filepath.Base(in), MIMEType: mimetype.Detect(data).String(), Data: data, ModTime: time.Now()}

			result, err := a.compressStage().Execute(c.Context, pipeline.CompressionRequest{File: file, TargetMB: a.cfg.TargetMB})
			if err != nil {
				return err
			}
			if result.Unchanged {
				a.log.Info("Upload unchanged: %s", file.Name)
				return nil
			}

			out := c.String("output")
			if out == "" {
				out = filepath.Join(filepath.Dir(in), "compressed-"+result.File.Name)
			}
			if err := a.fs.WriteFile(out, result.File.Data); err != nil {
				a.log.Error("Failed to write output: %s", err.Error())
				return fmt.Errorf("write output: %w", err)
			}
			a.log.Info("Compressed %s: %d -> %d bytes", out, file.Size(), result.File.Size())
			return nil
		},
	}
}

func exifCommand() *cli.Command {
	return &cli.Command{
		Name:      "exif",
		Usage:     l10n.T("Print the camera metadata of a photo"),
		ArgsUsage: "<photo path>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit(l10n.T("Exactly one photo is required"), 2)
			}
			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return fmt.Errorf("read photo: %w", err)
			}
			snapshot, err := exifreader.New().Read(data)
			if err != nil {
				return err
			}
			if snapshot == nil {
				fmt.Println(l10n.F("No EXIF metadata in %s", c.Args().First()))
				return nil
			}
			out, err := yaml.Marshal(snapshot)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: l10n.T("Serve the HTTP API"),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: l10n.T("Listen address (default from config, :8080)")},
		},
		Action: func(c *cli.Context) error {
			a, err := newApp(c)
			if err != nil {
				return err
			}
			addr := a.cfg.Server.Addr
			if c.IsSet("addr") {
				addr = c.String("addr")
			}

			srv := server.New(
				a.compressStage(),
				a.remoteCardStage(),
				exifreader.New(),
				a.log,
				server.Config{
					MaxUploadBytes: int64(a.cfg.Server.MaxUploadMB * 1024 * 1024),
					Version:        version,
				},
			)
			return srv.Run(c.Context, addr)
		},
	}
}

func isLocal(source string) bool {
	lower := strings.ToLower(source)
	return !strings.HasPrefix(lower, "http://") &&
		!strings.HasPrefix(lower, "https://") &&
		!datauri.IsDataURI(source)
}
