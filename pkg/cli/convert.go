// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/checksum"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/convert"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/defaults"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/manifest"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/oci"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/serializer"
	toolversion "github.com/helmfile2compose/h2c-servicemonitor/pkg/version"

	// registers the servicemonitor provider
	_ "github.com/helmfile2compose/h2c-servicemonitor/pkg/servicemonitor"
)

const (
	composeBaseName = "compose"
	reportBaseName  = "report"
	defaultOCITag   = "latest"
)

// fileConfig is the subset of the project config file this tool reads.
type fileConfig struct {
	Exclude []string `yaml:"exclude"`
}

// convertCmdOptions holds parsed options for the convert command.
type convertCmdOptions struct {
	inputs      []string
	outputDir   string
	format      serializer.Format
	exclude     []string
	checksums   bool
	report      bool
	timeout     time.Duration
	metricsFile string
	push        *oci.Reference
	plainHTTP   bool
	insecureTLS bool
}

// parseConvertCmdOptions parses and validates command options.
func parseConvertCmdOptions(cmd *cli.Command) (*convertCmdOptions, error) {
	opts := &convertCmdOptions{
		inputs:      cmd.StringSlice("input"),
		outputDir:   cmd.String("output"),
		checksums:   cmd.Bool("checksums"),
		report:      cmd.Bool("report"),
		timeout:     cmd.Duration("timeout"),
		metricsFile: cmd.String("metrics-file"),
		plainHTTP:   cmd.Bool("plain-http"),
		insecureTLS: cmd.Bool("insecure-tls"),
	}

	if len(opts.inputs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "at least one --input is required")
	}

	format, err := serializer.ParseFormat(cmd.String("format"))
	if err != nil {
		return nil, err
	}
	opts.format = format

	if path := cmd.String("config"); path != "" {
		fc, err := loadFileConfig(path)
		if err != nil {
			return nil, err
		}
		opts.exclude = append(opts.exclude, fc.Exclude...)
	}
	opts.exclude = append(opts.exclude, cmd.StringSlice("exclude")...)

	if target := cmd.String("push"); target != "" {
		ref, err := oci.ParseReference(target)
		if err != nil {
			return nil, err
		}
		if ref.Tag == "" {
			ref = ref.WithTag(toolversion.TagOr(version, defaultOCITag))
		}
		opts.push = ref
	}

	return opts, nil
}

// loadFileConfig reads the exclude list from a YAML config file. Other keys
// are ignored.
func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewWithContext(errors.ErrCodeNotFound, "config file not found",
				map[string]any{"path": path})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to read config file", err,
			map[string]any{"path": path})
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid config file", err,
			map[string]any{"path": path})
	}
	return &fc, nil
}

func convertCmd() *cli.Command {
	return &cli.Command{
		Name:                  "convert",
		EnableShellCompletion: true,
		Usage:                 "Generate the prometheus compose service from rendered manifests",
		Description: `Loads manifests from files, directories or URLs and converts the
Prometheus and ServiceMonitor resources they contain.

Warnings about skipped monitors or endpoints are printed to stderr; they never
fail the run.

# Examples

Convert a rendered helmfile:
  h2c-servicemonitor convert -i rendered/ -o out/

Exclude services and write checksums:
  h2c-servicemonitor convert -i rendered/ -o out/ --exclude 'redis-*' --checksums

Publish the output as an OCI artifact:
  h2c-servicemonitor convert -i rendered/ -o out/ --push oci://ghcr.io/acme/monitoring:v1`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Manifest file, directory or http(s) URL (can be repeated)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "Output directory for the compose file and generated configmaps",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   string(serializer.FormatYAML),
				Usage:   "Compose file format: yaml or json",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob of compose service names whose monitors are dropped (can be repeated)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file; its exclude list is merged with --exclude",
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Usage: "Write checksums.txt for every generated file",
			},
			&cli.BoolFlag{
				Name:  "report",
				Usage: "Write a conversion report (services, files, warnings) next to the compose file",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaults.CLIConvertTimeout,
				Usage: "Deadline for the whole run, including downloads and push",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write run metrics in the node-exporter textfile format to this path",
			},
			&cli.StringFlag{
				Name:  "push",
				Usage: fmt.Sprintf("Push the output directory to an OCI registry (e.g. oci://ghcr.io/acme/monitoring:v1, default tag: the tool version, or %s)", defaultOCITag),
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for the OCI registry",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the OCI registry (for local development)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseConvertCmdOptions(cmd)
			if err != nil {
				return err
			}
			return runConvert(ctx, cmd, opts)
		},
	}
}

func runConvert(ctx context.Context, cmd *cli.Command, opts *convertCmdOptions) error {
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	logger := slog.Default().With(convert.MetadataRunID, runID)

	cfg := convert.NewConfig(
		convert.WithOutputDir(opts.outputDir),
		convert.WithVersion(version),
		convert.WithExclude(opts.exclude...),
		convert.WithIncludeChecksums(opts.checksums),
	)
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid options", err)
	}

	logger.Info("converting",
		slog.Any("inputs", opts.inputs),
		slog.String("output", opts.outputDir),
		slog.Any("exclude", cfg.Exclude()),
	)

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to create output directory", err,
			map[string]any{"path": opts.outputDir})
	}

	manifests, err := manifest.Load(ctx, opts.inputs, manifest.WithLogger(logger))
	if err != nil {
		return err
	}

	run := convert.NewContext(cfg, logger)
	out, err := convert.NewDispatcher().Run(ctx, run, manifests)
	if err != nil {
		return err
	}

	composePath := filepath.Join(opts.outputDir, composeBaseName+opts.format.Ext())
	if err := serializer.WriteFile(ctx, opts.format, composePath, out.Compose); err != nil {
		return err
	}
	out.Files = append(out.Files, composePath)

	if opts.report {
		reportPath := filepath.Join(opts.outputDir, reportBaseName+opts.format.Ext())
		// the report lists itself
		out.Files = append(out.Files, reportPath)
		if err := serializer.WriteFile(ctx, opts.format, reportPath, convert.NewReport(out, version, runID)); err != nil {
			return err
		}
	}

	for _, w := range out.Warnings {
		fmt.Fprintf(stderr(cmd), "Warning: %s\n", w)
	}

	if cfg.IncludeChecksums() {
		if _, err := checksum.GenerateChecksums(ctx, opts.outputDir, out.Files); err != nil {
			return err
		}
	}

	if opts.metricsFile != "" {
		if err := run.Metrics().WriteTextfile(opts.metricsFile); err != nil {
			return errors.WrapWithContext(errors.ErrCodeIO, "failed to write metrics file", err,
				map[string]any{"path": opts.metricsFile})
		}
	}

	if opts.push != nil {
		res, err := oci.Push(ctx, oci.PushOptions{
			SourceDir:   opts.outputDir,
			Reference:   opts.push,
			Version:     version,
			PlainHTTP:   opts.plainHTTP,
			InsecureTLS: opts.insecureTLS,
		})
		if err != nil {
			return err
		}
		logger.Info("output pushed",
			"reference", res.Reference,
			"digest", res.Digest,
		)
		fmt.Fprintf(stdout(cmd), "Pushed %s@%s\n", res.Reference, res.Digest)
	}

	logger.Info("conversion complete",
		"services", out.ServiceNames(),
		"files", len(out.Files),
		"warnings", len(out.Warnings),
		"duration_sec", out.Duration.Seconds(),
	)
	fmt.Fprintln(stdout(cmd), out.Summary())
	return nil
}
