/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"trainingdocs/internal/config"
	"trainingdocs/internal/crash"
	"trainingdocs/internal/export"
	applog "trainingdocs/internal/log"
)

// cli carries what every subcommand needs once the root has loaded the config.
type cli struct {
	out        io.Writer
	configPath string
	verbose    bool
	cfg        config.AppConfig
	composer   *export.Composer
	l          *slog.Logger
}

func main() {
	defer crash.Recover(nil)
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	root := &cobra.Command{
		Use:   "trainingdocs",
		Short: "Training records, logbooks and certificates",
		Long: `trainingdocs keeps one folder per training run: the attendee record (data.json),
the archived source spreadsheets and the generated PDFs (logbook and certificates).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: user config dir)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		c.generateCommand(),
		c.initCommand(),
		c.importCommand(),
		c.surveyCommand(),
		c.showCommand(),
		c.historyCommand(),
		c.bundleCommand(),
		c.uiCommand(),
		c.versionCommand(),
	)
	return root
}

func (c *cli) setup() error {
	var (
		cfg config.AppConfig
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFrom(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	opts := applog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, AddSource: cfg.Logging.Source, File: cfg.Logging.File}
	if c.verbose {
		opts.Level = "debug"
	}
	applog.Init(opts)
	c.l = applog.WithComponent("cli")
	if err != nil {
		if c.configPath != "" {
			return err
		}
		c.l.Warn("config load failed, using defaults", slog.Any("err", err))
	}
	c.cfg = cfg
	c.composer = export.NewComposer(cfg)
	return nil
}
