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
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"trainingdocs/internal/bundle"
	"trainingdocs/internal/crash"
	"trainingdocs/internal/export"
	"trainingdocs/internal/importer"
	"trainingdocs/internal/storage"
	"trainingdocs/internal/ui"
	"trainingdocs/internal/version"
)

// selectionFlags maps the document switches of generate.
type selectionFlags struct {
	all, logbook, certificates bool
}

func (s *selectionFlags) bind(fs *pflag.FlagSet) {
	fs.BoolVar(&s.all, "all", false, "generate the logbook and all certificates")
	fs.BoolVar(&s.logbook, "logbook", false, "generate the logbook")
	fs.BoolVar(&s.certificates, "certificates", false, "generate the certificates")
}

// selection treats no switch at all as --all.
func (s selectionFlags) selection() export.Selection {
	if s.all {
		return export.All
	}
	sel := export.Selection{Logbook: s.logbook, Certificates: s.certificates}
	if sel.Empty() {
		return export.All
	}
	return sel
}

func absDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

func (c *cli) generateCommand() *cobra.Command {
	var (
		sel   selectionFlags
		merge bool
		save  bool
		out   string
	)
	cmd := &cobra.Command{
		Use:   "generate <directory>",
		Short: "Render the logbook and certificates of a training folder",
		Example: `  trainingdocs generate ./12_2025_BHP
  trainingdocs generate ./12_2025_BHP --certificates --merge --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := absDir(args[0])
			if _, err := storage.LoadFile(filepath.Join(root, storage.DataFileName)); err != nil {
				return err
			}
			ph, err := storage.Open(root)
			if err != nil {
				return err
			}
			defer crash.Recover(ph)
			s := sel.selection()
			res, err := storage.RunGeneration(cmd.Context(), ph, storage.GenerationOptions{
				GenerateOptions: export.GenerateOptions{Selection: s, MergeCertificates: (merge || c.cfg.General.MergeCertificates) && s.Certificates},
				Composer:        c.composer,
				OutDir:          out,
				Save:            save,
			})
			if err != nil {
				return err
			}
			if res.Logbook != "" {
				fmt.Fprintln(c.out, okStyle.Render("logbook"), res.Logbook)
			}
			for _, is := range res.Certificates {
				fmt.Fprintln(c.out, okStyle.Render(is.Serial), is.Path)
			}
			if res.Merged != "" {
				fmt.Fprintln(c.out, okStyle.Render("merged"), res.Merged)
			}
			if !save && len(res.Certificates) > 0 {
				fmt.Fprintln(c.out, dimStyle.Render("serial ids not saved, rerun with --save to keep them"))
			}
			return nil
		},
	}
	sel.bind(cmd.Flags())
	cmd.Flags().BoolVar(&merge, "merge", false, "also write all certificates into one PDF")
	cmd.Flags().BoolVar(&save, "save", false, "persist assigned serial ids and issuance stamps")
	cmd.Flags().StringVar(&out, "out", "", "output directory (default: the training folder)")
	return cmd
}

func (c *cli) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <parent> <name>",
		Short: "Create a training folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := storage.NewTrainingFolder(absDir(args[0]), args[1])
			if err != nil {
				return err
			}
			c.l.Info("training folder created", slog.String("root", dir))
			fmt.Fprintln(c.out, "Created", dir)
			return nil
		},
	}
}

func (c *cli) importCommand() *cobra.Command {
	var keepEarlier bool
	cmd := &cobra.Command{
		Use:   "import <directory> <spreadsheet>",
		Short: "Import an attendance spreadsheet (.ods, .xlsx) into a training folder",
		Long: `Import replaces data.json with the attendees from the spreadsheet. The training
block starts empty. Duplicates with the same birth date are merged; pairs with
differing birth dates are kept and listed for review.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(absDir(args[0]))
			if err != nil {
				return err
			}
			opts := importer.Options{Policy: importer.DropEarlier}
			if keepEarlier {
				opts.Policy = importer.DropLater
			}
			res, err := storage.ImportAttendance(cmd.Context(), ph, args[1], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Imported %d participants, %d duplicates dropped\n", len(res.Participants), len(res.Dropped))
			if len(res.Uncertain) > 0 {
				fmt.Fprintln(c.out, warnStyle.Render("Possible duplicates with different birth dates:"))
				fmt.Fprintln(c.out, uncertainTable(res.Uncertain))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepEarlier, "keep-earlier", false, "on a tie keep the earlier row instead of the later one")
	return cmd
}

func (c *cli) surveyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "survey <directory> <spreadsheet>",
		Short: "Summarize an evaluation survey into text and PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(absDir(args[0]))
			if err != nil {
				return err
			}
			s, err := storage.ImportSurvey(cmd.Context(), ph, args[1], c.composer)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%d responses, %d questions\n", s.Responses, len(s.Columns))
			fmt.Fprintln(c.out, filepath.Join(ph.Root, storage.SurveyTextFileName))
			fmt.Fprintln(c.out, filepath.Join(ph.Root, storage.SurveyPDFFileName))
			return nil
		},
	}
}

func (c *cli) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <directory>",
		Short: "Print the training block and the participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(absDir(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, titleStyle.Render(filepath.Base(ph.Root)))
			fmt.Fprintln(c.out, trainingTable(ph.Live.Training))
			fmt.Fprintln(c.out, participantTable(ph.Live.Participants))
			if ph.Dirty() {
				fmt.Fprintln(c.out, warnStyle.Render(storage.DataFileName+" differs from the last saved snapshot"))
			} else {
				fmt.Fprintln(c.out, okStyle.Render("saved"))
			}
			return nil
		},
	}
}

func (c *cli) historyCommand() *cobra.Command {
	var imports bool
	cmd := &cobra.Command{
		Use:   "history <directory>",
		Short: "List issued certificates from the register",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := absDir(args[0])
			if _, err := storage.Open(root); err != nil {
				return err
			}
			rebuilt, err := storage.CheckRegister(cmd.Context(), root)
			if err != nil {
				return err
			}
			if rebuilt {
				fmt.Fprintln(c.out, warnStyle.Render("register was damaged and has been recreated; earlier history is in "+storage.RegisterDirName+"/backups"))
			}
			db, err := storage.OpenRegister(root)
			if err != nil {
				return err
			}
			defer db.Close()
			if imports {
				recs, err := storage.ListImports(cmd.Context(), db)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.out, importsTable(recs))
				return nil
			}
			items, err := storage.ListIssuances(cmd.Context(), db)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(c.out, dimStyle.Render("no certificates issued yet"))
				return nil
			}
			fmt.Fprintln(c.out, issuanceTable(items))
			return nil
		},
	}
	cmd.Flags().BoolVar(&imports, "imports", false, "list spreadsheet imports instead")
	return cmd
}

func (c *cli) bundleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bundle <directory> <out.zip>",
		Short: "Zip the data file, logbook and certificates with a manifest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := bundle.Export(absDir(args[0]), args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Wrote %s (%d files, %d participants)\n", args[1], len(m.Files), m.Participants)
			return nil
		},
	}
}

func (c *cli) uiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui [directory]",
		Short: "Launch the desktop UI (build with -tags fyne)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return ui.Run(dir)
		},
	}
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(c.out, "trainingdocs", version.String())
		},
	}
}
