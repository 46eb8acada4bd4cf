//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"trainingdocs/internal/bundle"
	"trainingdocs/internal/config"
	"trainingdocs/internal/crash"
	"trainingdocs/internal/export"
	"trainingdocs/internal/importer"
	applog "trainingdocs/internal/log"
	"trainingdocs/internal/storage"
	"trainingdocs/internal/version"
)

var spreadsheetExts = []string{".ods", ".xlsx", ".xlsm"}

// editor holds the window state for one opened training folder.
type editor struct {
	w      fyne.Window
	prefs  fyne.Preferences
	l      *slog.Logger
	cfg    config.AppConfig
	comp   *export.Composer
	ph     *storage.ProjectHandle
	status *widget.Label

	entries  map[string]*widget.Entry
	rows     [][]string
	table    *widget.Table
	merge    *widget.Check
	loading  bool
	actions  []*widget.Button
	progress dialog.Dialog
}

// Run starts the desktop UI. Pass an optional training folder to open immediately.
func Run(projectDir string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	applog.Init(applog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, AddSource: cfg.Logging.Source, File: cfg.Logging.File})
	l := applog.WithComponent("ui")
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
	}
	defer crash.Recover(nil)

	a := app.NewWithID("pl.trainingdocs")
	prefs := a.Preferences()
	w := a.NewWindow(windowTitle("", false))
	w.Resize(fyne.NewSize(
		float32(prefs.IntWithFallback("window.width", 1100)),
		float32(prefs.IntWithFallback("window.height", 760)),
	))

	e := &editor{w: w, prefs: prefs, l: l, cfg: cfg, comp: export.NewComposer(cfg), status: widget.NewLabel("Nie otwarto folderu szkolenia")}
	w.SetContent(e.build())
	w.SetMainMenu(e.menu())
	e.setEnabled(false)

	w.SetCloseIntercept(func() {
		e.confirmDiscard(func() {
			sz := w.Canvas().Size()
			prefs.SetInt("window.width", int(sz.Width))
			prefs.SetInt("window.height", int(sz.Height))
			w.Close()
		})
	})

	if projectDir == "" {
		if rec := loadRecentProjects(prefs); len(rec) > 0 {
			projectDir = rec[0]
		}
	}
	if projectDir != "" {
		if err := e.open(projectDir); err != nil {
			l.Error("auto-open training folder failed", slog.Any("err", err))
		}
	}

	l.Info("ui started", slog.String("version", version.String()))
	w.ShowAndRun()
	return nil
}

func (e *editor) build() fyne.CanvasObject {
	e.entries = make(map[string]*widget.Entry, len(trainingFields))
	items := make([]*widget.FormItem, 0, len(trainingFields))
	for _, f := range trainingFields {
		var en *widget.Entry
		if f.Multiline {
			en = widget.NewMultiLineEntry()
			en.SetMinRowsVisible(6)
		} else {
			en = widget.NewEntry()
		}
		key := f.Key
		en.OnChanged = func(s string) { e.fieldChanged(key, s) }
		e.entries[key] = en
		items = append(items, widget.NewFormItem(f.Label, en))
	}
	form := widget.NewForm(items...)

	e.table = widget.NewTable(
		func() (int, int) { return len(e.rows) + 1, len(participantColumns) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(participantColumns[id.Col])
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			lbl.SetText(e.rows[id.Row-1][id.Col])
		},
	)
	for i, wdt := range []float32{40, 220, 120, 140, 200, 120} {
		e.table.SetColumnWidth(i, wdt)
	}

	e.merge = widget.NewCheck("Połącz certyfikaty w jeden plik", nil)
	e.merge.SetChecked(e.cfg.General.MergeCertificates)

	btnAttendance := widget.NewButton("Importuj listę obecności", e.importAttendance)
	btnSurvey := widget.NewButton("Importuj ankietę", e.importSurvey)
	btnSave := widget.NewButton("Zapisz", func() { e.save(nil) })
	btnLogbook := widget.NewButton("Dziennik", func() { e.generate(export.Selection{Logbook: true}) })
	btnCerts := widget.NewButton("Certyfikaty", func() { e.generate(export.Selection{Certificates: true}) })
	btnAll := widget.NewButton("Generuj wszystko", func() { e.generate(export.All) })
	btnAll.Importance = widget.HighImportance
	e.actions = []*widget.Button{btnAttendance, btnSurvey, btnSave, btnLogbook, btnCerts, btnAll}

	toolbar := container.NewHBox(btnAttendance, btnSurvey, widget.NewSeparator(), btnSave, widget.NewSeparator(), btnLogbook, btnCerts, btnAll, e.merge)
	split := container.NewVSplit(container.NewVScroll(form), e.table)
	split.Offset = 0.55
	return container.NewBorder(toolbar, e.status, nil, nil, split)
}

func (e *editor) menu() *fyne.MainMenu {
	newItem := fyne.NewMenuItem("Nowy folder szkolenia…", e.newFolder)
	openItem := fyne.NewMenuItem("Otwórz folder…", func() {
		e.confirmDiscard(func() {
			dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
				if err != nil {
					dialog.ShowError(err, e.w)
					return
				}
				if uri == nil {
					return
				}
				if err := e.open(uri.Path()); err != nil {
					dialog.ShowError(err, e.w)
				}
			}, e.w).Show()
		})
	})
	recent := fyne.NewMenuItem("Ostatnie", nil)
	var recentItems []*fyne.MenuItem
	for _, p := range loadRecentProjects(e.prefs) {
		recentItems = append(recentItems, fyne.NewMenuItem(p, func() {
			e.confirmDiscard(func() {
				if err := e.open(p); err != nil {
					dialog.ShowError(err, e.w)
				}
			})
		}))
	}
	if len(recentItems) > 0 {
		recent.ChildMenu = fyne.NewMenu("", recentItems...)
	} else {
		recent.Disabled = true
	}
	bundleItem := fyne.NewMenuItem("Eksportuj paczkę…", e.exportBundle)
	about := fyne.NewMenuItem("O programie", func() {
		dialog.ShowInformation("O programie", "trainingdocs "+version.String(), e.w)
	})
	return fyne.NewMainMenu(
		fyne.NewMenu("Plik", newItem, openItem, recent, fyne.NewMenuItemSeparator(), bundleItem),
		fyne.NewMenu("Pomoc", about),
	)
}

func (e *editor) setEnabled(on bool) {
	for _, b := range e.actions {
		if on {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	for _, en := range e.entries {
		if on {
			en.Enable()
		} else {
			en.Disable()
		}
	}
}

func (e *editor) fieldChanged(key, val string) {
	if e.loading || e.ph == nil {
		return
	}
	e.ph.Live.Training = applyTrainingForm(e.ph.Live.Training, map[string]string{key: val})
	e.w.SetTitle(windowTitle(e.ph.Root, e.ph.Dirty()))
}

func (e *editor) open(dir string) error {
	abs, _ := filepath.Abs(dir)
	e.l.Info("open training folder", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		return err
	}
	e.ph = h
	e.refresh()
	e.setEnabled(true)
	addRecentProject(e.prefs, abs)
	e.w.SetMainMenu(e.menu())
	e.status.SetText(fmt.Sprintf("Otwarto: %s", abs))
	return nil
}

// refresh pushes Live into the widgets without marking the record dirty.
func (e *editor) refresh() {
	e.loading = true
	for _, f := range trainingFields {
		e.entries[f.Key].SetText(formValue(e.ph.Live.Training, f.Key))
	}
	e.loading = false
	e.rows = participantRows(e.ph.Live)
	e.table.Refresh()
	e.w.SetTitle(windowTitle(e.ph.Root, e.ph.Dirty()))
}

func (e *editor) newFolder() {
	e.confirmDiscard(func() {
		name := widget.NewEntry()
		name.SetPlaceHolder("np. 12_2025_BHP")
		parent := widget.NewEntry()
		parent.SetText(e.cfg.General.TrainingRoot)
		dialog.NewForm("Nowy folder szkolenia", "Utwórz", "Anuluj", []*widget.FormItem{
			widget.NewFormItem("Nazwa", name),
			widget.NewFormItem("Katalog nadrzędny", parent),
		}, func(ok bool) {
			if !ok {
				return
			}
			dir, err := storage.NewTrainingFolder(strings.TrimSpace(parent.Text), strings.TrimSpace(name.Text))
			if err != nil {
				dialog.ShowError(err, e.w)
				return
			}
			if err := e.open(dir); err != nil {
				dialog.ShowError(err, e.w)
			}
		}, e.w).Show()
	})
}

// confirmDiscard runs next directly for a clean record, otherwise after the
// user chose to save or discard the pending edits.
func (e *editor) confirmDiscard(next func()) {
	if e.ph == nil || !e.ph.Dirty() {
		next()
		return
	}
	var d *dialog.CustomDialog
	save := widget.NewButton("Zapisz", func() { d.Hide(); e.save(next) })
	save.Importance = widget.HighImportance
	discard := widget.NewButton("Odrzuć", func() {
		d.Hide()
		e.ph.Reload()
		e.refresh()
		next()
	})
	cancel := widget.NewButton("Anuluj", func() { d.Hide() })
	d = dialog.NewCustomWithoutButtons("Niezapisane zmiany", widget.NewLabel("Dane szkolenia zostały zmienione. Zapisać je?"), e.w)
	d.SetButtons([]fyne.CanvasObject{cancel, discard, save})
	d.Show()
}

func (e *editor) save(next func()) {
	if e.ph == nil {
		return
	}
	if err := storage.Save(e.ph); err != nil {
		e.l.Error("save failed", slog.Any("err", err))
		dialog.ShowError(err, e.w)
		return
	}
	e.status.SetText("Zapisano " + storage.DataFileName)
	e.w.SetTitle(windowTitle(e.ph.Root, false))
	if next != nil {
		next()
	}
}

func (e *editor) pickSpreadsheet(onPick func(path string)) {
	open := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, e.w)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		onPick(path)
	}, e.w)
	open.SetFilter(fstorage.NewExtensionFileFilter(spreadsheetExts))
	open.Show()
}

func (e *editor) busy(msg string) {
	bar := widget.NewProgressBarInfinite()
	e.progress = dialog.NewCustomWithoutButtons(msg, bar, e.w)
	e.progress.Show()
}

func (e *editor) idle() {
	if e.progress != nil {
		e.progress.Hide()
		e.progress = nil
	}
}

func (e *editor) importAttendance() {
	e.pickSpreadsheet(func(path string) {
		ph := e.ph
		e.busy("Import listy obecności")
		go func() {
			defer crash.Recover(ph)
			res, err := storage.ImportAttendance(context.Background(), ph, path, importer.Options{})
			fyne.Do(func() {
				e.idle()
				if err != nil {
					dialog.ShowError(err, e.w)
					return
				}
				e.refresh()
				msg := fmt.Sprintf("Zaimportowano %d osób, usunięto %d duplikatów.", len(res.Participants), len(res.Dropped))
				if len(res.Uncertain) > 0 {
					msg += fmt.Sprintf("\n%d par wymaga sprawdzenia (różne daty urodzenia).", len(res.Uncertain))
				}
				e.status.SetText(msg)
				dialog.ShowInformation("Lista obecności", msg, e.w)
			})
		}()
	})
}

func (e *editor) importSurvey() {
	e.pickSpreadsheet(func(path string) {
		ph := e.ph
		e.busy("Podsumowanie ankiety")
		go func() {
			defer crash.Recover(ph)
			s, err := storage.ImportSurvey(context.Background(), ph, path, e.comp)
			fyne.Do(func() {
				e.idle()
				if err != nil {
					dialog.ShowError(err, e.w)
					return
				}
				e.status.SetText(fmt.Sprintf("Ankieta: %d odpowiedzi, %d pytań", s.Responses, len(s.Columns)))
			})
		}()
	})
}

func (e *editor) generate(sel export.Selection) {
	e.confirmDiscard(func() {
		ph := e.ph
		opts := storage.GenerationOptions{
			GenerateOptions: export.GenerateOptions{Selection: sel, MergeCertificates: e.merge.Checked && sel.Certificates},
			Composer:        e.comp,
			Save:            true,
		}
		e.busy("Generowanie dokumentów")
		go func() {
			defer crash.Recover(ph)
			res, err := storage.RunGeneration(context.Background(), ph, opts)
			fyne.Do(func() {
				e.idle()
				if err != nil {
					e.l.Error("generate failed", slog.Any("err", err))
					dialog.ShowError(err, e.w)
					return
				}
				e.refresh()
				parts := []string{}
				if res.Logbook != "" {
					parts = append(parts, "dziennik")
				}
				if n := len(res.Certificates); n > 0 {
					parts = append(parts, fmt.Sprintf("%d certyfikatów", n))
				}
				e.status.SetText("Wygenerowano: " + strings.Join(parts, ", "))
			})
		}()
	})
}

func (e *editor) exportBundle() {
	if e.ph == nil {
		return
	}
	e.confirmDiscard(func() {
		zipPath := filepath.Join(filepath.Dir(e.ph.Root), filepath.Base(e.ph.Root)+".zip")
		m, err := bundle.Export(e.ph.Root, zipPath)
		if err != nil {
			dialog.ShowError(err, e.w)
			return
		}
		dialog.ShowInformation("Paczka", fmt.Sprintf("Zapisano %s (%d plików)", zipPath, len(m.Files)), e.w)
	})
}

// Recent folder persistence.
const recentPrefsKey = "recent.trainings"
const recentMax = 10

func loadRecentProjects(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		_ = json.Unmarshal([]byte(raw), &items)
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := os.Stat(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func saveRecentProjects(p fyne.Preferences, items []string) {
	if len(items) > recentMax {
		items = items[:recentMax]
	}
	b, _ := json.Marshal(items)
	p.SetString(recentPrefsKey, string(b))
}

func addRecentProject(p fyne.Preferences, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	abs, _ := filepath.Abs(path)
	rec := loadRecentProjects(p)
	out := make([]string, 0, 1+len(rec))
	out = append(out, abs)
	for _, s := range rec {
		// de-dup (case-insensitive on Windows)
		if strings.EqualFold(s, abs) {
			continue
		}
		out = append(out, s)
	}
	saveRecentProjects(p, out)
}
