package main

import (
	"flag"
	"fmt"
	"image"
	png "image/png"
	"io"
	"math"
	"os"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/josanescod/ciber-intrusion-visualization/cmd/sessionviewer/uihelpers"
	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
	"github.com/josanescod/ciber-intrusion-visualization/src/render"
	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

type chartKind int

const (
	kindBubble chartKind = iota
	kindParallel
	kindRadial
)

var chartTitles = [...]string{"Bubble", "Parallel", "Radial"}

func (k chartKind) fileName() string {
	return strings.ToLower(chartTitles[k]) + "_chart.png"
}

type uiState struct {
	app      fyne.App
	window   fyne.Window
	filePath string
	records  []sessions.Session

	// filters
	attacks  analysis.TogglePair // A: attacks only, B: normal only
	uta      analysis.TogglePair // A: unusual time only, B: usual time only
	brushes  *analysis.BrushSet
	category analysis.Category
	mode     analysis.Mode

	// layouts
	bubble      analysis.BubbleLayout
	parallel    analysis.ParallelLayout
	radial      analysis.RadialLayout
	radialShown analysis.RadialLayout // current animation frame of radial
	radialAnim  *fyne.Animation
	hoverSeg    *analysis.ArcSegment

	// widgets
	fileLabel   *widget.Label
	statusLabel *widget.Label
	tabs        *container.AppTabs
	images      [3]*canvas.Image
	overlays    [3]*chartOverlay
	table       *widget.Table
}

func newUIState() *uiState {
	return &uiState{
		brushes:  analysis.NewBrushSet(),
		category: analysis.CategoryProtocol,
		mode:     analysis.ModeCount,
	}
}

func main() {
	var fileFlag string
	flag.StringVar(&fileFlag, "file", "", "Path to the session CSV")
	flag.Parse()

	a := app.NewWithID("com.sessioncharts.viewer")
	w := a.NewWindow("Session Charts")
	w.Resize(fyne.NewSize(1100, 820))

	state := newUIState()
	state.app = a
	state.window = w
	loadPrefs(state)
	if fileFlag != "" {
		state.filePath = fileFlag
	}

	state.fileLabel = widget.NewLabel(truncatePath(state.filePath, 60))
	state.statusLabel = widget.NewLabel("")

	// checkbox pairs; the pair logic unchecks the other box
	attackChk := widget.NewCheck("Show attacks", nil)
	normalChk := widget.NewCheck("Show normal", nil)
	wirePair(&state.attacks, attackChk, normalChk, func() { state.relayoutBubble(); state.paint(kindBubble) })
	uta1Chk := widget.NewCheck("Unusual time (1)", nil)
	uta0Chk := widget.NewCheck("Usual time (0)", nil)
	wirePair(&state.uta, uta1Chk, uta0Chk, func() { state.relayoutParallel(); state.paint(kindParallel) })
	resetBrushes := widget.NewButton("Clear brushes", func() {
		state.brushes.Reset()
		state.relayoutParallel()
		state.paint(kindParallel)
	})

	categoryRadio := widget.NewRadioGroup([]string{string(analysis.CategoryProtocol), string(analysis.CategoryEncryption)}, nil)
	categoryRadio.Horizontal = true
	categoryRadio.Required = true
	categoryRadio.Selected = string(state.category)
	categoryRadio.OnChanged = func(v string) {
		c, err := analysis.ParseCategory(v)
		if err != nil {
			return
		}
		state.category = c
		savePrefs(state)
		state.relayoutRadial()
		state.animateRadial()
	}
	modeRadio := widget.NewRadioGroup([]string{string(analysis.ModeCount), string(analysis.ModePercent)}, nil)
	modeRadio.Horizontal = true
	modeRadio.Required = true
	modeRadio.Selected = string(state.mode)
	modeRadio.OnChanged = func(v string) {
		m, err := analysis.ParseMode(v)
		if err != nil {
			return
		}
		state.mode = m
		savePrefs(state)
		state.relayoutRadial()
		state.animateRadial()
	}

	for k := range state.images {
		img := canvas.NewImageFromImage(render.Blank(900, 600))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(700, 480))
		state.images[k] = img
		state.overlays[k] = newChartOverlay(state, chartKind(k))
	}
	state.table = newGroupTable(state)

	bubbleTab := container.NewBorder(container.NewHBox(attackChk, normalChk), nil, nil, nil,
		container.NewStack(state.images[kindBubble], state.overlays[kindBubble]))
	parallelTab := container.NewBorder(container.NewHBox(uta1Chk, uta0Chk, resetBrushes,
		widget.NewLabel("Drag on an axis to brush, click it to clear")), nil, nil, nil,
		container.NewStack(state.images[kindParallel], state.overlays[kindParallel]))
	radialSplit := container.NewVSplit(container.NewStack(state.images[kindRadial], state.overlays[kindRadial]), state.table)
	radialSplit.Offset = 0.75
	radialTab := container.NewBorder(container.NewVBox(categoryRadio, modeRadio), nil, nil, nil, radialSplit)

	state.tabs = container.NewAppTabs(
		container.NewTabItem(chartTitles[kindBubble], bubbleTab),
		container.NewTabItem(chartTitles[kindParallel], parallelTab),
		container.NewTabItem(chartTitles[kindRadial], radialTab),
	)
	state.tabs.SelectIndex(a.Preferences().IntWithFallback("lastTab", 0))
	state.tabs.OnSelected = func(*container.TabItem) {
		a.Preferences().SetInt("lastTab", state.tabs.SelectedIndex())
		if chartKind(state.tabs.SelectedIndex()) == kindRadial {
			state.animateRadial()
		}
	}

	top := container.NewBorder(nil, nil, widget.NewLabel("File:"), state.statusLabel, state.fileLabel)
	w.SetContent(container.NewBorder(top, nil, nil, nil, state.tabs))
	buildMenus(state)
	loadAll(state)
	w.ShowAndRun()
}

// wirePair connects two checkboxes to a TogglePair. When a click would leave
// both checked the other box is cleared without firing its callback.
func wirePair(p *analysis.TogglePair, a, b *widget.Check, changed func()) {
	a.OnChanged = func(v bool) {
		if p.Click(analysis.SideA, v) {
			b.Checked = false
			b.Refresh()
		}
		changed()
	}
	b.OnChanged = func(v bool) {
		if p.Click(analysis.SideB, v) {
			a.Checked = false
			a.Refresh()
		}
		changed()
	}
}

// menus and dialogs
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() {
			state.filePath = f
			savePrefs(state)
			loadAll(state)
		}))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Current Chart…", func() { exportChartPNG(state, state.currentKind()) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { loadAll(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { state.window.Close() })
	}
}

func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		addRecentFile(state, state.filePath)
		savePrefs(state)
		buildMenus(state)
		loadAll(state)
	}, state.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	d.Show()
}

// loadAll reads the dataset off the UI goroutine and swaps it in when done.
func loadAll(state *uiState) {
	if state.filePath == "" {
		if _, err := os.Stat(sessions.DefaultDatasetFile); err != nil {
			state.setStatus("Open a session CSV (File > Open)")
			return
		}
		state.filePath = sessions.DefaultDatasetFile
	}
	path := state.filePath
	if state.fileLabel != nil {
		state.fileLabel.SetText(truncatePath(path, 60))
	}
	state.setStatus("Loading…")
	go func() {
		recs, err := sessions.LoadCSV(path)
		fyne.Do(func() {
			if err != nil {
				sessions.Errorf("load %s: %v", path, err)
				state.setStatus("Load failed")
				if state.window != nil {
					dialog.ShowError(err, state.window)
				}
				return
			}
			state.setRecords(recs)
			state.paintAll()
			state.animateRadial()
		})
	}()
}

// setRecords replaces the dataset and recomputes every layout.
func (state *uiState) setRecords(recs []sessions.Session) {
	state.records = recs
	state.brushes.Reset()
	state.hoverSeg = nil
	state.relayoutBubble()
	state.relayoutParallel()
	state.relayoutRadial()
	msg := fmt.Sprintf("%d sessions", len(recs))
	if state.bubble.Skipped > 0 {
		msg += fmt.Sprintf(", %d not plottable on the bubble chart", state.bubble.Skipped)
	}
	state.setStatus(msg)
}

func (state *uiState) setStatus(s string) {
	if state.statusLabel != nil {
		state.statusLabel.SetText(s)
	}
}

func (state *uiState) relayoutBubble() {
	state.bubble = analysis.LayoutBubbles(state.records, state.attacks, analysis.DefaultBubbleConfig())
}

func (state *uiState) relayoutParallel() {
	state.parallel = analysis.LayoutParallel(state.records, state.uta, state.brushes, analysis.DefaultParallelConfig())
}

func (state *uiState) relayoutRadial() {
	state.radial = analysis.BuildRadial(state.records, state.category, state.mode, analysis.DefaultRadialConfig())
	state.radialShown = state.radial
	state.hoverSeg = nil
	if state.table != nil {
		state.table.Refresh()
	}
}

// renderChart draws the current layout of k; render failures fall back to a blank image.
func (state *uiState) renderChart(k chartKind) image.Image {
	var draw render.DrawFunc
	w, h := 900, 600
	switch k {
	case kindBubble:
		l := state.bubble
		w, h = l.Width, l.Height
		draw = func(wr io.Writer, f render.Format) error { return render.Bubble(wr, f, l) }
	case kindParallel:
		l := state.parallel
		w, h = l.Width, l.Height
		draw = func(wr io.Writer, f render.Format) error { return render.Parallel(wr, f, l) }
	case kindRadial:
		l := state.radialShown
		w, h = l.Width, l.Height
		opts := render.RadialOptions{Highlight: state.hoverSeg}
		draw = func(wr io.Writer, f render.Format) error { return render.Radial(wr, f, l, opts) }
	}
	img, err := render.Image(draw)
	if err != nil {
		sessions.Warnf("%s chart render error: %v; showing blank fallback", chartTitles[k], err)
		if w <= 0 || h <= 0 {
			w, h = 900, 600
		}
		return render.Blank(w, h)
	}
	if k == kindBubble && state.bubble.Skipped > 0 {
		return render.Banner(img, fmt.Sprintf("%d sessions without a plottable rate are not shown", state.bubble.Skipped))
	}
	return img
}

func (state *uiState) paint(k chartKind) {
	img := state.renderChart(k)
	if c := state.images[k]; c != nil {
		c.Image = img
		c.Refresh()
	}
	if o := state.overlays[k]; o != nil {
		o.Refresh()
	}
}

func (state *uiState) paintAll() {
	for k := range state.images {
		state.paint(chartKind(k))
	}
}

// animateRadial replays the radial entry animation, replacing any running one.
func (state *uiState) animateRadial() {
	if state.radialAnim != nil {
		state.radialAnim.Stop()
		state.radialAnim = nil
	}
	tl := render.RadialTimeline(state.radial)
	total := tl.Duration()
	if state.images[kindRadial] == nil || total <= 0 {
		state.radialShown = state.radial
		state.paint(kindRadial)
		return
	}
	target := state.radial
	last := time.Duration(-1)
	anim := fyne.NewAnimation(total, func(f float32) {
		t := time.Duration(float64(total) * float64(f))
		if f < 1 && last >= 0 && t-last < 40*time.Millisecond {
			return
		}
		last = t
		state.radialShown = render.SampleRadial(target, tl, t)
		if f >= 1 {
			state.radialAnim = nil
		}
		state.paint(kindRadial)
	})
	anim.Curve = fyne.AnimationLinear
	state.radialAnim = anim
	anim.Start()
}

func (state *uiState) currentKind() chartKind {
	if state.tabs == nil {
		return kindBubble
	}
	return chartKind(state.tabs.SelectedIndex())
}

// newGroupTable lists the radial aggregates under the chart.
func newGroupTable(state *uiState) *widget.Table {
	headers := []string{"Group", "Total", "Low", "Medium", "High", "Confirmed", "Attack rate"}
	t := widget.NewTable(
		func() (int, int) { return len(state.radial.Groups) + 1, len(headers) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(groupCell(state.radial.Groups, id.Row, id.Col, headers))
		},
	)
	for i, w := range uihelpers.ComputeTableColumnWidths(1100) {
		t.SetColumnWidth(i, float32(w))
	}
	return t
}

// groupCell is the text of one group table cell; row 0 is the header.
func groupCell(groups []analysis.GroupAggregate, row, col int, headers []string) string {
	if row == 0 {
		return headers[col]
	}
	if row-1 >= len(groups) {
		return ""
	}
	g := groups[row-1]
	switch col {
	case 0:
		return analysis.DisplayKey(g.Key)
	case 1:
		return fmt.Sprintf("%d", g.Total)
	case 2, 3, 4, 5:
		return fmt.Sprintf("%d", g.RiskCounts[col-2])
	case 6:
		if math.IsNaN(g.AttackRate) {
			return "n/a"
		}
		return fmt.Sprintf("%.1f%%", g.AttackRate*100)
	}
	return ""
}

// export PNG
func exportChartPNG(state *uiState, k chartKind) {
	c := state.images[k]
	if state.window == nil {
		return
	}
	if c == nil || c.Image == nil || len(state.records) == 0 {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	// export the settled chart, not a half-animated frame
	img := c.Image
	if k == kindRadial {
		shown := state.radialShown
		state.radialShown = state.radial
		img = state.renderChart(kindRadial)
		state.radialShown = shown
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(k.fileName())
	fs.Show()
}

// recent files helpers
func recentFiles(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, "\n") {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	filtered := []string{path}
	for _, f := range recentFiles(state) {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	state.app.Preferences().SetString("recentFiles", strings.Join(filtered, "\n"))
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetString("category", string(state.category))
	prefs.SetString("mode", string(state.mode))
}

func loadPrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	state.filePath = prefs.StringWithFallback("lastFile", state.filePath)
	if c, err := analysis.ParseCategory(prefs.StringWithFallback("category", string(state.category))); err == nil {
		state.category = c
	}
	if m, err := analysis.ParseMode(prefs.StringWithFallback("mode", string(state.mode))); err == nil {
		state.mode = m
	}
}

func truncatePath(p string, n int) string {
	if len(p) <= n || n < 4 {
		return p
	}
	return "…" + p[len(p)-(n-1):]
}
