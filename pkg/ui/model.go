// Package ui is the terminal front end of the editor: a bubbletea program
// that paints the canvas on a cell raster and maps mouse and keyboard
// events onto the canvas controller.
package ui

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/vanderheijden86/connections/pkg/analysis"
	"github.com/vanderheijden86/connections/pkg/canvas"
	"github.com/vanderheijden86/connections/pkg/config"
	"github.com/vanderheijden86/connections/pkg/extlink"
	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/loader"
	"github.com/vanderheijden86/connections/pkg/model"
	"github.com/vanderheijden86/connections/pkg/session"
	"github.com/vanderheijden86/connections/pkg/store"
	"github.com/vanderheijden86/connections/pkg/watcher"
)

const (
	noticeTTL     = 4 * time.Second
	autosaveEvery = 5 * time.Second
	// panStep is how many cells an arrow key pans.
	panStep = 4
	// detailRatio is the share of the width the detail panel takes.
	detailRatio = 0.38
)

// Options configures the editor. Only Store is required.
type Options struct {
	Store   *store.Store
	Config  config.Config
	Session *session.DB
	Watcher *watcher.Watcher
	// OpenLink opens a web link; defaults to the system browser.
	OpenLink func(context.Context, string) error
	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error
	Logger    *zap.Logger
	Now       func() time.Time
	Renderer  *lipgloss.Renderer
}

type notice struct {
	text  string
	level canvas.NoticeLevel
	seq   int
}

// mailbox collects controller notices between events.
type mailbox struct {
	notices []canvas.Notice
}

// Model is the bubbletea model of the editor.
type Model struct {
	st    *store.Store
	cv    *canvas.Canvas
	cfg   config.Config
	db    *session.DB
	watch *watcher.Watcher
	open  func(context.Context, string) error
	clip  func(string) error
	log   *zap.Logger
	theme Theme
	keys  keyMap
	help  help.Model
	inbox *mailbox
	grid  cellGrid
	frame time.Duration

	width  int
	height int
	ready  bool

	showNames  bool
	showDetail bool
	showHelp   bool
	detail     detailPanel

	dialog     *dialog
	prompt     *pathPrompt
	candidates []string

	notice    notice
	noticeSeq int

	stats     analysis.Stats
	haveStats bool
	statsRev  uint64
	statsBusy bool

	sessionRev uint64

	exiting   bool
	exitQueue []string
	quitting  bool
	dragging  bool
}

// linkMods maps the configured link modifier onto controller modifiers.
func linkMods(name string) canvas.Mod {
	switch name {
	case "shift":
		return canvas.ModShift
	case "alt":
		return canvas.ModAlt
	}
	return canvas.ModShift | canvas.ModAlt
}

// NewModel builds the editor around a store.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	if opts.OpenLink == nil {
		opts.OpenLink = extlink.NewOpener().Open
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	cfg := opts.Config
	if cfg.Canvas.CellWidth <= 0 || cfg.Canvas.CellHeight <= 0 {
		cfg.Canvas = config.Default().Canvas
	}
	if cfg.Animation.FrameMS <= 0 {
		cfg.Animation.FrameMS = config.Default().Animation.FrameMS
	}

	inbox := &mailbox{}
	cv := canvas.New(canvas.Options{
		Store:    opts.Store,
		Measurer: canvas.CellMeasurer{},
		Limits: canvas.FloatLimits{
			MaxPeople:      cfg.Animation.MaxPeople,
			MaxConnections: cfg.Animation.MaxConnections,
		},
		Input: canvas.ControllerOptions{
			LinkMods: linkMods(cfg.Input.LinkModifier),
			Notify:   func(n canvas.Notice) { inbox.notices = append(inbox.notices, n) },
		},
		Now:    opts.Now,
		Logger: opts.Logger,
	})
	if cfg.Animation.Enabled {
		cv.Float.Start()
	}

	m := Model{
		st:        opts.Store,
		cv:        cv,
		cfg:       cfg,
		db:        opts.Session,
		watch:     opts.Watcher,
		open:      opts.OpenLink,
		clip:      opts.Clipboard,
		log:       opts.Logger.Named("ui"),
		theme:     DefaultTheme(opts.Renderer),
		keys:      defaultKeyMap(),
		help:      help.New(),
		inbox:     inbox,
		grid:      cellGrid{W: cfg.Canvas.CellWidth, H: cfg.Canvas.CellHeight},
		frame:     time.Duration(cfg.Animation.FrameMS) * time.Millisecond,
		showNames: true,
		detail:    newDetailPanel(),
	}
	for _, t := range m.st.Tabs() {
		m.watchPath(t.Path)
	}
	m.sessionRev, _ = m.st.Revision()
	return m
}

// Store returns the store driven by the model.
func (m Model) Store() *store.Store { return m.st }

func (m Model) lang() model.Lang { return m.st.Doc().Meta.Language }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		discoverCmd(m.cfg, m.db),
		waitForChange(m.watch),
		m.requestStats(),
	}
	if m.cv.Float.Running() {
		cmds = append(cmds, frameCmd(m.frame))
	}
	if m.db != nil {
		cmds = append(cmds, autosaveCmd(autosaveEvery))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		if m.dialog != nil {
			cmds = append(cmds, m.updateDialog(msg))
		}

	case tea.KeyMsg:
		switch {
		case m.dialog != nil:
			cmds = append(cmds, m.updateDialog(msg))
		case m.prompt != nil:
			p, cmd := m.prompt.Update(msg)
			m.prompt = &p
			cmds = append(cmds, cmd)
		case m.showHelp:
			m.showHelp = false
		default:
			cmds = append(cmds, m.handleKey(msg))
		}

	case tea.MouseMsg:
		if m.dialog == nil && m.prompt == nil && !m.showHelp {
			cmds = append(cmds, m.handleMouse(msg))
		}

	case pathChosenMsg:
		cmds = append(cmds, m.pathChosen(msg))

	case pathCancelledMsg:
		m.prompt = nil
		if msg.Mode == promptSave && m.exiting {
			m.abortExit()
		}

	case fileOpenedMsg:
		cmds = append(cmds, m.fileOpened(msg))

	case fileSavedMsg:
		cmds = append(cmds, m.fileSaved(msg))

	case fileChangedMsg:
		cmds = append(cmds, m.fileChanged(msg), waitForChange(m.watch))

	case fileReloadedMsg:
		cmds = append(cmds, m.fileReloaded(msg))

	case candidatesMsg:
		m.candidates = msg.Paths

	case statsMsg:
		m.statsBusy = false
		m.stats, m.statsRev, m.haveStats = msg.Stats, msg.Rev, true

	case frameMsg:
		if m.cv.Float.Running() {
			m.cv.Tick()
			cmds = append(cmds, frameCmd(m.frame))
		}

	case autosaveMsg:
		cmds = append(cmds, m.saveSession(), autosaveCmd(autosaveEvery))

	case sessionSavedMsg:
		if msg.Err != nil {
			m.log.Warn("session save failed", zap.Error(msg.Err))
		}

	case noticeExpiredMsg:
		if msg.Seq == m.notice.seq {
			m.notice = notice{}
		}

	case linkOpenedMsg:
		if msg.Err != nil {
			key := "openFailed"
			if errors.Is(msg.Err, extlink.ErrNotLink) {
				key = "notALink"
			}
			cmds = append(cmds, m.notify(canvas.NoticeWarning, key, map[string]string{"err": msg.Err.Error()}))
		} else {
			cmds = append(cmds, m.notify(canvas.NoticeInfo, "linksOpenExternally", nil))
		}

	case copiedMsg:
		if msg.Err != nil {
			m.log.Warn("clipboard write failed", zap.Error(msg.Err))
			cmds = append(cmds, m.notify(canvas.NoticeError, msg.Err.Error(), nil))
		} else {
			cmds = append(cmds, m.notify(canvas.NoticeInfo, "copied", map[string]string{"value": msg.Value}))
		}

	default:
		// huh and textinput run on their own internal messages.
		if m.dialog != nil {
			cmds = append(cmds, m.updateDialog(msg))
		} else if m.prompt != nil {
			p, cmd := m.prompt.Update(msg)
			m.prompt = &p
			cmds = append(cmds, cmd)
		}
	}

	if m.quitting {
		return m, tea.Quit
	}
	cmds = append(cmds, m.afterEvent())
	return m, tea.Batch(cmds...)
}

// afterEvent brings derived state up to date: the canvas follows the
// store, controller notices become status messages, controller modals
// become dialogs and the detail panel and stats follow the document.
func (m *Model) afterEvent() tea.Cmd {
	var cmds []tea.Cmd
	m.cv.Sync()

	for _, n := range m.inbox.notices {
		cmds = append(cmds, m.notify(n.Level, n.Key, n.Params))
	}
	m.inbox.notices = nil

	if m.dialog == nil {
		switch m.cv.Ctrl.Modal() {
		case canvas.ModalConnection:
			cmds = append(cmds, m.openDialog(connectionDialog(m.lang())))
		case canvas.ModalBulkDelete:
			cmds = append(cmds, m.openDialog(bulkDeleteDialog(m.lang(), len(m.st.Selection().Multi))))
		}
	}

	if m.showDetail {
		rev, _ := m.st.Revision()
		m.detail.Refresh(m.st.Doc(), m.st.Selection().Focused, rev)
	}
	cmds = append(cmds, m.requestStats())
	return tea.Batch(cmds...)
}

// requestStats starts an analysis when the graph changed since the last
// one and none is running.
func (m *Model) requestStats() tea.Cmd {
	_, graph := m.st.Revision()
	if m.statsBusy || (m.haveStats && graph == m.statsRev) {
		return nil
	}
	m.statsBusy = true
	return statsCmd(graph, m.st.Doc())
}

// notify shows a localized message in the status bar for a while. Keys
// without a translation are shown as is.
func (m *Model) notify(level canvas.NoticeLevel, key string, params map[string]string) tea.Cmd {
	m.noticeSeq++
	m.notice = notice{text: i18n.T(m.lang(), key, params), level: level, seq: m.noticeSeq}
	return noticeExpiryCmd(m.noticeSeq, noticeTTL)
}

// layout sizes the canvas and the panels to the window.
func (m *Model) layout() {
	cols, rows := m.canvasSize()
	m.cv.Ctrl.SetSize(float64(cols)*m.grid.W, float64(rows)*m.grid.H)
	if m.showDetail {
		m.detail.SetSize(m.width-cols-1, rows)
	}
	if m.prompt != nil {
		m.prompt.SetWidth(m.width)
	}
	m.help.Width = m.width
}

// canvasSize is the canvas area in cells: everything but the tab bar, the
// status bar and the detail panel.
func (m Model) canvasSize() (cols, rows int) {
	cols, rows = m.width, m.height-2
	if m.showDetail {
		cols = m.width - int(float64(m.width)*detailRatio) - 1
	}
	return max(cols, 0), max(rows, 0)
}

func (m *Model) openDialog(d *dialog) tea.Cmd {
	m.dialog = d
	return d.form.Init()
}

// updateDialog feeds msg to the open form and acts on its outcome.
func (m *Model) updateDialog(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.finishDialog(true)
		return nil
	}
	f, cmd := m.dialog.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.dialog.form = form
	}
	switch m.dialog.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, m.finishDialog(false))
	case huh.StateAborted:
		return tea.Batch(cmd, m.finishDialog(true))
	}
	return cmd
}

// finishDialog closes the open dialog and applies its answer.
func (m *Model) finishDialog(aborted bool) tea.Cmd {
	d := m.dialog
	m.dialog = nil
	v := d.values

	switch d.kind {
	case formConnection:
		if aborted {
			m.cv.Ctrl.CancelModal()
			return nil
		}
		m.cv.Ctrl.ConfirmConnection(v.connectionChoice())

	case formBulkDelete:
		if aborted || !v.confirm {
			m.cv.Ctrl.CancelModal()
			return nil
		}
		m.cv.Ctrl.ConfirmBulkDelete()

	case formUnsaved:
		if aborted {
			return nil
		}
		switch v.exit {
		case exitSaveAll:
			return m.startExitSaves()
		case exitDiscard:
			m.quitting = true
		}

	case formEdit:
		if !aborted {
			m.st.UpdatePerson(v.personID, v.identityPatch())
		}

	case formCloseTab:
		if !aborted && v.confirm {
			m.closeTab(v.tabID)
		}
	}
	return nil
}

// requestQuit exits, asking first when any tab has unsaved changes.
func (m *Model) requestQuit() tea.Cmd {
	dirty := m.st.DirtyTabs()
	if len(dirty) == 0 {
		m.quitting = true
		return nil
	}
	return m.openDialog(unsavedDialog(m.lang(), len(dirty)))
}

// startExitSaves saves every dirty tab in turn and quits once all are
// written. A cancelled save prompt or a failed save keeps the app open.
func (m *Model) startExitSaves() tea.Cmd {
	m.exiting = true
	m.exitQueue = m.exitQueue[:0]
	for _, t := range m.st.DirtyTabs() {
		m.exitQueue = append(m.exitQueue, t.ID)
	}
	return m.nextExitSave()
}

func (m *Model) nextExitSave() tea.Cmd {
	for len(m.exitQueue) > 0 {
		id := m.exitQueue[0]
		m.exitQueue = m.exitQueue[1:]
		if t, ok := m.tab(id); ok && t.Dirty {
			return m.saveTab(t, false)
		}
	}
	m.exiting = false
	m.quitting = true
	return nil
}

func (m *Model) abortExit() {
	m.exiting = false
	m.exitQueue = nil
}

func (m Model) tab(id string) (store.TabInfo, bool) {
	for _, t := range m.st.Tabs() {
		if t.ID == id {
			return t, true
		}
	}
	return store.TabInfo{}, false
}

// saveTab writes a tab to its path, or asks for one when it has none or
// when saveAs is set.
func (m *Model) saveTab(t store.TabInfo, saveAs bool) tea.Cmd {
	if t.Path == "" || saveAs {
		initial := t.Path
		if initial == "" {
			initial = "~/"
		}
		p := newPathPrompt(promptSave, t.ID, initial, nil, m.lang(), m.theme)
		p.SetWidth(m.width)
		m.prompt = &p
		return nil
	}
	return saveFileCmd(m.watch, t.ID, t.Path, t.Doc)
}

func (m *Model) openPrompt() {
	p := newPathPrompt(promptOpen, "", "", m.candidates, m.lang(), m.theme)
	p.SetWidth(m.width)
	m.prompt = &p
}

func (m *Model) pathChosen(msg pathChosenMsg) tea.Cmd {
	m.prompt = nil
	path := absPath(msg.Path)
	if msg.Mode == promptOpen {
		return openFileCmd(path)
	}
	t, ok := m.tab(msg.TabID)
	if !ok {
		if m.exiting {
			return m.nextExitSave()
		}
		return nil
	}
	return saveFileCmd(m.watch, t.ID, path, t.Doc)
}

func (m *Model) fileOpened(msg fileOpenedMsg) tea.Cmd {
	if msg.Err != nil {
		m.log.Warn("open failed", zap.String("path", msg.Path), zap.Error(msg.Err))
		if errors.Is(msg.Err, loader.ErrInvalidFile) {
			return m.notify(canvas.NoticeError, "invalidFile", nil)
		}
		return m.notify(canvas.NoticeError, "openFailed", map[string]string{"err": msg.Err.Error()})
	}
	m.st.OpenIntoTab(msg.Raw, msg.Path)
	m.watchPath(msg.Path)
	return touchRecentCmd(m.db, msg.Path)
}

func (m *Model) fileSaved(msg fileSavedMsg) tea.Cmd {
	if msg.Err != nil {
		m.log.Warn("save failed", zap.String("path", msg.Path), zap.Error(msg.Err))
		if m.exiting {
			m.abortExit()
		}
		return m.notify(canvas.NoticeError, "saveFailed", map[string]string{"err": msg.Err.Error()})
	}
	if old, ok := m.tab(msg.TabID); ok && old.Path != "" && old.Path != msg.Path && m.watch != nil {
		m.watch.Unwatch(old.Path)
	}
	m.st.MarkSaved(msg.TabID, msg.Path, msg.Doc)
	m.watchPath(msg.Path)
	if m.watch != nil {
		m.watch.Expect(msg.Path, msg.Data)
	}
	cmds := []tea.Cmd{
		touchRecentCmd(m.db, msg.Path),
		m.notify(canvas.NoticeInfo, "saved", map[string]string{"path": filepath.Base(msg.Path)}),
	}
	if m.exiting {
		cmds = append(cmds, m.nextExitSave())
	}
	return tea.Batch(cmds...)
}

// fileChanged reloads a tab whose file was changed by another program,
// unless the tab has edits of its own.
func (m *Model) fileChanged(msg fileChangedMsg) tea.Cmd {
	for _, t := range m.st.Tabs() {
		if t.Path != msg.Path {
			continue
		}
		name := filepath.Base(t.Path)
		if t.Dirty {
			return m.notify(canvas.NoticeWarning, "modifiedOnDisk", map[string]string{"path": name})
		}
		return tea.Batch(reloadFileCmd(t.ID, t.Path),
			m.notify(canvas.NoticeInfo, "reloaded", map[string]string{"path": name}))
	}
	return nil
}

// fileReloaded swaps the new contents into their tab without switching to
// it. A tab edited while the file was being read keeps its edits.
func (m *Model) fileReloaded(msg fileReloadedMsg) tea.Cmd {
	if msg.Err != nil {
		m.log.Warn("reload failed", zap.String("path", msg.Path), zap.Error(msg.Err))
		if errors.Is(msg.Err, loader.ErrInvalidFile) {
			return m.notify(canvas.NoticeError, "invalidFile", nil)
		}
		return m.notify(canvas.NoticeError, "openFailed", map[string]string{"err": msg.Err.Error()})
	}
	if t, ok := m.tab(msg.TabID); ok && t.Dirty {
		return m.notify(canvas.NoticeWarning, "modifiedOnDisk", map[string]string{"path": filepath.Base(msg.Path)})
	}
	m.st.ReloadTab(msg.TabID, msg.Raw)
	return nil
}

func (m *Model) watchPath(path string) {
	if m.watch == nil || path == "" {
		return
	}
	if err := m.watch.Watch(path); err != nil {
		m.log.Warn("watch failed", zap.String("path", path), zap.Error(err))
	}
}

// closeTab closes a tab and stops watching its file.
func (m *Model) closeTab(id string) {
	t, ok := m.tab(id)
	if !ok {
		return
	}
	if t.Path != "" && m.watch != nil {
		m.watch.Unwatch(t.Path)
	}
	m.st.CloseTab(id)
}

// saveSession persists the open tabs when anything changed since the last
// snapshot.
func (m *Model) saveSession() tea.Cmd {
	if m.db == nil {
		return nil
	}
	rev, _ := m.st.Revision()
	if rev == m.sessionRev {
		return nil
	}
	data, err := m.st.EncodeSnapshot()
	if err != nil {
		m.log.Warn("session encode failed", zap.Error(err))
		return nil
	}
	m.sessionRev = rev
	return saveSessionCmd(m.db, data)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
