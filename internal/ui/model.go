package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nconklindev/xlsx2vcf/internal/converter"
	"github.com/nconklindev/xlsx2vcf/internal/logging"
	"github.com/nconklindev/xlsx2vcf/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	statePicker state = iota
	stateReading
	statePreview
)

const maxColumnWidth = 30

// Options configures a session.
type Options struct {
	StartDir    string
	ShowHidden  bool
	OutputDir   string
	MaxFileSize int64
	ChunkSize   int

	// InitialFile is ingested on startup as if it had been dropped.
	InitialFile string
}

type Model struct {
	opts         Options
	state        state
	filepicker   filepicker.Model
	preview      table.Model
	progress     progress.Model
	zone         DropZone
	selectedFile string
	status       types.Status
	counter      string
	result       *types.Result
	download     *types.Download
	width        int
	height       int
	progressChan chan float64
	resultChan   chan ingestCompleteMsg
}

type fileChosenMsg struct {
	path string
}

type ingestCompleteMsg struct {
	result types.Result
	err    error
}

type downloadSavedMsg struct {
	path string
	err  error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(opts Options) Model {
	fp := filepicker.New()
	// Any file may be chosen; the decoder decides whether it can be read
	fp.AllowedTypes = nil
	fp.ShowHidden = opts.ShowHidden
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory = "."
	}

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(accentDim)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(accentDim)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	prog := progress.New(progress.WithGradient("#4361EE", "#7B8CDE"))

	return Model{
		opts:       opts,
		state:      statePicker,
		filepicker: fp,
		progress:   prog,
		status:     types.Info(converter.MsgReady),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.filepicker.Init()}
	if m.opts.InitialFile != "" {
		path := m.opts.InitialFile
		cmds = append(cmds, func() tea.Msg { return fileChosenMsg{path: path} })
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		height := msg.Height - 16
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)
		if m.state == statePreview {
			m.preview.SetHeight(height)
		}
		m.progress.Width = min(msg.Width-8, 60)

		return m, nil

	case tea.FocusMsg:
		if m.state == statePicker {
			m.zone, m.status = m.zone.Handle(DragEnter)
		}
		return m, nil

	case tea.BlurMsg:
		if m.state == statePicker {
			m.zone, m.status = m.zone.Handle(DragLeave)
		}
		return m, nil

	case tea.KeyMsg:
		// A drop arrives as a bracketed paste of the file path(s)
		if msg.Paste {
			if m.state == stateReading {
				return m, nil
			}
			m.zone, m.status = m.zone.Handle(Drop)
			if path, ok := FirstDroppedPath(string(msg.Runes)); ok {
				return m.startRead(path)
			}
			return m, nil
		}

		switch m.state {
		case statePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateReading:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil

		case statePreview:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "d":
				if m.download != nil {
					return m, m.saveDownload()
				}
				return m, nil
			case "o", "esc":
				m.state = statePicker
				return m, nil
			}
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}

	case fileChosenMsg:
		if m.state == stateReading {
			return m, nil
		}
		return m.startRead(msg.path)

	case ingestCompleteMsg:
		return m.applyResult(msg), nil

	case downloadSavedMsg:
		if msg.err != nil {
			m.status = types.Error(fmt.Sprintf("Error saving %s", converter.DownloadFilename))
			return m, nil
		}
		m.status = types.Success(fmt.Sprintf("Saved %s to %s", converter.DownloadFilename, msg.path))
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateReading {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == statePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m.startRead(path)
		}

		return m, cmd
	}

	return m, nil
}

// startRead discards everything derived from the previous file and begins
// reading path in the background.
func (m Model) startRead(path string) (Model, tea.Cmd) {
	m.state = stateReading
	m.selectedFile = path
	m.status = converter.ProcessingStatus(filepath.Base(path))
	m.result = nil
	m.download = nil
	m.preview = table.Model{}
	m.zone = DropZone{}

	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan ingestCompleteMsg, 1)

	// Capture channels for the goroutine
	progressChan := m.progressChan
	resultChan := m.resultChan
	opts := m.opts

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				resultChan <- readAndIngest(path, opts, progressChan)
				close(progressChan)
				close(resultChan)
			}()
			return waitForProgressMsg{}
		},
		m.progress.SetPercent(0),
	)

	return m, cmd
}

func readAndIngest(path string, opts Options, progressChan chan<- float64) ingestCompleteMsg {
	ctx, _ := logging.WithRun(context.Background())
	logger := logging.WithFields(ctx, "file", path)

	data, err := converter.ReadFile(path, opts.MaxFileSize, opts.ChunkSize, progressChan)
	if err != nil {
		logger.Error("failed to read file", "error", err)
		return ingestCompleteMsg{err: err}
	}
	logger.Debug("file read", "bytes", len(data))

	return ingestCompleteMsg{result: converter.Ingest(ctx, data)}
}

func (m Model) applyResult(msg ingestCompleteMsg) Model {
	m.progressChan = nil
	m.resultChan = nil

	if msg.err != nil {
		m.status = types.Error(converter.MsgReadError)
		m.state = statePicker
		return m
	}

	res := msg.result
	m.result = &res
	m.status = res.Status
	m.download = res.Download
	// A failed run leaves the previous count on screen
	if res.Counter != "" {
		m.counter = res.Counter
	}

	if res.Table == nil {
		m.state = statePicker
		return m
	}

	m.preview = newPreviewTable(res.Table, m.previewHeight())
	m.state = statePreview
	return m
}

func (m Model) previewHeight() int {
	if m.height == 0 {
		return 10
	}
	return max(m.height-16, 5)
}

func (m Model) saveDownload() tea.Cmd {
	d := m.download
	dir := m.opts.OutputDir
	return func() tea.Msg {
		path, err := converter.SaveDownload(dir, d)
		if err != nil {
			logging.FromContext(context.Background()).Error("failed to save download", "error", err, "dir", dir)
		}
		return downloadSavedMsg{path: path, err: err}
	}
}

func waitForProgress(progressChan chan float64, resultChan chan ingestCompleteMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return res
			}
			return nil
		}

		return progressMsg(p)
	}
}

// newPreviewTable lays out every row of t. Columns past the first row's
// width get no label.
func newPreviewTable(t types.Table, height int) table.Model {
	labels := converter.ColumnLabels(t)
	width := t.Width()

	cols := make([]table.Column, width)
	for i := range cols {
		if i < len(labels) {
			cols[i].Title = labels[i]
		}
		cols[i].Width = lipgloss.Width(cols[i].Title)
	}

	rows := make([]table.Row, len(t))
	for i, r := range t {
		cells := make(table.Row, width)
		for j, c := range r {
			cells[j] = converter.PreviewText(c)
			if w := lipgloss.Width(cells[j]); w > cols[j].Width {
				cols[j].Width = w
			}
		}
		rows[i] = cells
	}

	for i := range cols {
		cols[i].Width = min(max(cols[i].Width, 1), maxColumnWidth)
	}

	tbl := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(accent).
		Bold(false)
	tbl.SetStyles(s)

	return tbl
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📇 xlsx2vcf - Spreadsheet to Contacts"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Two columns: name, then phone number"))
	s.WriteString("\n")

	zone := DropZoneStyle
	if m.zone.Active {
		zone = DropZoneActiveStyle
	}
	s.WriteString(zone.Render("Drop a spreadsheet here or pick one below"))
	s.WriteString("\n")

	s.WriteString(StatusStyle(m.status.Kind).Render(m.status.Text))
	s.WriteString("\n")
	if m.counter != "" {
		s.WriteString(CounterStyle.Render(m.counter))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	switch m.state {
	case statePicker:
		s.WriteString(m.filepicker.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("↑/↓: navigate • enter: open • drop a file to upload • q: quit"))

	case stateReading:
		s.WriteString(m.progress.View())

	case statePreview:
		s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
		s.WriteString("\n")
		s.WriteString(m.preview.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render(m.previewHelp()))
	}

	return s.String()
}

func (m Model) previewHelp() string {
	download := DisabledStyle.Render("d: save " + converter.DownloadFilename)
	if m.download != nil {
		download = "d: save " + converter.DownloadFilename
	}
	return strings.Join([]string{"↑/↓: scroll", download, "o: open another file", "q: quit"}, " • ")
}
