package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/state"
)

// palette binds the styles to one writer, so colors are dropped when the
// writer is not a terminal.
type palette struct {
	folder lipgloss.Style
	link   lipgloss.Style
	muted  lipgloss.Style
	header lipgloss.Style
	info   lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		folder: r.NewStyle().Foreground(lipgloss.Color("#5f9fb0")).Bold(true),
		link:   r.NewStyle(),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#6c757d")),
		header: r.NewStyle().Bold(true).Underline(true),
		info:   r.NewStyle().Foreground(lipgloss.Color("#5f9fb0")).Bold(true),
		warn:   r.NewStyle().Foreground(lipgloss.Color("#f39c12")).Bold(true),
		err:    r.NewStyle().Foreground(lipgloss.Color("#d16d7a")).Bold(true),
	}
}

func renderTree(w io.Writer, tree []model.Bookmark) {
	p := newPalette(w)
	if len(tree) == 0 {
		fmt.Fprintln(w, p.muted.Render("(no bookmarks)"))
		return
	}
	renderNodes(w, p, tree, "")
}

func renderNodes(w io.Writer, p palette, nodes []model.Bookmark, indent string) {
	for i, n := range nodes {
		branch, next := "├── ", "│   "
		if i == len(nodes)-1 {
			branch, next = "└── ", "    "
		}

		var line string
		if n.IsFolder() {
			line = p.folder.Render(n.Title+"/") + " " + p.muted.Render(fmt.Sprintf("[%s] %d items", n.ID, len(n.Children)))
		} else {
			line = p.link.Render(n.Title) + "  " + p.muted.Render(n.URL) + " " + p.muted.Render("["+n.ID+"]")
		}
		fmt.Fprintln(w, p.muted.Render(indent+branch)+line)

		if n.IsFolder() {
			renderNodes(w, p, n.Children, indent+next)
		}
	}
}

func renderWidgets(w io.Writer, widgets []model.Widget) {
	p := newPalette(w)
	if len(widgets) == 0 {
		fmt.Fprintln(w, p.muted.Render("(no widgets)"))
		return
	}

	rows := [][]string{{"ID", "TYPE", "X", "Y", "W", "H", "CONFIG"}}
	for _, wd := range widgets {
		rows = append(rows, []string{
			wd.ID,
			string(wd.Type),
			strconv.Itoa(wd.Position.X),
			strconv.Itoa(wd.Position.Y),
			strconv.Itoa(wd.Size.W),
			strconv.Itoa(wd.Size.H),
			string(wd.Normalized().Config),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := p.link
			if r == 0 {
				style = p.header
			}
			// The last column is left ragged.
			if i < len(row)-1 {
				cell += strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			}
			cells[i] = style.Render(cell)
		}
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}
}

var settingKeys = []string{
	"backgroundImage", "backgroundBlur", "backgroundOpacity", "backgroundSize",
	"backgroundRepeat", "themeColor", "customFavicon", "customTitle", "language",
}

func settingValue(s model.Settings, key string) string {
	switch key {
	case "backgroundImage":
		return s.BackgroundImage
	case "backgroundBlur":
		return strconv.FormatFloat(s.BackgroundBlur, 'f', -1, 64)
	case "backgroundOpacity":
		return strconv.FormatFloat(s.BackgroundOpacity, 'f', -1, 64)
	case "backgroundSize":
		return s.BackgroundSize
	case "backgroundRepeat":
		return s.BackgroundRepeat
	case "themeColor":
		return s.ThemeColor
	case "customFavicon":
		return s.CustomFavicon
	case "customTitle":
		return s.CustomTitle
	case "language":
		return s.Language
	}
	return ""
}

func renderSettings(w io.Writer, s model.Settings) {
	p := newPalette(w)
	width := 0
	for _, k := range settingKeys {
		width = max(width, len(k))
	}
	for _, k := range settingKeys {
		v := settingValue(s, k)
		if v == "" {
			v = p.muted.Render("(unset)")
		}
		fmt.Fprintf(w, "%s  %s\n", p.header.UnsetUnderline().Render(k+strings.Repeat(" ", width-len(k))), v)
	}
}

// noticeSink prints store notices to the terminal and remembers the worst
// level it saw, so a command can fail after a rolled back change.
type noticeSink struct {
	mu    sync.Mutex
	w     io.Writer
	p     palette
	worst state.Level
}

var _ state.Notifier = (*noticeSink)(nil)

func newNoticeSink(w io.Writer) *noticeSink {
	return &noticeSink{w: w, p: newPalette(w)}
}

func (n *noticeSink) Notify(level state.Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	style := n.p.info
	switch level {
	case state.LevelWarn:
		style = n.p.warn
	case state.LevelError:
		style = n.p.err
	}
	fmt.Fprintf(n.w, "%s %s\n", style.Render(strings.ToUpper(level.String())), message)

	n.worst = max(n.worst, level)
}

// failed reports whether an error-level notice was printed.
func (n *noticeSink) failed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.worst >= state.LevelError
}
