package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/Iron-Ham/shortcuts/internal/logging"
	"github.com/Iron-Ham/shortcuts/internal/store"
	"github.com/Iron-Ham/shortcuts/internal/util"
)

// scrollable is implemented by widgets that hand wheel events to the
// enclosing scroll container instead of swallowing them.
type scrollable interface {
	setScroller(s *container.Scroll)
}

// attachScroller walks the subtree under obj once and points every
// scrollable widget at s. It returns how many widgets were attached.
func attachScroller(obj fyne.CanvasObject, s *container.Scroll) int {
	attached := 0
	var walk func(o fyne.CanvasObject)
	walk = func(o fyne.CanvasObject) {
		if o == nil {
			return
		}
		if sc, ok := o.(scrollable); ok {
			sc.setScroller(s)
			attached++
		}
		switch t := o.(type) {
		case *fyne.Container:
			for _, child := range t.Objects {
				walk(child)
			}
		case *entryCard:
			walk(t.body)
		}
	}
	walk(obj)
	return attached
}

// cardLine is one rendered line of an entry card.
type cardLine struct {
	Label string
	Text  string
}

// cardLines lays out an entry's fields, each value wrapped at width columns.
func cardLines(e store.Entry, width int) []cardLine {
	var out []cardLine
	for _, f := range e.DisplayFields() {
		label := f.Label
		if label != "" {
			label += ":"
		}
		out = append(out, cardLine{Label: label, Text: util.Wrap(f.Value, width)})
	}
	if len(out) == 0 {
		out = append(out, cardLine{Text: "(empty entry)"})
	}
	return out
}

// entryCard shows one shortcut entry.
type entryCard struct {
	widget.BaseWidget

	entry  store.Entry
	body   *fyne.Container
	scroll *container.Scroll
}

func newEntryCard(e store.Entry, wrapWidth int, logger *logging.Logger) *entryCard {
	logger.Debug("constructing entry card", "command", e.Command(), "keys", e.Keys())

	rows := container.NewVBox()
	for _, line := range cardLines(e, wrapWidth) {
		text := widget.NewLabel(line.Text)
		text.Wrapping = fyne.TextWrapWord
		if line.Label == "" {
			rows.Add(text)
			continue
		}
		label := widget.NewLabelWithStyle(line.Label, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		rows.Add(container.NewBorder(nil, nil, label, nil, text))
	}

	c := &entryCard{entry: e, body: container.NewVBox(rows, widget.NewSeparator())}
	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget.
func (c *entryCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.body)
}

// Scrolled implements fyne.Scrollable by forwarding to the scroll container.
func (c *entryCard) Scrolled(ev *fyne.ScrollEvent) {
	if c.scroll != nil {
		c.scroll.Scrolled(ev)
	}
}

func (c *entryCard) setScroller(s *container.Scroll) { c.scroll = s }

// scalarNote shows a category whose value is not a list.
type scalarNote struct {
	widget.BaseWidget

	label  *widget.Label
	scroll *container.Scroll
}

func newScalarNote(text string, wrapWidth int, logger *logging.Logger) *scalarNote {
	logger.Debug("constructing scalar note")

	label := widget.NewLabelWithStyle(util.Wrap(text, wrapWidth), fyne.TextAlignLeading, fyne.TextStyle{Italic: true})
	label.Wrapping = fyne.TextWrapWord
	n := &scalarNote{label: label}
	n.ExtendBaseWidget(n)
	return n
}

// CreateRenderer implements fyne.Widget.
func (n *scalarNote) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(n.label)
}

// Scrolled implements fyne.Scrollable by forwarding to the scroll container.
func (n *scalarNote) Scrolled(ev *fyne.ScrollEvent) {
	if n.scroll != nil {
		n.scroll.Scrolled(ev)
	}
}

func (n *scalarNote) setScroller(s *container.Scroll) { n.scroll = s }
