package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"diagrid/canvas"
	"diagrid/pathfinding"
)

const (
	smallStep = 10
	largeStep = 50
)

// runInteractive shows the session full screen until the user quits.
func runInteractive(s *session) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	v := &view{session: s, screen: screen}
	v.draw()
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			v.draw()
		case *tcell.EventKey:
			if !v.handleKey(ev) {
				return nil
			}
			v.draw()
		}
	}
}

// view holds the interactive state on top of a session.
type view struct {
	session  *session
	screen   tcell.Screen
	selected int
	message  string
}

// handleKey applies one key press. It returns false when the user quits.
func (v *view) handleKey(ev *tcell.EventKey) bool {
	ids := v.session.movable()
	step := float64(smallStep)
	if ev.Modifiers()&tcell.ModShift != 0 {
		step = largeStep
	}

	var dx, dy float64
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		if len(ids) > 0 {
			v.selected = (v.selected + 1) % len(ids)
		}
		return true
	case tcell.KeyLeft:
		dx = -step
	case tcell.KeyRight:
		dx = step
	case tcell.KeyUp:
		dy = -step
	case tcell.KeyDown:
		dy = step
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(ids) > 0 {
			v.deleteSelected(ids[v.selected%len(ids)])
		}
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'u':
			v.report(v.session.doc.Undo())
			v.session.refreshAll()
		case 'r':
			v.report(v.session.doc.Redo())
			v.session.refreshAll()
		case 'c':
			v.session.doc.Commit()
			v.message = "committed"
		case 'x':
			if len(ids) > 0 {
				v.deleteSelected(ids[v.selected%len(ids)])
			}
		}
		return true
	default:
		return true
	}

	if len(ids) == 0 {
		return true
	}
	id := ids[v.selected%len(ids)]
	if err := v.session.move(id, dx, dy); err != nil {
		v.message = err.Error()
	}
	return true
}

func (v *view) deleteSelected(id string) {
	if err := v.session.remove(id); err != nil {
		v.message = err.Error()
		return
	}
	v.message = "deleted " + id
	if v.selected > 0 {
		v.selected--
	}
}

func (v *view) report(ok bool, err error) {
	switch {
	case err != nil:
		v.message = err.Error()
	case !ok:
		v.message = "nothing to do"
	default:
		v.message = ""
	}
}

// draw renders the document and a status line.
func (v *view) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w < 4 || h < 4 {
		v.screen.Show()
		return
	}

	c, err := v.session.render(w, h-1)
	if err != nil {
		v.message = err.Error()
	} else {
		for y := 0; y < h-1; y++ {
			for x := 0; x < w; x++ {
				if r := c.Get(canvas.Cell{X: x, Y: y}); r != ' ' && r != 0 {
					v.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
				}
			}
		}
	}

	status := []rune(v.status())
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(status) {
			r = status[x]
		}
		v.screen.SetContent(x, h-1, r, nil, style)
	}
	v.screen.Show()
}

func (v *view) status() string {
	ids := v.session.movable()
	sel := "-"
	if len(ids) > 0 {
		sel = ids[v.selected%len(ids)]
	}
	col := v.session.collector
	routes := col.RouteCount(pathfinding.OutcomeAvoided)
	fallbacks := col.RouteCount(pathfinding.OutcomeFallbackCap) +
		col.RouteCount(pathfinding.OutcomeFallbackExhausted) +
		col.RouteCount(pathfinding.OutcomeFallbackIndex)
	return fmt.Sprintf(" %s | selected: %s | avoided: %.0f fallbacks: %.0f | %s",
		v.session.name, sel, routes, fallbacks, v.message)
}
