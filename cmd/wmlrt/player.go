package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"

	"nickandperla.net/wmlrt/pkg/wmlrt"
)

// player is the console host and rendering surface of a runtime. All of
// its methods run on the runtime's event loop.
type player struct {
	r       *wmlrt.Runtime
	out     io.Writer
	eol     string
	history []string // locators, most recent last
	texts   map[*wmlrt.Text]string
	quit    func()
	renders int
	dirty   bool // a render is queued on the loop
}

func newPlayer(out io.Writer) *player {
	return &player{
		out:   out,
		eol:   "\n",
		texts: make(map[*wmlrt.Text]string),
		quit:  func() {},
	}
}

func (p *player) attach(r *wmlrt.Runtime) {
	p.r = r
	p.quit = r.Stop
}

func (p *player) printf(format string, args ...any) {
	fmt.Fprintf(p.out, strings.ReplaceAll(format, "\n", p.eol), args...)
}

// start loads the deck at locator and shows the first card.
func (p *player) start(locator string) error {
	if err := p.r.Load(locator); err != nil {
		return err
	}
	p.history = []string{"#" + p.r.Active().ID}
	p.render()
	return nil
}

// RequestCard navigates to a card of the deck.
func (p *player) RequestCard(id string) {
	p.visit("#"+id, p.r.HashChanged)
}

// visit pushes locator onto the history if nav actually moved there.
func (p *player) visit(locator string, nav func(string) wmlrt.Transition) {
	if nav(locator) != wmlrt.Changed {
		return
	}
	p.history = append(p.history, locator)
	p.render()
}

// RequestExternal prints the request instead of fetching it.
func (p *player) RequestExternal(req wmlrt.Request) {
	p.printf("-> %s %s\n", strings.ToUpper(req.Method), req.URL)
	for _, f := range req.Fields {
		p.printf("   %s=%s\n", f.Name, f.Value)
	}
}

// RequestBack pops the history.
func (p *player) RequestBack() {
	if len(p.history) < 2 {
		p.printf("(no history)\n")
		return
	}
	p.history = p.history[:len(p.history)-1]
	p.r.HashChanged(p.history[len(p.history)-1])
	p.render()
}

func (p *player) Show(*wmlrt.Card) {}
func (p *player) Hide(*wmlrt.Card) {}

// SetText records the text and queues a render for changes made outside
// of a navigation, such as a refresh task run by a timer.
func (p *player) SetText(t *wmlrt.Text, text string) {
	text = strings.Join(strings.Fields(text), " ")
	if old, ok := p.texts[t]; ok && old == text {
		return
	}
	p.texts[t] = text
	if p.dirty || p.r == nil {
		return
	}
	p.dirty = true
	p.r.Post(func() {
		if p.dirty {
			p.render()
		}
	})
}

func (p *player) diagnostic(err error) {
	var e *wmlrt.Error
	if errors.As(err, &e) {
		p.printf("! %s: %v %s\n", e.Op, e.Kind, e.Subject)
		return
	}
	p.printf("! %v\n", err)
}

func (p *player) render() {
	c := p.r.Active()
	if c == nil {
		return
	}
	p.dirty = false
	p.renders++
	title := c.Title
	if title == "" {
		title = c.ID
	}
	p.printf("== %s ==\n", title)

	labels := make(map[*wmlrt.Text]int)
	for i, a := range c.Anchors {
		if a.Label != nil {
			labels[a.Label] = i + 1
		}
	}
	for _, t := range c.Texts {
		text := p.texts[t]
		if n, ok := labels[t]; ok {
			p.printf("[%d] %s\n", n, text)
			continue
		}
		if text != "" {
			p.printf("%s\n", text)
		}
	}
	for _, in := range c.Inputs {
		p.printf("<%s> %s=%q", in.ID, in.Name, in.Value)
		if in.Rule != nil {
			p.printf(" format=%s", in.Format)
		}
		p.printf("\n")
	}
	for _, s := range c.Selects {
		p.printf("<%s> %s:", s.ID, s.Name)
		for i, o := range s.Options {
			mark := " "
			if o.Selected {
				mark = "*"
			}
			p.printf(" %s%d.%s", mark, i+1, o.Label)
		}
		p.printf("\n")
	}
	if p.r.TimerPending() {
		p.printf("(timer running)\n")
	}
}

const help = `commands:
  click N            activate link N (or just N)
  input ID VALUE     type VALUE into input ID
  select ID 1;2      select options of ID by position
  back               go back
  goto ID            go to card ID
  vars               list variables
  reset              clear all variables
  quit               leave
`

// exec runs one console command. It reports false when the player should stop.
func (p *player) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	if n, err := strconv.Atoi(cmd); err == nil {
		cmd, args = "click", []string{strconv.Itoa(n)}
	}

	switch cmd {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		p.printf(help)
	case "click":
		p.settle(func() { p.click(args) })
	case "input":
		if len(args) < 1 {
			p.printf("usage: input ID VALUE\n")
			break
		}
		// The value is the rest of the line, spaces included.
		_, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		_, value, _ := strings.Cut(strings.TrimLeft(rest, " \t"), " ")
		p.settle(func() { p.input(args[0], value) })
	case "select":
		if len(args) < 1 {
			p.printf("usage: select ID 1;2\n")
			break
		}
		list := ""
		if len(args) > 1 {
			list = args[1]
		}
		p.settle(func() { p.r.SelectByIndexList(p.selectID(args[0]), list) })
	case "back":
		p.back()
	case "goto":
		if len(args) != 1 {
			p.printf("usage: goto ID\n")
			break
		}
		p.visit("#"+strings.TrimPrefix(args[0], "#"), p.r.HistoryForward)
	case "vars":
		vars := p.r.Vars()
		names := make([]string, 0, len(vars))
		for name := range vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			p.printf("%s=%q\n", name, vars[name])
		}
	case "reset":
		p.r.NewContext()
		p.render()
	case "show":
		p.render()
	default:
		p.printf("unknown command %q (try help)\n", cmd)
	}
	return true
}

// settle runs an action and shows the card afterwards unless the action
// already did.
func (p *player) settle(action func()) {
	before := p.renders
	action()
	if p.renders == before {
		p.render()
	}
}

func (p *player) click(args []string) {
	c := p.r.Active()
	if len(args) != 1 || c == nil {
		p.printf("usage: click N\n")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(c.Anchors) {
		p.printf("no link %s\n", args[0])
		return
	}
	p.r.Activate(c.Anchors[n-1])
}

// input types into the input with the given id or name on the active card.
func (p *player) input(ref, value string) {
	id := ref
	if c := p.r.Active(); c != nil {
		if i := slices.IndexFunc(c.Inputs, func(in *wmlrt.Input) bool { return in.Name == ref && in.ID != ref }); i >= 0 {
			id = c.Inputs[i].ID
		}
	}
	got, ok := p.r.Input(id, value)
	if !ok && got != value {
		p.printf("rejected, %s keeps %q\n", id, got)
	}
}

func (p *player) selectID(ref string) string {
	if c := p.r.Active(); c != nil {
		for _, s := range c.Selects {
			if s.Name == ref && s.ID != ref {
				return s.ID
			}
		}
	}
	return ref
}

// back is the user's back button.
func (p *player) back() {
	if len(p.history) < 2 {
		p.printf("(no history)\n")
		return
	}
	p.history = p.history[:len(p.history)-1]
	p.r.HistoryBack(p.history[len(p.history)-1])
	p.render()
}
