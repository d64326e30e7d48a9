package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"nickandperla.net/wmlrt/internal/config"
	"nickandperla.net/wmlrt/internal/logs"
	"nickandperla.net/wmlrt/pkg/wmlrt"
)

const testDeck = `<html><body>
<div class="wml_card" id="start" title="Start">
  <p>Hello $(name)</p>
  <input class="wml_input" id="n" name="name" data-wml_format="*a">
  <form class="wml_anchor_task" data-wml_task_type="wml_task_go" data-wml_href="#second">Next</form>
  <form class="wml_anchor_task" data-wml_task_type="wml_task_go" data-wml_href="http://example.com/f?x=$(name)" method="post">
    Send
    <input type="hidden" class="wml_postfield" name="who" value="$name">
  </form>
</div>
<div class="wml_card" id="second">
  <p>Second card for $name</p>
  <select class="wml_select" name="pick" data-wml_iname="pi">
    <option value="a">Alpha</option>
    <option value="b" data-wml_onpick="#start">Beta</option>
  </select>
  <form class="wml_anchor_task" data-wml_task_type="wml_task_prev">Back</form>
  <form class="wml_anchor_task" data-wml_task_type="wml_task_refresh">
    Rename
    <span class="wml_setvar" data-wml_name="name" data-wml_value="zed"></span>
  </form>
</div>
</body></html>`

// syncBuffer is a strings.Builder safe for the loop and test goroutines.
type syncBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

func newTestPlayer(t *testing.T, opts ...wmlrt.Option) (*player, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	p := newPlayer(out)
	opts = append([]wmlrt.Option{
		wmlrt.WithHost(p),
		wmlrt.WithSurface(p),
		wmlrt.WithDiagnostics(p.diagnostic),
	}, opts...)
	r, err := wmlrt.NewFromHTML(strings.NewReader(testDeck), opts...)
	if err != nil {
		t.Fatalf("NewFromHTML failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	p.attach(r)
	return p, out
}

func TestPlayerSession(t *testing.T) {
	p, out := newTestPlayer(t)
	if err := p.start(""); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	commands := []string{
		"input n ann",
		"input name Ann2",
		"2",
		"click 1",
		"select pick 2",
		"goto second",
		"back",
		"vars",
		"frobnicate",
	}
	for _, cmd := range commands {
		if !p.exec(cmd) {
			t.Fatalf("%q stopped the player", cmd)
		}
	}
	if p.exec("quit") {
		t.Errorf("quit did not stop the player")
	}

	text := out.String()
	for _, want := range []string{
		"== Start ==",
		"Hello",
		"[1] Next",
		`rejected, n keeps "ann"`,
		"-> POST http://example.com/f",
		"   who=ann",
		"   x=ann",
		"Second card for ann",
		"<wml_select_0> pick:",
		`name="ann"`,
		`pick="b"`,
		`unknown command "frobnicate"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if p.r.Active().ID != "start" {
		t.Errorf("expected start card after back, got %s", p.r.Active().ID)
	}
}

func TestPlayerPrevWithoutHistory(t *testing.T) {
	p, out := newTestPlayer(t)
	if err := p.start("#second"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	p.exec("click 1")
	if !strings.Contains(out.String(), "(no history)") {
		t.Errorf("expected no history notice:\n%s", out.String())
	}
}

func TestRunConsoleFromScript(t *testing.T) {
	p, out := newTestPlayer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p.r.Post(func() {
		if err := p.start(""); err != nil {
			t.Errorf("start failed: %v", err)
		}
	})
	go runConsole(p, basicReader(strings.NewReader("click 1\nvars\nquit\nclick 1\n")))

	if err := p.r.Run(ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if !strings.Contains(out.String(), "Second card for") {
		t.Errorf("script did not navigate:\n%s", out.String())
	}
	if p.r.Active().ID != "second" {
		t.Errorf("commands after quit must not run, active %s", p.r.Active().ID)
	}
}

func TestPlayerHistoryOnlyRecordsTransitions(t *testing.T) {
	p, _ := newTestPlayer(t)
	if err := p.start(""); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	for _, cmd := range []string{"goto second", "goto nope", "goto second"} {
		p.exec(cmd)
	}
	if len(p.history) != 2 {
		t.Fatalf("expected history [#start #second], got %v", p.history)
	}
	p.exec("back")
	if p.r.Active().ID != "start" {
		t.Errorf("back did not return to start, active %s", p.r.Active().ID)
	}
	if len(p.history) != 1 {
		t.Errorf("unexpected history after back: %v", p.history)
	}
}

func TestPlayerRendersAfterRefresh(t *testing.T) {
	p, out := newTestPlayer(t)
	if err := p.start("#second"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	mark := len(out.String())
	p.exec("click 2")
	if after := out.String()[mark:]; !strings.Contains(after, "Second card for zed") {
		t.Errorf("refresh did not redraw the card:\n%s", after)
	}

	mark = len(out.String())
	p.exec("select pick 1")
	if after := out.String()[mark:]; !strings.Contains(after, "*1.Alpha") {
		t.Errorf("select did not redraw the card:\n%s", after)
	}
}

func TestDiagnosticsPrintedOnce(t *testing.T) {
	var log bytes.Buffer
	logger := logs.New(&log, logs.ParseLevel(config.Default().LogLevel))
	p, out := newTestPlayer(t, wmlrt.WithLogger(logger))
	if err := p.start(""); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	p.exec("goto nope")

	if n := strings.Count(out.String(), "unknown navigation target"); n != 1 {
		t.Errorf("expected one diagnostic line, got %d:\n%s", n, out.String())
	}
	if strings.Contains(log.String(), "nope") {
		t.Errorf("diagnostic also logged at the default level: %s", log.String())
	}
}
