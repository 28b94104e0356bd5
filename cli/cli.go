// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for running an Antares level from plain text commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chaimleib/antares/engine"
	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/engine/save"
	"github.com/chaimleib/antares/types"
)

// CLI drives a level from line commands.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine. The CLI becomes the
// engine's message and sound collaborator.
func New(eng *engine.Engine) *CLI {
	home, _ := os.UserHomeDir()
	c := &CLI{
		Engine:  eng,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".antares", "results"),
	}
	eng.Ctx.Messages = c
	eng.Ctx.Sound = c
	return c
}

// Start implements action.Messages.
func (c *CLI) Start(first, last int32) {
	if first == last {
		c.printSystem(fmt.Sprintf("message %d", first))
		return
	}
	c.printSystem(fmt.Sprintf("message %d-%d", first, last))
}

// SetStatus implements action.Messages.
func (c *CLI) SetStatus(text string) {
	c.printLine("» " + text)
}

// Play implements action.Sound. Sounds are shown only when tracing.
func (c *CLI) Play(id, volume int32, _ types.Ticks, _ int32, at *object.SpaceObject) {
	if !c.Trace {
		return
	}
	where := "absolute"
	if at != nil {
		where = at.Name
	}
	c.printSystem(fmt.Sprintf("[trace] sound %d volume %d at %s", id, volume, where))
}

// Run starts the level and loops: prompt, input, dispatch, output.
func (c *CLI) Run() {
	lvl := &c.Engine.Scenario.Level
	c.printLine(lvl.Title)
	if lvl.Prologue != "" {
		c.printLine(lvl.Prologue)
	}
	c.printLine("")
	c.Engine.Start()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.handleCommand(input)
	}
}

// handleCommand runs one level command.
func (c *CLI) handleCommand(input string) {
	parts := strings.Fields(strings.ToLower(input))
	switch parts[0] {
	case "tick", "t":
		n := int64(1)
		if len(parts) > 1 {
			v, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil || v <= 0 {
				c.printLine("Tick how many? (tick <n>)")
				return
			}
			n = v
		}
		c.cmdTick(types.Ticks(n))

	case "status", "s":
		c.cmdStatus()

	case "objects", "o":
		c.cmdObjects()

	case "queue", "q":
		c.cmdQueue()

	case "conditions", "c":
		c.cmdConditions()

	default:
		c.printLine(fmt.Sprintf("Unknown command %q. Type /help for available commands.", parts[0]))
	}
}

// handleMeta dispatches meta-commands. Returns true if the run should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdTick(n types.Ticks) {
	e := c.Engine
	if e.Over() {
		c.printLine("The level is over.")
		return
	}
	before := e.Ctx.Queue.Len()
	e.Tick(n)
	if c.Trace {
		c.printSystem(fmt.Sprintf("[trace] t=%d objects=%d queue %d→%d",
			e.Now, e.Ctx.Pool.Len(), before, e.Ctx.Queue.Len()))
	}
	if e.Over() {
		c.printWinner()
	}
}

func (c *CLI) printWinner() {
	r := c.Engine.Result()
	name := "Nobody"
	if r.Winner >= 0 && int(r.Winner) < len(r.Admirals) {
		name = r.Admirals[r.Winner].Name
	}
	c.printLine(fmt.Sprintf("%s wins after %s.", name, formatTicks(r.Elapsed)))
	if r.Text != "" {
		c.printLine(r.Text)
	}
}

func (c *CLI) cmdStatus() {
	r := c.Engine.Result()
	c.printLine(fmt.Sprintf("Time %s", formatTicks(c.Engine.Now)))
	for _, a := range r.Admirals {
		c.printLine(fmt.Sprintf("  %-12s cash %-8s score %v kills %d losses %d",
			a.Name, a.Cash, a.Score, a.Kills, a.Losses))
	}
}

func (c *CLI) cmdObjects() {
	ctx := c.Engine.Ctx
	if ctx.Pool.Len() == 0 {
		c.printLine("No objects.")
		return
	}
	ctx.Pool.Each(func(o *object.SpaceObject) {
		owner := "-"
		if a := ctx.Admirals.Get(o.Owner); a != nil {
			owner = a.Name
		}
		c.printLine(fmt.Sprintf("  #%d %-20s %-12s at (%d, %d) health %d",
			o.Index, o.Name, owner, o.Location.X, o.Location.Y, o.Health))
	})
}

func (c *CLI) cmdQueue() {
	q := &c.Engine.Ctx.Queue
	pending := q.Pending()
	if len(pending) == 0 {
		c.printLine("Queue empty.")
	}
	for _, p := range pending {
		c.printLine(fmt.Sprintf("  in %-6d %-12s %d record(s)", p.Countdown, p.Verb, p.Records))
	}
	if d := q.Dropped(); d > 0 {
		c.printLine(fmt.Sprintf("  %d batch(es) dropped", d))
	}
}

func (c *CLI) cmdConditions() {
	rules := c.Engine.Rules
	conds := c.Engine.Scenario.Level.Conditions
	for i := range conds {
		state := "armed"
		if rules.TrueYet(types.ConditionID(i)) {
			state = "done"
		}
		name := conds[i].Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		c.printLine(fmt.Sprintf("  %-20s %s", name, state))
	}
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "result"
	}

	data, err := save.Save(c.Engine.Result())
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Result saved to %s.", name))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save the current result (default: result)",
		"  /quit         — Exit",
		"  /help         — Show this help",
		"  /state        — Debug: dump engine state",
		"  /trace        — Toggle debug trace output",
		"",
		"Level commands:",
		"  tick [n] (t)      — Advance n ticks (default 1, 60 per second)",
		"  status (s)        — Show admirals",
		"  objects (o)       — List live objects",
		"  queue (q)         — List deferred actions",
		"  conditions (c)    — List conditions",
		"  again (g)         — Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	e := c.Engine
	g := &e.Ctx.Globals
	c.printSystem(fmt.Sprintf("Time: %d", e.Now))
	c.printSystem(fmt.Sprintf("Objects: %d/%d", e.Ctx.Pool.Len(), e.Ctx.Pool.Cap()))
	c.printSystem(fmt.Sprintf("Queue: %d", e.Ctx.Queue.Len()))
	c.printSystem(fmt.Sprintf("Message: %d page %d", g.MessageID, g.MessagePage))
	if g.Status != "" {
		c.printSystem(fmt.Sprintf("Status: %s", g.Status))
	}
}

// formatTicks renders t as seconds.
func formatTicks(t types.Ticks) string {
	return strconv.FormatFloat(float64(t)/types.TicksPerSecond, 'f', -1, 64) + "s"
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
