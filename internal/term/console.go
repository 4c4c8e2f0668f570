package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
	"github.com/muesli/termenv"
)

var ErrUnknownCommand = errors.New("unknown command")

const helpText = `Commands:
  <0-8> | play <0-8>   place the next mark on a cell
  jump <step> | j      make a history step current
  order | o            toggle move list order
  help | ?             show this help
  quit | q             leave the game
`

// Console is a line-oriented terminal view over one game.
type Console struct {
	game   *domain.Game
	in     io.Reader
	out    *termenv.Output
	render *Renderer
	logger *slog.Logger
}

// NewConsole creates a console for a fresh game. Options are passed to
// termenv; use termenv.WithProfile(termenv.Ascii) for plain output.
func NewConsole(in io.Reader, out io.Writer, logger *slog.Logger, opts ...termenv.OutputOption) *Console {
	output := termenv.NewOutput(out, opts...)
	return &Console{
		game:   domain.New(),
		in:     in,
		out:    output,
		render: NewRenderer(output),
		logger: logger.With("component", "term"),
	}
}

// Game exposes the game driven by the console.
func (c *Console) Game() *domain.Game { return c.game }

// Run reads commands until quit, end of input, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	c.print(c.render.Snapshot(c.game.Snapshot()))
	c.prompt()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}
			quit, err := c.Exec(line)
			if err != nil {
				c.print(c.out.String("error: " + err.Error()).Foreground(c.out.Color(colorX)).String() + "\n")
			}
			if quit {
				c.print("bye\n")
				return nil
			}
			c.prompt()
		}
	}
}

// Exec runs a single command line. It reports whether the user asked to quit.
func (c *Console) Exec(line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false, nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "q", "quit", "exit":
		return true, nil
	case "?", "h", "help":
		c.print(helpText)
		return false, nil
	case "o", "order":
		c.game.ToggleOrder()
	case "j", "jump":
		step, err := intArg(cmd, args)
		if err != nil {
			return false, err
		}
		if err = c.game.JumpTo(step); err != nil {
			return false, err
		}
	case "p", "play":
		cell, err := intArg(cmd, args)
		if err != nil {
			return false, err
		}
		if err = c.play(cell); err != nil {
			return false, err
		}
	default:
		cell, err := strconv.Atoi(cmd)
		if err != nil || len(args) > 0 {
			return false, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
		}
		if err = c.play(cell); err != nil {
			return false, err
		}
	}

	c.print("\n" + c.render.Snapshot(c.game.Snapshot()))
	return false, nil
}

func (c *Console) play(cell int) error {
	accepted, err := c.game.Play(cell)
	if err != nil {
		return err
	}
	if !accepted {
		if c.game.Winner() != domain.Empty {
			c.print("game is over, jump back to play a different line\n")
		} else {
			c.print(fmt.Sprintf("cell %d is taken\n", cell))
		}
		c.logger.Debug("move ignored", "cell", cell, "step", c.game.Step())
		return nil
	}
	c.logger.Debug("move accepted", "cell", cell, "step", c.game.Step())
	return nil
}

func intArg(cmd string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: expected one number", cmd)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", cmd, args[0])
	}
	return n, nil
}

func (c *Console) prompt() {
	c.print("> ")
}

func (c *Console) print(s string) {
	_, _ = io.WriteString(c.out, s)
}
