package server

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/tn-lorenz/SteelMC/internal/command"
)

// consoleSource adapts the process stdout to command.Source so the
// same dispatcher the chat pipeline uses also serves a headless
// console.
type consoleSource struct{}

func (consoleSource) Reply(message string) { fmt.Println(message) }
func (consoleSource) Name() string         { return "console" }

// consoleLoop reads lines from stdin and dispatches each as a command
// until ctx is canceled or stdin closes. It runs as one of Run's
// errgroup tasks; scanning os.Stdin can't be interrupted mid-read, so
// on cancellation the goroutine is simply abandoned at process exit.
func (s *Server) consoleLoop(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			line = strings.TrimSpace(strings.TrimPrefix(line, "/"))
			if line == "" {
				continue
			}
			if err := s.commands.Dispatch(consoleSource{}, line); err != nil {
				s.log.Warn("console command failed", zap.String("line", line), zap.Error(err))
			}
		}
	}
}

// buildCommands registers the server's built-in commands against a
// fresh tree. s.shutdown is closed by "stop", which Run selects on to
// begin the shutdown sequence.
func (s *Server) buildCommands() *command.Tree {
	tree := command.NewTree()

	tree.Register(command.Literal("list").Executes(func(ctx *command.Context) error {
		names := s.loop.PlayerNames()
		ctx.Source.Reply(fmt.Sprintf("There are %d/%d players online: %s",
			len(names), s.cfg.Server.MaxPlayers, strings.Join(names, ", ")))
		return nil
	}))

	tree.Register(command.Literal("stop").Executes(func(ctx *command.Context) error {
		ctx.Source.Reply("Stopping the server")
		s.shutdownOnce.Do(func() { close(s.shutdown) })
		return nil
	}))

	return tree
}
