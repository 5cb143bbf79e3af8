// Package console is the interactive menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"hetio-cli/backend/internal/app"
	"hetio-cli/backend/internal/ingest"
	apperrors "hetio-cli/backend/pkg/errors"
	"hetio-cli/backend/pkg/logger"
)

const statsLimit = 5

const menuText = `1. Load database
2. Disease summary
3. Infer treatments
4. Statistics
5. Exit`

// Menu reads choices from in and writes results to out until the user
// exits or in is exhausted
type Menu struct {
	backend app.Backend
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
}

// NewMenu creates a menu over backend
func NewMenu(backend app.Backend, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		backend: backend,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger.Get(),
	}
}

// Run loops over the menu. Failures are printed and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, titleStyle.Render("HetioNet"))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(m.out, "\n"+menuText)
		choice, ok := m.prompt("Choose an option: ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			m.load(ctx)
		case "2":
			m.summary(ctx)
		case "3":
			m.infer(ctx)
		case "4":
			m.stats(ctx)
		case "5", "q", "exit":
			fmt.Fprintln(m.out, "Bye.")
			return nil
		default:
			fmt.Fprintln(m.out, RenderError(fmt.Errorf("unknown option %q", choice)))
		}
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) fail(op string, err error) {
	m.logger.Debug("Menu operation failed", zap.String("operation", op), zap.Error(err))
	fmt.Fprint(m.out, RenderError(err))
}

func (m *Menu) load(ctx context.Context) {
	answer, ok := m.prompt("Clear both stores first? [y/N]: ")
	if !ok {
		return
	}
	report, err := m.backend.Load(ctx, ingest.LoadOptions{Reset: yes(answer)})
	if err != nil {
		m.fail("load", err)
		return
	}
	fmt.Fprint(m.out, RenderLoadReport(report))
}

func (m *Menu) summary(ctx context.Context) {
	id, ok := m.prompt("Disease id (Kind::Namespace:LocalId): ")
	if !ok {
		return
	}
	s, err := m.backend.DiseaseSummary(ctx, id)
	if err != nil {
		m.fail("summary", err)
		return
	}
	fmt.Fprint(m.out, RenderSummary(s))
}

func (m *Menu) infer(ctx context.Context) {
	id, ok := m.prompt("Disease id (Kind::Namespace:LocalId): ")
	if !ok {
		return
	}
	candidates, err := m.backend.InferTreatments(ctx, id)
	if err != nil && isUnknownDisease(err, id) {
		if !m.register(ctx, id) {
			return
		}
		candidates, err = m.backend.InferTreatments(ctx, id)
	}
	if err != nil {
		m.fail("infer", err)
		return
	}
	fmt.Fprint(m.out, RenderCandidates(id, candidates))
}

// register offers to add an unknown disease; it reports whether one was added
func (m *Menu) register(ctx context.Context, id string) bool {
	answer, ok := m.prompt(fmt.Sprintf("%s is not in the database. Register it? [y/N]: ", id))
	if !ok || !yes(answer) {
		return false
	}
	name, ok := m.prompt("Disease name: ")
	if !ok {
		return false
	}
	anatomy, ok := m.prompt("Anatomy it localizes in (exact name): ")
	if !ok {
		return false
	}
	node, err := m.backend.RegisterDisease(ctx, id, name, anatomy)
	if err != nil {
		m.fail("register", err)
		return false
	}
	fmt.Fprintf(m.out, "Registered %s (%s)\n", node.Name, node.ID)
	return true
}

func (m *Menu) stats(ctx context.Context) {
	st, err := m.backend.Stats(ctx, statsLimit)
	if err != nil {
		m.fail("stats", err)
		return
	}
	fmt.Fprint(m.out, RenderStats(st))
}

func isUnknownDisease(err error, id string) bool {
	var nf *apperrors.NotFoundWarning
	return errors.As(err, &nf) && nf.Kind == "disease" && nf.Key == id
}

func yes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
