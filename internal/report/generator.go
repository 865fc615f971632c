package report

import (
	"context"
	"fmt"
	"os"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/jon4hz/taskman/internal/flatstore"
	"github.com/jon4hz/taskman/internal/models"
	"github.com/jonboulle/clockwork"
)

// Paths holds the output locations of both documents.
type Paths struct {
	TaskOverview string
	UserOverview string
}

// Generator computes reports and writes them to disk.
type Generator struct {
	paths  Paths
	clock  clockwork.Clock
	opts   Options
	atomic bool
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock sets the clock used to determine today.
func WithClock(c clockwork.Clock) GeneratorOption {
	return func(g *Generator) {
		g.clock = c
	}
}

// WithOptions sets the computation options.
func WithOptions(opts Options) GeneratorOption {
	return func(g *Generator) {
		g.opts = opts
	}
}

// WithAtomicWrites replaces the documents through a temp file and rename.
func WithAtomicWrites(atomic bool) GeneratorOption {
	return func(g *Generator) {
		g.atomic = atomic
	}
}

// NewGenerator creates a Generator writing to paths.
func NewGenerator(paths Paths, opts ...GeneratorOption) *Generator {
	g := &Generator{
		paths:  paths,
		clock:  clockwork.NewRealClock(),
		atomic: true,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Paths returns the output locations.
func (g *Generator) Paths() Paths {
	return g.paths
}

// Generate computes both overviews and rewrites both documents in full.
func (g *Generator) Generate(ctx context.Context, creds *models.Credentials, tasks []*models.Task) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := Compute(creds, tasks, g.clock.Now(), g.opts)

	if err := g.write(g.paths.TaskOverview, RenderTaskOverview(r.Tasks)); err != nil {
		return nil, fmt.Errorf("failed to write task overview: %w", err)
	}
	if err := g.write(g.paths.UserOverview, RenderUserOverview(r.Users)); err != nil {
		return nil, fmt.Errorf("failed to write user overview: %w", err)
	}

	log.Info("generated reports", "tasks", r.Tasks.Total, "users", len(r.Users))
	return &r, nil
}

func (g *Generator) write(path, doc string) error {
	if err := flatstore.WriteFile(path, []byte(doc), g.atomic); err != nil {
		return err
	}
	size, err := safecast.ToUint64(len(doc))
	if err != nil {
		size = 0
	}
	log.Debug("wrote report", "path", path, "size", humanize.Bytes(size))
	return nil
}

// Documents reads both documents back from disk.
func (g *Generator) Documents() (taskOverview, userOverview string, err error) {
	t, err := os.ReadFile(g.paths.TaskOverview)
	if err != nil {
		return "", "", fmt.Errorf("failed to read task overview: %w", err)
	}
	u, err := os.ReadFile(g.paths.UserOverview)
	if err != nil {
		return "", "", fmt.Errorf("failed to read user overview: %w", err)
	}
	return string(t), string(u), nil
}
