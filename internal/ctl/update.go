// Package ctl contains the logic behind the updatejoin command.
package ctl

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/alexwohletz/pandas-utils/frame"
	"github.com/alexwohletz/pandas-utils/internal/config"
	"github.com/alexwohletz/pandas-utils/logger"
	"github.com/alexwohletz/pandas-utils/update"
)

// UpdateCommand loads two tables, runs an update and prints or writes the
// result.
type UpdateCommand struct {
	Config *config.Config

	// Logger receives narration and diagnostics. When nil, one is built on
	// Stderr honoring Config.Verbose.
	Logger logger.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewUpdateCommand returns an UpdateCommand with a default Config.
func NewUpdateCommand(stdin io.Reader, stdout, stderr io.Writer) *UpdateCommand {
	return &UpdateCommand{
		Config: config.NewConfig(),
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
}

// Run executes the command.
func (cmd *UpdateCommand) Run(ctx context.Context) error {
	c := cmd.Config
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	opts, err := c.UpdateOptions()
	if err != nil {
		return err
	}

	log := cmd.Logger
	if log == nil {
		if c.Verbose {
			log = logger.NewVerboseLogger(cmd.Stderr)
		} else {
			log = logger.NewStandardLogger(cmd.Stderr)
		}
	}

	left, err := LoadTable(ctx, c.Left, c.LeftQuery)
	if err != nil {
		return errors.Wrap(err, "loading left table")
	}
	right, err := LoadTable(ctx, c.Right, c.RightQuery)
	if err != nil {
		return errors.Wrap(err, "loading right table")
	}
	log.Debugf("left %s: %d rows, right %s: %d rows", c.Left, left.Height(), c.Right, right.Height())

	res, err := update.New(update.WithLogger(log)).UpdateJoin(left, right, opts)
	if err != nil {
		return errors.Wrapf(err, "updating %q from %q", opts.UpdateCol, opts.SourceCol)
	}

	if c.Out != "" {
		if err := WriteTable(res.Frame, c.Out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Stdout, "wrote %d rows to %s\n", res.Frame.Height(), c.Out)
		return nil
	}
	return res.Frame.Render(cmd.Stdout, frame.GetDisplayConfig())
}
