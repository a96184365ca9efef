// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/invowk/argtree/internal/form"
	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/hierarchy"
)

type (
	// Result describes a completed collection cycle.
	Result struct {
		// RunID identifies the cycle in log output.
		RunID string
		// Mode is the strategy that collected the values.
		Mode command.RunMode
		// Command is the chosen command.
		Command *command.Command
		// Namespace holds the values from the root down to Command.
		Namespace command.Namespace
	}

	// dispatcher holds the state of one Process call.
	dispatcher struct {
		opts   options
		root   *command.Command
		h      *hierarchy.Hierarchy
		values command.Namespace
		logger *log.Logger
	}
)

// Process collects values for the tree rooted at root and runs its
// callbacks. Arguments keep their final values after Process returns.
//
// Value errors abort in command-line and programmatic mode. The form shows
// them as warnings and asks again. Dependency and group violations are
// checked after collection and always abort.
func Process(ctx context.Context, root *command.Command, opts ...Option) (*Result, error) {
	d := &dispatcher{root: root}
	for _, opt := range opts {
		opt(&d.opts)
	}
	if err := errors.Join(d.opts.errs...); err != nil {
		return nil, err
	}
	values, err := d.opts.merged()
	if err != nil {
		return nil, err
	}
	d.values = values
	if !d.opts.tokensSet {
		d.opts.tokens = os.Args[1:]
	}

	runID := uuid.New().String()
	d.logger = d.opts.logger
	if d.logger == nil {
		d.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: root.Name(), Level: log.WarnLevel})
	}
	d.logger = d.logger.With("run", runID)

	requested := d.opts.requestedMode(root)
	if ok, errs := requested.IsValid(); !ok {
		return nil, errs[0]
	}
	if err := root.PreValidate(); err != nil {
		return nil, err
	}
	root.Reset()
	d.h = hierarchy.Build(root)

	mode := Resolve(requested, d.values, d.opts.tokens, d.opts.embedded)
	d.logger.Debug("collecting values", "requested", requested, "mode", mode)

	var chosen hierarchy.NodeID
	switch mode {
	case command.RunModeCommandLine:
		chosen, err = d.fromCommandLine(ctx)
	case command.RunModeGUI:
		chosen, err = d.fromForm(ctx)
	default:
		chosen, err = d.fromValues()
	}
	if err != nil {
		return nil, err
	}

	ns := d.h.Assemble(chosen)
	d.save(chosen, ns)

	if err := d.h.ValidateDependencies(chosen); err != nil {
		return nil, err
	}
	if err := d.h.PostValidate(chosen); err != nil {
		return nil, err
	}
	if err := d.runCallbacks(ctx, chosen, ns); err != nil {
		return nil, err
	}

	return &Result{
		RunID:     runID,
		Mode:      mode,
		Command:   d.h.Command(chosen),
		Namespace: ns,
	}, nil
}

func (d *dispatcher) fromCommandLine(ctx context.Context) (hierarchy.NodeID, error) {
	var cliOpts []hierarchy.CLIOption
	if d.opts.out != nil {
		cliOpts = append(cliOpts, hierarchy.WithOutput(d.opts.out))
	}
	if d.opts.errOut != nil {
		cliOpts = append(cliOpts, hierarchy.WithErrorOutput(d.opts.errOut))
	}
	return d.h.ParseArgs(ctx, d.opts.tokens, cliOpts...)
}

func (d *dispatcher) fromValues() (hierarchy.NodeID, error) {
	id, err := d.targetNode()
	if err != nil {
		return hierarchy.NoNode, err
	}
	if id == hierarchy.NoNode {
		if id, err = d.h.ChooseNode(d.values, true); err != nil {
			return hierarchy.NoNode, err
		}
	}
	if err := d.h.Populate(id, d.values); err != nil {
		return hierarchy.NoNode, err
	}
	d.h.Select(id)
	if err := d.h.CheckRequired(id); err != nil {
		return hierarchy.NoNode, err
	}
	return id, nil
}

// fromForm shows the form after replaying stored snapshots and the supplied
// values into its widgets.
func (d *dispatcher) fromForm(ctx context.Context) (hierarchy.NodeID, error) {
	renderer := d.opts.renderer
	if renderer == nil {
		renderer = form.New()
	}
	f := d.h.NewForm(renderer, hierarchy.WithWarningHook(func(warnings []string) {
		for _, w := range warnings {
			d.logger.Warn(w)
		}
	}))

	if d.opts.store != nil {
		for i := range d.h.Len() {
			id := hierarchy.NodeID(i)
			if ns := d.load(id); ns != nil {
				f.ApplyNamespace(id, ns)
			}
		}
	}

	if len(d.values) > 0 {
		id, err := d.h.ChooseNode(d.values, false)
		if err != nil {
			return hierarchy.NoNode, err
		}
		f.ApplyNamespace(id, d.values)
		f.SelectPath(id)
	}
	target, err := d.targetNode()
	if err != nil {
		return hierarchy.NoNode, err
	}
	if target != hierarchy.NoNode {
		f.SelectPath(target)
	}

	return f.Run(ctx)
}

// targetNode returns the node of WithTarget, or NoNode when none was given.
func (d *dispatcher) targetNode() (hierarchy.NodeID, error) {
	if d.opts.target == nil {
		return hierarchy.NoNode, nil
	}
	id, ok := d.h.Lookup(d.opts.target)
	if !ok {
		return hierarchy.NoNode, fmt.Errorf("target %q is not part of the %q tree", d.opts.target.PathString(), d.root.Name())
	}
	return id, nil
}

// load returns the stored snapshot of a node. Failures are logged and
// treated as no snapshot.
func (d *dispatcher) load(id hierarchy.NodeID) command.Namespace {
	path := d.h.Path(id)
	ns, err := d.opts.store.Load(path)
	if err != nil {
		d.logger.Warn("ignoring stored values", "command", d.h.PathString(id), "err", err)
		return nil
	}
	return ns
}

// save stores ns as the latest snapshot of the chosen node. Failures are
// logged and do not fail the run.
func (d *dispatcher) save(id hierarchy.NodeID, ns command.Namespace) {
	if d.opts.store == nil {
		return
	}
	if err := d.opts.store.Save(d.h.Path(id), ns); err != nil {
		d.logger.Warn("could not store values", "command", d.h.PathString(id), "err", err)
		return
	}
	d.logger.Debug("stored values", "command", d.h.PathString(id))
}

// runCallbacks runs the callbacks on the path from the root to id, root
// first, each with the whole namespace.
func (d *dispatcher) runCallbacks(ctx context.Context, id hierarchy.NodeID, ns command.Namespace) error {
	for _, n := range d.h.Lineage(id) {
		cmd := d.h.Command(n)
		cb := cmd.Callback()
		if cb == nil {
			continue
		}
		d.logger.Debug("running callback", "command", cmd.PathString())
		if err := cb(ctx, cmd, ns); err != nil {
			return fmt.Errorf("%s: %w", cmd.PathString(), err)
		}
	}
	return nil
}
