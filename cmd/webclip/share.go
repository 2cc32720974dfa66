package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/webclip"
	"github.com/fwojciec/webclip/pipeline"
)

// Run executes the share command.
func (c *ShareCmd) Run(deps *Dependencies) error {
	p := &pipeline.Pipeline{
		Collections: deps.Collections,
		Fetcher:     deps.Fetcher,
		Generator:   deps.Generator,
		Extractor:   deps.Extractor,
		Converter:   deps.Converter,
		Logger:      deps.Logger,
		SourceURL:   c.URL,
	}
	defer p.Close()

	// Interrupts tear the pipeline down, cancelling the work in flight.
	stop := context.AfterFunc(deps.Ctx, func() { _ = p.Close() })
	defer stop()

	if err := p.Start(); err != nil {
		return c.fail(deps, err)
	}
	if _, err := settle(deps.Ctx, p); err != nil {
		return c.fail(deps, err)
	}

	fmt.Fprintf(deps.Stderr, "Analyzing %s...\n", c.URL)
	if err := p.Select(c.Collection, c.Guidance); err != nil {
		return c.fail(deps, err)
	}
	snap, err := settle(deps.Ctx, p)
	if err != nil {
		return c.fail(deps, err)
	}

	for _, raw := range c.Set {
		key, v, err := parseSet(snap.Schema, raw)
		if err != nil {
			return c.fail(deps, err)
		}
		if err := p.SetField(key, v); err != nil {
			return c.fail(deps, err)
		}
	}

	out, err := json.MarshalIndent(p.Snapshot().Draft, "", "  ")
	if err != nil {
		return c.fail(deps, err)
	}
	fmt.Fprintln(deps.Stdout, string(out))

	if c.DryRun {
		return nil
	}

	if err := p.Save(); err != nil {
		return c.fail(deps, err)
	}
	snap, err = settle(deps.Ctx, p)
	if err != nil {
		if snap.ItemID != "" {
			fmt.Fprintf(deps.Stderr, "item %s was created without its source link\n", snap.ItemID)
		}
		return c.fail(deps, err)
	}

	fmt.Fprintf(deps.Stdout, "Saved item %s\n", snap.ItemID)
	return nil
}

// fail reports err unless it is a cancellation.
func (c *ShareCmd) fail(deps *Dependencies, err error) error {
	if webclip.IsCanceled(err) {
		return err
	}
	msg := webclip.ErrorMessage(err)
	var pe *pipelineError
	if errors.As(err, &pe) {
		msg = pe.message
	}
	fmt.Fprintf(deps.Stderr, "error: %s\n", msg)
	return err
}

// pipelineError carries a failure recorded by the pipeline along with its
// user-facing message.
type pipelineError struct {
	err     error
	message string
}

func (e *pipelineError) Error() string { return e.message }

func (e *pipelineError) Unwrap() error { return e.err }

// settle waits for the pipeline to finish its work and returns the
// resulting snapshot, or the failure it recorded.
func settle(ctx context.Context, p *pipeline.Pipeline) (pipeline.Snapshot, error) {
	if err := p.Wait(ctx); err != nil {
		return p.Snapshot(), err
	}
	if err := ctx.Err(); err != nil {
		return p.Snapshot(), err
	}
	snap := p.Snapshot()
	if err := p.Err(); err != nil {
		return snap, &pipelineError{err: err, message: snap.Err}
	}
	return snap, nil
}

// parseSet parses a key=value override against the schema. An empty value
// clears the field.
func parseSet(schema *webclip.Schema, raw string) (string, webclip.Value, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", webclip.Absent, webclip.Errorf(webclip.EINVALID, "invalid --set %q, expected key=value", raw)
	}
	if value == "" {
		return key, webclip.Absent, nil
	}
	if key == schema.ContentKey {
		return key, webclip.String(value), nil
	}

	prop, ok := schema.Property(key)
	if !ok {
		return "", webclip.Absent, webclip.Errorf(webclip.EINVALID, "unknown field %q", key)
	}
	switch prop.Type {
	case webclip.PropertyMultiSelect:
		var values []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				values = append(values, s)
			}
		}
		return key, webclip.Strings(values), nil
	case webclip.PropertyNumber:
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return key, webclip.Number(f), nil
		}
	}
	return key, webclip.String(value), nil
}
