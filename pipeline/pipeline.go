// Package pipeline orchestrates one share operation: listing collections,
// analyzing a page into a draft item, editing it and committing it to the
// collection store. At most one unit of work is in flight; starting a new
// one cancels its predecessor, whose result is then discarded.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/fwojciec/webclip"
	"github.com/fwojciec/webclip/meta"
	"github.com/fwojciec/webclip/sanitize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Snapshot is a consistent copy of the observable pipeline state.
type Snapshot struct {
	State       State
	Collections []*webclip.Collection
	SelectedID  string
	Schema      *webclip.Schema
	Draft       webclip.DraftItem
	ImageURL    string
	ItemID      string

	// Err is the human-readable message of the last failure.
	Err string
}

// Pipeline drives a share operation for SourceURL.
type Pipeline struct {
	Collections webclip.CollectionService
	Fetcher     webclip.Fetcher
	Generator   webclip.Generator

	// Extractor and Converter condense the page before prompting.
	// Either may be nil.
	Extractor webclip.Extractor
	Converter webclip.Converter

	Logger *slog.Logger

	// SourceURL is the page being shared. It must be set before Select.
	SourceURL string

	// OnChange receives a snapshot after every change, in order, without
	// any lock held. It must not call Wait or Close.
	OnChange func(Snapshot)

	mu          sync.Mutex
	state       State
	collections []*webclip.Collection
	selectedID  string
	guidance    string
	schema      *webclip.Schema
	draft       webclip.DraftItem
	image       string
	itemID      string
	err         error
	closed      bool

	task    *task
	running int
	idle    chan struct{}

	pending    []Snapshot
	delivering bool
}

type task struct {
	id     string
	cancel context.CancelFunc
}

// Start lists the collections of the store. It supersedes a listing that
// is still in flight.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	eff, err := p.fire(EventStart)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.clearSelection()
	p.err = nil
	p.itemID = ""
	p.perform(eff)
	p.unlockAndNotify()
	return nil
}

// Select starts analyzing SourceURL for the given collection, cancelling
// any analysis in flight. Guidance is passed to the model verbatim.
func (p *Pipeline) Select(collectionID, guidance string) error {
	p.mu.Lock()
	if _, _, err := Transition(p.state, EventSelect); err != nil {
		p.mu.Unlock()
		return err
	}
	if !p.hasCollection(collectionID) {
		p.mu.Unlock()
		return webclip.Errorf(webclip.EINVALID, "unknown collection %q", collectionID)
	}
	eff, err := p.fire(EventSelect)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.clearSelection()
	p.selectedID = collectionID
	p.guidance = guidance
	p.err = nil
	p.itemID = ""
	p.perform(eff)
	p.unlockAndNotify()
	return nil
}

// SetField replaces one draft value while editing.
func (p *Pipeline) SetField(key string, v webclip.Value) error {
	p.mu.Lock()
	if p.state != Editing {
		p.mu.Unlock()
		return webclip.Errorf(webclip.EINVALID, "cannot edit while %s", p.state)
	}
	if v.IsAbsent() {
		delete(p.draft, key)
	} else {
		p.draft[key] = v
	}
	p.unlockAndNotify()
	return nil
}

// SetDraft replaces the whole draft while editing.
func (p *Pipeline) SetDraft(d webclip.DraftItem) error {
	p.mu.Lock()
	if p.state != Editing {
		p.mu.Unlock()
		return webclip.Errorf(webclip.EINVALID, "cannot edit while %s", p.state)
	}
	p.draft = d.Clone()
	if p.draft == nil {
		p.draft = webclip.DraftItem{}
	}
	p.unlockAndNotify()
	return nil
}

// Save sanitizes the draft and commits it: the item is created, then the
// source link and preview image are appended to it. The two steps are not
// atomic; if appending fails the created item's id is kept in the snapshot.
func (p *Pipeline) Save() error {
	p.mu.Lock()
	if _, _, err := Transition(p.state, EventSave); err != nil {
		p.mu.Unlock()
		return err
	}
	item := sanitize.Sanitize(p.draft, p.schema).Only(p.schema.Keys())
	if !webclip.DraftItem(item).Has(p.schema.ContentKey) {
		p.mu.Unlock()
		return webclip.Errorf(webclip.EINVALID, "%s is required", p.contentName())
	}
	eff, err := p.fire(EventSave)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.err = nil
	p.spawn(eff, p.saveWork(p.selectedID, p.schema.ContentKey, item, p.SourceURL, p.image))
	p.unlockAndNotify()
	return nil
}

// Cancel discards the draft or aborts the work in flight and returns to
// the collection menu.
func (p *Pipeline) Cancel() error {
	p.mu.Lock()
	eff, err := p.fire(EventCancel)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.perform(eff)
	p.clearSelection()
	p.unlockAndNotify()
	return nil
}

// Close tears the pipeline down, cancelling any work in flight, and waits
// for it to stop. Later calls to other methods fail.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return p.Wait(context.Background())
	}
	eff, _ := p.fire(EventTeardown)
	p.perform(eff)
	p.clearSelection()
	p.closed = true
	p.unlockAndNotify()
	return p.Wait(context.Background())
}

// Wait blocks until no unit of work is running.
func (p *Pipeline) Wait(ctx context.Context) error {
	p.mu.Lock()
	if p.running == 0 {
		p.mu.Unlock()
		return nil
	}
	idle := p.idle
	p.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current observable state.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Err returns the last failure, or nil.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Error {
		return nil
	}
	return p.err
}

// fire applies ev to the current state. Caller holds p.mu.
func (p *Pipeline) fire(ev Event) (Effect, error) {
	if p.closed {
		return EffectNone, webclip.Errorf(webclip.EINVALID, "pipeline closed")
	}
	next, eff, err := Transition(p.state, ev)
	if err != nil {
		return EffectNone, err
	}
	p.logger().Debug("transition", "event", ev, "from", p.state, "to", next)
	p.state = next
	return eff, nil
}

// perform starts the work an effect asks for. Caller holds p.mu.
func (p *Pipeline) perform(eff Effect) {
	switch eff {
	case EffectListCollections:
		p.spawn(eff, p.listWork())
	case EffectAnalyze:
		p.spawn(eff, p.analyzeWork(p.selectedID, p.SourceURL, p.guidance))
	case EffectAbort:
		p.abort()
	}
}

// spawn cancels the task in flight and runs work as its replacement. The
// commit function work returns is applied under the lock only if the task
// was not canceled meanwhile. Caller holds p.mu.
func (p *Pipeline) spawn(eff Effect, work func(ctx context.Context) func()) {
	p.abort()

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{id: uuid.NewString(), cancel: cancel}
	p.task = t
	p.acquire()
	p.logger().Debug("task started", "task", t.id, "effect", eff)

	go func() {
		defer func() {
			p.mu.Lock()
			p.release()
			p.mu.Unlock()
		}()

		commit := work(ctx)

		p.mu.Lock()
		if ctx.Err() != nil {
			p.mu.Unlock()
			p.logger().Debug("task discarded", "task", t.id, "effect", eff)
			return
		}
		p.task = nil
		cancel()
		commit()
		p.logger().Debug("task finished", "task", t.id, "effect", eff, "state", p.state)
		p.unlockAndNotify()
	}()
}

// abort cancels the task in flight. Caller holds p.mu.
func (p *Pipeline) abort() {
	if p.task == nil {
		return
	}
	p.logger().Debug("task canceled", "task", p.task.id)
	p.task.cancel()
	p.task = nil
}

// acquire and release count running goroutines for Wait. Caller holds p.mu.
func (p *Pipeline) acquire() {
	if p.running == 0 {
		p.idle = make(chan struct{})
	}
	p.running++
}

func (p *Pipeline) release() {
	p.running--
	if p.running == 0 {
		close(p.idle)
	}
}

// fail records err and enters Error. Caller holds p.mu.
func (p *Pipeline) fail(err error) {
	p.err = err
	if _, ferr := p.fire(EventFailed); ferr != nil {
		p.logger().Error("unexpected transition", "err", ferr)
	}
}

func (p *Pipeline) listWork() func(ctx context.Context) func() {
	return func(ctx context.Context) func() {
		collections, err := p.Collections.ListCollections(ctx)
		return func() {
			if err != nil {
				p.fail(err)
				return
			}
			p.collections = collections
			if _, err := p.fire(EventCollectionsLoaded); err != nil {
				p.logger().Error("unexpected transition", "err", err)
			}
		}
	}
}

func (p *Pipeline) analyzeWork(collectionID, pageURL, guidance string) func(ctx context.Context) func() {
	return func(ctx context.Context) func() {
		result, err := p.analyze(ctx, collectionID, pageURL, guidance)
		return func() {
			if err != nil {
				p.clearSelection()
				p.fail(err)
				return
			}
			p.schema = result.schema
			p.draft = result.draft
			p.image = result.image
			if _, err := p.fire(EventDraftReady); err != nil {
				p.logger().Error("unexpected transition", "err", err)
			}
		}
	}
}

func (p *Pipeline) saveWork(collectionID, contentKey string, item webclip.SanitizedItem, pageURL, image string) func(ctx context.Context) func() {
	return func(ctx context.Context) func() {
		id, err := p.commit(ctx, collectionID, contentKey, item, pageURL, image)
		return func() {
			p.itemID = id
			if err != nil {
				p.fail(err)
				return
			}
			p.draft = nil
			if _, err := p.fire(EventSaved); err != nil {
				p.logger().Error("unexpected transition", "err", err)
			}
		}
	}
}

type analysis struct {
	schema *webclip.Schema
	draft  webclip.DraftItem
	image  string
}

// analyze fetches the page and the schema concurrently, then asks the
// generator for a draft. The content key is always present on success.
func (p *Pipeline) analyze(ctx context.Context, collectionID, pageURL, guidance string) (*analysis, error) {
	var page string
	var schema *webclip.Schema

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page, err = p.Fetcher.Fetch(gctx, pageURL)
		return err
	})
	g.Go(func() (err error) {
		schema, err = p.Collections.FetchSchema(gctx, collectionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	image := meta.ExtractPreviewImage(page)
	content, extracted := p.condense(page)
	if image == "" && extracted != nil {
		image = extracted.Image
	}

	draft, err := p.Generator.GenerateItem(ctx, webclip.GenerateRequest{
		URL:               pageURL,
		PageContent:       content,
		Schema:            schema,
		Guidance:          guidance,
		SuggestedImageURL: image,
	})
	if err != nil {
		return nil, err
	}
	if draft == nil {
		draft = webclip.DraftItem{}
	}

	if !draft.Has(schema.ContentKey) {
		title := meta.ExtractTitle(page)
		if title == "" && extracted != nil {
			title = strings.TrimSpace(extracted.Title)
		}
		if title == "" {
			title = pageURL
		}
		draft[schema.ContentKey] = webclip.String(title)
	}

	return &analysis{schema: schema, draft: draft, image: image}, nil
}

// condense reduces raw markup to Markdown of its main content. The raw page
// is returned when extraction or conversion fails or yields nothing.
func (p *Pipeline) condense(page string) (string, *webclip.ExtractResult) {
	if p.Extractor == nil {
		return page, nil
	}
	extracted, err := p.Extractor.Extract(page)
	if err != nil {
		p.logger().Debug("extraction failed, using raw page", "err", err)
		return page, nil
	}
	if strings.TrimSpace(extracted.ContentHTML) == "" {
		return page, extracted
	}
	if p.Converter == nil {
		return extracted.ContentHTML, extracted
	}
	md, err := p.Converter.Convert(extracted.ContentHTML)
	if err != nil || strings.TrimSpace(md) == "" {
		p.logger().Debug("conversion failed, using raw page", "err", err)
		return page, extracted
	}
	p.logger().Debug("condensed page", "raw_bytes", len(page), "bytes", len(md))
	return md, extracted
}

// commit creates the item and appends its content blocks.
func (p *Pipeline) commit(ctx context.Context, collectionID, contentKey string, item webclip.SanitizedItem, pageURL, image string) (string, error) {
	id, err := p.Collections.CreateItem(ctx, collectionID, item, contentKey)
	if err != nil {
		return "", err
	}
	if err := p.Collections.AppendContent(ctx, id, pageURL, image); err != nil {
		return id, webclip.Errorf(webclip.ErrorCode(err),
			"Item was created, but adding its content failed: %s", message(err))
	}
	return id, nil
}

func (p *Pipeline) hasCollection(id string) bool {
	for _, c := range p.collections {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (p *Pipeline) contentName() string {
	if p.schema.ContentDisplayName != "" {
		return p.schema.ContentDisplayName
	}
	return p.schema.ContentKey
}

func (p *Pipeline) clearSelection() {
	p.selectedID = ""
	p.guidance = ""
	p.schema = nil
	p.draft = nil
	p.image = ""
}

// snapshot copies the observable state. Caller holds p.mu.
func (p *Pipeline) snapshot() Snapshot {
	s := Snapshot{
		State:       p.state,
		Collections: append([]*webclip.Collection(nil), p.collections...),
		SelectedID:  p.selectedID,
		Schema:      p.schema,
		Draft:       p.draft.Clone(),
		ImageURL:    p.image,
		ItemID:      p.itemID,
	}
	if p.state == Error && p.err != nil {
		s.Err = message(p.err)
	}
	return s
}

// unlockAndNotify queues a snapshot for OnChange and releases p.mu. One
// goroutine at a time delivers the queue, so snapshots arrive in the order
// of the changes they describe.
func (p *Pipeline) unlockAndNotify() {
	if p.OnChange == nil {
		p.mu.Unlock()
		return
	}
	p.pending = append(p.pending, p.snapshot())
	if p.delivering {
		p.mu.Unlock()
		return
	}
	p.delivering = true
	p.acquire()
	for len(p.pending) > 0 {
		batch := p.pending
		p.pending = nil
		p.mu.Unlock()
		for _, snap := range batch {
			p.OnChange(snap)
		}
		p.mu.Lock()
	}
	p.delivering = false
	p.release()
	p.mu.Unlock()
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

// message returns the user-facing text of err. A deadline reaching a task
// that was not canceled is a timeout.
func message(err error) string {
	if webclip.ErrorCode(err) == webclip.ECANCELED {
		return "Request timed out"
	}
	return webclip.ErrorMessage(err)
}
