// Package generator is the generation driver: it builds the declaration
// model, discovers candidates, runs each through its pattern generator in
// isolation and collects the documents and diagnostics of the pass.
package generator

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/internal/version"
	"github.com/teranos/patternkit/logger"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Source says where a candidate's result came from.
type Source string

const (
	Generated Source = "generated"
	Previous  Source = "previous"
	Cached    Source = "cache"
)

// CandidateResult is the outcome of one candidate.
type CandidateResult struct {
	// Key is "<stem>#<pattern>", unique within a pass
	Key          string            `json:"key"`
	Pattern      string            `json:"pattern"`
	Declaration  string            `json:"declaration"`
	Marker       string            `json:"marker"`
	Documents    []emit.Document   `json:"documents"`
	Diagnostics  []diag.Diagnostic `json:"diagnostics,omitempty"`
	Dependencies []string          `json:"dependencies"`
	Wide         bool              `json:"wide,omitempty"`
	Fingerprint  string            `json:"fingerprint,omitempty"`
	Source       Source            `json:"source"`
}

// Result is the outcome of a pass.
type Result struct {
	Unit       string            `json:"unit,omitempty"`
	Candidates []CandidateResult `json:"candidates"`
	// Diagnostics holds builder and discovery diagnostics first, then each
	// candidate's in candidate order
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	// Documents of every candidate, sorted by key, without colliding duplicates
	Documents []emit.Document `json:"documents"`
	Shape     string          `json:"shape"`
	// Prints maps document stems to declaration content fingerprints
	Prints map[string]string `json:"prints"`
}

// HasErrors reports whether any diagnostic of the pass is an error
func (r *Result) HasErrors() bool { return diag.HasErrors(r.Diagnostics) }

// Candidate finds a candidate result by key
func (r *Result) Candidate(key string) (*CandidateResult, bool) {
	for i := range r.Candidates {
		if r.Candidates[i].Key == key {
			return &r.Candidates[i], true
		}
	}
	return nil, false
}

// Options tune one pass.
type Options struct {
	// Previous is the last pass over the same manifests. Candidates whose
	// dependencies did not change are taken from it.
	Previous *Result
	// Changed adds document stems to the ones found by comparing against
	// Previous. It has no effect without Previous.
	Changed []string
}

// Driver runs passes. It holds no per-pass state and may be reused.
type Driver struct {
	reg      *Registry
	log      *zap.SugaredLogger
	cache    Cache
	observer Observer
	salt     string
}

// Option configures a Driver
type Option func(*Driver)

// WithLogger sets the driver's logger. nil keeps it silent.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(d *Driver) { d.log = logger.OrNop(l) }
}

// WithCache stores and reuses candidate results across processes
func WithCache(c Cache) Option {
	return func(d *Driver) { d.cache = c }
}

// WithObserver reports candidate and pass completion, e.g. to metrics
func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observer = o }
}

// New returns a driver over reg
func New(reg *Registry, opts ...Option) *Driver {
	d := &Driver{
		reg:  reg,
		log:  logger.OrNop(nil),
		salt: version.Version,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type candidate struct {
	key    string
	decl   *model.Declaration
	marker model.Attribute
	gen    pattern.Generator
}

// pass carries what every candidate of one Run shares
type pass struct {
	idx        *hierarchy.Index
	res        *Result
	stems      []string
	previous   map[string]*CandidateResult
	changed    map[string]bool
	structural bool
}

// Run executes one pass over raw. The returned error is reserved for
// cancellation and fingerprinting failures; everything about the input is
// reported as diagnostics in the result.
func (d *Driver) Run(ctx context.Context, raw model.RawUnit, opts Options) (*Result, error) {
	start := time.Now()
	unit, built := model.Build(raw)

	res := &Result{Unit: unit.Name, Prints: make(map[string]string, len(unit.Declarations))}
	p := &pass{idx: hierarchy.New(unit), res: res}
	for _, decl := range unit.Declarations {
		fp, err := DeclarationFingerprint(decl)
		if err != nil {
			return nil, err
		}
		stem := decl.DocumentStem()
		res.Prints[stem] = fp
		p.stems = append(p.stems, stem)
	}
	sort.Strings(p.stems)
	shapeFP, err := ShapeFingerprint(unit)
	if err != nil {
		return nil, err
	}
	res.Shape = shapeFP
	p.compare(opts)

	var discovery diag.Bag
	cands := d.discover(unit, &discovery)
	res.Diagnostics = append(res.Diagnostics, built...)
	res.Diagnostics = append(res.Diagnostics, discovery.Items()...)

	owner := make(map[string]string)
	hits := 0
	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "generation cancelled")
		}
		began := time.Now()
		cr, err := d.candidate(ctx, p, c)
		if err != nil {
			return nil, err
		}
		if cr.Source != Generated {
			hits++
		}
		res.Diagnostics = append(res.Diagnostics, cr.Diagnostics...)
		for _, doc := range cr.Documents {
			if prev, taken := owner[doc.Key]; taken {
				res.Diagnostics = append(res.Diagnostics,
					candidateDiag(DuplicateKey.At(pattern.MarkerLocation(c.decl, c.marker), doc.Key, cr.Key, prev), cr.Key))
				continue
			}
			owner[doc.Key] = cr.Key
			res.Documents = append(res.Documents, doc)
		}
		res.Candidates = append(res.Candidates, cr)
		if d.observer != nil {
			d.observer.CandidateDone(&res.Candidates[len(res.Candidates)-1], time.Since(began))
		}
		d.log.Debugw("candidate done",
			logger.FieldCandidate, cr.Key,
			logger.FieldDocuments, len(cr.Documents),
			logger.FieldDiagnostic, diag.IDs(cr.Diagnostics),
			"source", cr.Source)
	}
	emit.SortDocuments(res.Documents)

	elapsed := time.Since(start)
	if d.observer != nil {
		d.observer.PassDone(res, elapsed)
	}
	errs, warnings := diag.Count(res.Diagnostics)
	d.log.Infow("generation pass done",
		logger.FieldDeclaration, len(unit.Declarations),
		logger.FieldCandidates, len(res.Candidates),
		logger.FieldCacheHits, hits,
		logger.FieldDocuments, len(res.Documents),
		logger.FieldErrors, errs,
		logger.FieldWarnings, warnings,
		logger.FieldDurationMS, elapsed.Milliseconds())
	return res, nil
}

// compare works out which declarations changed since opts.Previous
func (p *pass) compare(opts Options) {
	prev := opts.Previous
	if prev == nil {
		p.structural = true
		return
	}
	p.structural = prev.Shape != p.res.Shape
	p.changed = make(map[string]bool)
	for stem, fp := range p.res.Prints {
		if prev.Prints[stem] != fp {
			p.changed[stem] = true
		}
	}
	for stem := range prev.Prints {
		if _, ok := p.res.Prints[stem]; !ok {
			p.changed[stem] = true
		}
	}
	for _, stem := range opts.Changed {
		p.changed[stem] = true
	}
	p.previous = make(map[string]*CandidateResult, len(prev.Candidates))
	for i := range prev.Candidates {
		p.previous[prev.Candidates[i].Key] = &prev.Candidates[i]
	}
}

// reusable reports whether a previous candidate result still holds
func (p *pass) reusable(prev *CandidateResult) bool {
	if p.structural {
		return false
	}
	if prev.Wide {
		return len(p.changed) == 0
	}
	for _, dep := range prev.Dependencies {
		if p.changed[dep] {
			return false
		}
	}
	return true
}

// discover lists candidates in declaration order, then attribute order
func (d *Driver) discover(unit *model.Unit, bag *diag.Bag) []candidate {
	var out []candidate
	for _, decl := range unit.Declarations {
		seen := make(map[string]bool)
		for _, attr := range decl.Attributes {
			gen, ok := d.reg.ForMarker(attr.Name)
			if !ok {
				continue
			}
			if seen[gen.Name()] {
				bag.Report(DuplicateMarker, attr.Location.Or(decl.Location), decl.QualifiedName(), attr.Name)
				continue
			}
			seen[gen.Name()] = true
			out = append(out, candidate{
				key:    decl.DocumentStem() + "#" + gen.Name(),
				decl:   decl,
				marker: attr,
				gen:    gen,
			})
		}
	}
	return out
}

func (d *Driver) candidate(ctx context.Context, p *pass, c candidate) (CandidateResult, error) {
	cr := CandidateResult{
		Key:         c.key,
		Pattern:     c.gen.Name(),
		Declaration: c.decl.QualifiedName(),
		Marker:      c.marker.Name,
	}

	if prev, ok := p.previous[c.key]; ok && p.reusable(prev) {
		cr.Documents = prev.Documents
		cr.Diagnostics = prev.Diagnostics
		cr.Dependencies = prev.Dependencies
		cr.Wide = prev.Wide
		cr.Fingerprint = prev.Fingerprint
		cr.Source = Previous
		return cr, nil
	}

	if d.cache != nil {
		if hit, ok := d.load(ctx, p, c.key); ok {
			cr.Documents = hit.Documents
			cr.Diagnostics = hit.Diagnostics
			cr.Dependencies = hit.Dependencies
			cr.Wide = hit.Wide
			cr.Fingerprint = hit.Fingerprint
			cr.Source = Cached
			return cr, nil
		}
	}

	rec := hierarchy.NewRecorder()
	out, failure := d.generate(c, p.idx.Recording(rec))
	cr.Source = Generated
	cr.Documents = out.Documents
	for _, dg := range out.Diagnostics {
		cr.Diagnostics = append(cr.Diagnostics, candidateDiag(dg, c.key))
	}
	cr.Wide = rec.Wide()
	cr.Dependencies = dependencies(c.decl.DocumentStem(), rec.Names())

	if failure != nil {
		d.log.Warnw("generator failed",
			logger.FieldPattern, c.gen.Name(),
			logger.FieldCandidate, c.key,
			logger.FieldError, failure)
		cr.Diagnostics = append(cr.Diagnostics, candidateDiag(
			InternalFailure.At(pattern.MarkerLocation(c.decl, c.marker), c.gen.Name(), c.decl.QualifiedName(), failure), c.key))
		return cr, nil
	}

	fp, ok := candidateFingerprint(d.salt, c.key, p.res.Shape, p.depsOf(cr.Dependencies, cr.Wide), p.res.Prints)
	if !ok {
		return CandidateResult{}, errors.AssertionFailedf("candidate %s depends on a declaration outside its unit", c.key)
	}
	cr.Fingerprint = fp
	if d.cache != nil {
		entry := Entry{
			Fingerprint:  fp,
			Dependencies: cr.Dependencies,
			Wide:         cr.Wide,
			Documents:    cr.Documents,
			Diagnostics:  cr.Diagnostics,
		}
		if err := d.cache.Store(ctx, c.key, entry); err != nil {
			d.log.Warnw("cache store failed", logger.FieldCandidate, c.key, logger.FieldError, err)
		}
	}
	return cr, nil
}

// load returns a cached entry whose fingerprint still matches the unit
func (d *Driver) load(ctx context.Context, p *pass, key string) (Entry, bool) {
	e, ok, err := d.cache.Load(ctx, key)
	if err != nil {
		d.log.Warnw("cache load failed", logger.FieldCandidate, key, logger.FieldError, err)
		return Entry{}, false
	}
	if !ok {
		return Entry{}, false
	}
	fp, ok := candidateFingerprint(d.salt, key, p.res.Shape, p.depsOf(e.Dependencies, e.Wide), p.res.Prints)
	if !ok || fp != e.Fingerprint {
		d.log.Debugw("cache entry stale", logger.FieldCandidate, key, logger.FieldFingerprint, e.Fingerprint)
		return Entry{}, false
	}
	return e, true
}

func (p *pass) depsOf(deps []string, wide bool) []string {
	if wide {
		return p.stems
	}
	return deps
}

// generate runs the generator, turning a panic into an error
func (d *Driver) generate(c candidate, idx *hierarchy.Index) (out pattern.Output, failure error) {
	defer func() {
		if r := recover(); r != nil {
			out = pattern.Output{}
			if err, ok := r.(error); ok {
				failure = errors.WithStack(err)
				return
			}
			failure = errors.Newf("%v", r)
		}
	}()
	return c.gen.Generate(pattern.Input{Decl: c.decl, Marker: c.marker, Index: idx}), nil
}

func candidateDiag(dg diag.Diagnostic, key string) diag.Diagnostic {
	dg.Candidate = key
	return dg
}

// dependencies is the sorted union of the candidate's own stem and the recorded ones
func dependencies(self string, recorded []string) []string {
	out := make([]string, 0, len(recorded)+1)
	out = append(out, self)
	for _, s := range recorded {
		if s != self {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
