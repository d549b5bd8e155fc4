package service

import (
	"context"
	"fmt"
	"image"
	"runtime/debug"
	"sort"
	"time"

	"pdf-diff/internal/domain"
	apperrors "pdf-diff/pkg/errors"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 4

// ComparisonService runs document pair comparisons on a fixed worker pool.
type ComparisonService struct {
	pdf        domain.PDFService
	extractor  *Extractor
	structural *StructuralComparator
	visual     *VisualComparator
	artifacts  domain.ArtifactStore
	results    domain.ResultRepository
	logger     domain.Logger
	workers    int
}

// NewComparisonService creates a new comparison service. workers below 1
// fall back to DefaultWorkers.
func NewComparisonService(
	pdf domain.PDFService,
	artifacts domain.ArtifactStore,
	results domain.ResultRepository,
	logger domain.Logger,
	workers int,
) *ComparisonService {
	if workers < 1 {
		workers = DefaultWorkers
	}
	visual := NewVisualComparator(logger)
	return &ComparisonService{
		pdf:        pdf,
		extractor:  NewExtractor(logger, visual.Scale()),
		structural: NewStructuralComparator(logger),
		visual:     visual,
		artifacts:  artifacts,
		results:    results,
		logger:     logger,
		workers:    workers,
	}
}

// Workers returns the pool size
func (s *ComparisonService) Workers() int {
	return s.workers
}

// Run compares every pair and returns the aggregated summary. Jobs are
// independent; a failing job marks its pair different and never stops the
// others. Cancelling ctx stops handing out new jobs; pairs that were never
// started are reported as failed and different.
func (s *ComparisonService) Run(ctx context.Context, runID string, pairs []domain.PairSpec, mode domain.ComparisonMode) (*domain.RunSummary, error) {
	if mode != domain.ModeSimple && mode != domain.ModeStructural && mode != domain.ModeVisual {
		return nil, apperrors.NewValidationError("invalid comparison mode", mode.String())
	}

	summary := &domain.RunSummary{
		Mode:      mode,
		ModeName:  mode.String(),
		Pairs:     len(pairs),
		StartedAt: time.Now(),
	}
	s.logger.Info("Comparison run started", "run_id", runID, "pairs", len(pairs), "mode", mode.String(), "workers", s.workers)

	jobs := make(chan domain.PairSpec)
	out := make(chan domain.PairResult, len(pairs))

	var g errgroup.Group
	for w := 0; w < s.workers; w++ {
		g.Go(func() error {
			scratch := NewScratch()
			for spec := range jobs {
				out <- s.runJob(ctx, spec, mode, scratch)
			}
			return nil
		})
	}

	dispatched := 0
dispatch:
	for _, spec := range pairs {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- spec:
			dispatched++
		}
	}
	close(jobs)
	_ = g.Wait()

	for _, spec := range pairs[dispatched:] {
		out <- domain.PairResult{
			Name:      spec.Name,
			PathA:     spec.PathA,
			PathB:     spec.PathB,
			State:     domain.StateFailed,
			Different: true,
			Error:     ctx.Err().Error(),
		}
	}
	close(out)

	for r := range out {
		summary.Results = append(summary.Results, r)
		if r.State == domain.StateFailed {
			summary.FailedPairs++
		}
		if !r.Different {
			continue
		}
		summary.DifferentPairs++
		summary.FoundDifference = true
		if s.results != nil {
			if err := s.results.Save(ctx, runID, r); err != nil {
				s.logger.Error("Failed to save comparison result", err, "run_id", runID, "file", r.Name)
			}
		}
	}
	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Name < summary.Results[j].Name
	})
	summary.Elapsed = time.Since(summary.StartedAt)

	s.logger.Info("Comparison run finished",
		"run_id", runID,
		"pairs", summary.Pairs,
		"different", summary.DifferentPairs,
		"failed", summary.FailedPairs,
		"elapsed", summary.Elapsed.String(),
	)
	return summary, nil
}

// runJob takes one pair through extraction, structural and visual comparison.
// Panics are recovered here so one broken document cannot take down the run.
func (s *ComparisonService) runJob(ctx context.Context, spec domain.PairSpec, mode domain.ComparisonMode, scratch *Scratch) (result domain.PairResult) {
	result = domain.PairResult{Name: spec.Name, PathA: spec.PathA, PathB: spec.PathB}
	diffs := NewDiffLog(s.logger)
	defer func() {
		if r := recover(); r != nil {
			err := apperrors.NewWorkerError(spec.Name, fmt.Errorf("%w: %v", domain.ErrWorker, r))
			s.logger.Error("Comparison job panicked", err, "file", spec.Name, "stack", string(debug.Stack()))
			result.State = domain.StateFailed
			result.Different = true
			result.Error = err.Error()
		}
		result.Differences = diffs.Lines()
	}()

	pair := domain.NewDocumentPair(spec.Name, spec.PathA, spec.PathB)

	docA, err := s.open(spec.PathA)
	if err != nil {
		return s.failed(result, pair, err)
	}
	defer docA.Close()
	docB, err := s.open(spec.PathB)
	if err != nil {
		return s.failed(result, pair, err)
	}
	defer docB.Close()
	result.State = domain.StateLoaded

	if docA.PageCount() != docB.PageCount() {
		err := apperrors.NewPageCountMismatchError(spec.Name, docA.PageCount(), docB.PageCount(), domain.ErrPageCountMismatch)
		s.logger.Warn("Page count differs, skipping page comparison", "file", spec.Name, "error", err)
		pair.MarkDifferent()
		result.State = domain.StateDone
		result.Different = true
		result.Error = err.Error()
		return result
	}

	s.extractor.Extract(docA, pair.A)
	s.extractor.Extract(docB, pair.B)
	result.State = domain.StateStructureExtracted

	switch mode {
	case domain.ModeVisual:
		for _, idx := range unionPages(pair) {
			renderA, renderB := s.render(docA, docB, pair, idx)
			res := s.visual.CompareAndVisualize(pair, idx, renderA, renderB, scratch, diffs)
			result.Artifacts = s.saveDiffImage(ctx, spec.Name, res, result.Artifacts)
		}
	default:
		s.structural.Compare(pair, mode, diffs)
		result.State = domain.StateStructureCompared
		for _, idx := range pair.DifferentPages() {
			renderA, renderB := s.render(docA, docB, pair, idx)
			res := s.visual.Visualize(pair, idx, renderA, renderB, scratch)
			result.Artifacts = s.saveDiffImage(ctx, spec.Name, res, result.Artifacts)
		}
	}
	result.State = domain.StateVisuallyCompared

	result.Different = pair.CheckDifference()
	for _, idx := range pair.DifferentPages() {
		result.DifferentPages = append(result.DifferentPages, idx+1)
	}
	result.State = domain.StateDone
	return result
}

func (s *ComparisonService) open(path string) (domain.PDFDocument, error) {
	doc, err := s.pdf.Open(path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, fmt.Errorf("%w: %w", domain.ErrLoad, err))
	}
	return doc, nil
}

func (s *ComparisonService) failed(result domain.PairResult, pair *domain.DocumentPair, err error) domain.PairResult {
	s.logger.Error("Failed to load document pair", err, "file", pair.Name)
	pair.MarkDifferent()
	result.State = domain.StateFailed
	result.Different = true
	result.Error = err.Error()
	return result
}

// render draws page idx of both documents. A failed render is logged and
// returned as nil so the visual comparator skips the page.
func (s *ComparisonService) render(docA, docB domain.PDFDocument, pair *domain.DocumentPair, idx int) (*image.RGBA, *image.RGBA) {
	renderA, err := docA.Render(idx, s.visual.Scale())
	if err != nil {
		s.logger.Error("Failed to render page", err, "file", pair.PathA, "page", idx+1)
		renderA = nil
	}
	renderB, err := docB.Render(idx, s.visual.Scale())
	if err != nil {
		s.logger.Error("Failed to render page", err, "file", pair.PathB, "page", idx+1)
		renderB = nil
	}
	return renderA, renderB
}

func (s *ComparisonService) saveDiffImage(ctx context.Context, name string, res VisualResult, artifacts []string) []string {
	if res.DiffImage == nil || s.artifacts == nil {
		return artifacts
	}
	data, err := EncodePNG(res.DiffImage)
	if err != nil {
		s.logger.Error("Failed to encode diff image", err, "file", name, "page", res.PageIndex+1)
		return artifacts
	}
	location, err := s.artifacts.SavePage(ctx, name, res.PageIndex+1, data)
	if err != nil {
		s.logger.Error("Failed to save diff image", err, "file", name, "page", res.PageIndex+1)
		return artifacts
	}
	return append(artifacts, location)
}

// unionPages returns the page indexes present on either side, ascending.
func unionPages(pair *domain.DocumentPair) []int {
	seen := make(map[int]bool)
	for _, idx := range pair.A.PageIndexes() {
		seen[idx] = true
	}
	for _, idx := range pair.B.PageIndexes() {
		seen[idx] = true
	}
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
