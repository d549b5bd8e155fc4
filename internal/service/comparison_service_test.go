package service

import (
	"context"
	"fmt"
	"testing"

	"pdf-diff/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceWord = domain.Word{X: 10, Y: 80, Width: 30, Height: 10, Text: "Invoice"}

func invoicePage() fakePage {
	return fakePage{width: 100, height: 100, words: []domain.Word{invoiceWord}}
}

type serviceFixture struct {
	pdf       *fakePDFService
	artifacts *fakeArtifactStore
	results   *fakeResultRepository
	logger    *MockLogger
	service   *ComparisonService
}

func newServiceFixture(workers int) *serviceFixture {
	f := &serviceFixture{
		pdf:       newFakePDFService(),
		artifacts: &fakeArtifactStore{},
		results:   &fakeResultRepository{},
		logger:    NewMockLogger(),
	}
	f.service = NewComparisonService(f.pdf, f.artifacts, f.results, f.logger, workers)
	return f
}

func spec(name string) domain.PairSpec {
	return domain.PairSpec{Name: name, PathA: "a/" + name, PathB: "b/" + name}
}

func (f *serviceFixture) run(t *testing.T, mode domain.ComparisonMode, specs ...domain.PairSpec) *domain.RunSummary {
	t.Helper()
	summary, err := f.service.Run(context.Background(), "run-1", specs, mode)
	require.NoError(t, err)
	return summary
}

func TestNewComparisonService_DefaultWorkers(t *testing.T) {
	assert.Equal(t, DefaultWorkers, newServiceFixture(0).service.Workers())
	assert.Equal(t, 3, newServiceFixture(3).service.Workers())
}

func TestComparisonService_IdenticalDocuments(t *testing.T) {
	f := newServiceFixture(2)
	f.pdf.add("a/same.pdf", invoicePage())
	f.pdf.add("b/same.pdf", invoicePage())

	summary := f.run(t, domain.ModeStructural, spec("same.pdf"))

	require.Len(t, summary.Results, 1)
	r := summary.Results[0]
	assert.False(t, r.Different)
	assert.Equal(t, domain.StateDone, r.State)
	assert.Empty(t, r.DifferentPages)
	assert.Empty(t, r.Artifacts)
	assert.False(t, summary.FoundDifference)
	assert.Empty(t, f.artifacts.saved)
	assert.Empty(t, f.results.saved)
}

func TestComparisonService_AddedImage(t *testing.T) {
	f := newServiceFixture(2)
	f.pdf.add("a/invoice.pdf", invoicePage())
	withLogo := invoicePage()
	withLogo.images = []domain.Box{{X: 60, Y: 60, Width: 30, Height: 30}}
	withLogo.ink = withLogo.images
	f.pdf.add("b/invoice.pdf", withLogo)

	summary := f.run(t, domain.ModeStructural, spec("invoice.pdf"))

	require.Len(t, summary.Results, 1)
	r := summary.Results[0]
	assert.True(t, r.Different)
	assert.Equal(t, domain.StateDone, r.State)
	assert.Equal(t, []int{1}, r.DifferentPages)
	assert.Equal(t, "invoice.pdf: 1", r.ResultLine())
	require.Len(t, r.Differences, 1)
	assert.Contains(t, r.Differences[0], "no match for image")

	require.Len(t, f.artifacts.saved, 1)
	assert.Equal(t, "invoice.pdf", f.artifacts.saved[0].name)
	assert.Equal(t, 1, f.artifacts.saved[0].page)
	assert.Equal(t, []string{"invoice.pdf/page"}, r.Artifacts)

	assert.True(t, summary.FoundDifference)
	assert.Equal(t, 1, summary.DifferentPairs)
	require.Len(t, f.results.saved, 1)
}

func TestComparisonService_LoadError(t *testing.T) {
	f := newServiceFixture(1)
	f.pdf.add("a/broken.pdf", invoicePage())

	summary := f.run(t, domain.ModeStructural, spec("broken.pdf"))

	r := summary.Results[0]
	assert.Equal(t, domain.StateFailed, r.State)
	assert.True(t, r.Different)
	assert.Contains(t, r.Error, "b/broken.pdf")
	assert.Equal(t, 1, summary.FailedPairs)
	assert.True(t, f.logger.contains("Failed to load document pair"))
}

func TestComparisonService_PageCountMismatch(t *testing.T) {
	f := newServiceFixture(1)
	f.pdf.add("a/pages.pdf", invoicePage(), invoicePage())
	f.pdf.add("b/pages.pdf", invoicePage())

	summary := f.run(t, domain.ModeStructural, spec("pages.pdf"))

	r := summary.Results[0]
	assert.True(t, r.Different)
	assert.Equal(t, domain.StateDone, r.State)
	assert.Empty(t, r.DifferentPages)
	assert.Empty(t, f.artifacts.saved)
	assert.Contains(t, r.Error, "2 pages vs 1 pages")
}

func TestComparisonService_RecoversPanics(t *testing.T) {
	f := newServiceFixture(2)
	broken := invoicePage()
	broken.panics = true
	f.pdf.add("a/panic.pdf", broken)
	f.pdf.add("b/panic.pdf", invoicePage())
	f.pdf.add("a/fine.pdf", invoicePage())
	f.pdf.add("b/fine.pdf", invoicePage())

	summary := f.run(t, domain.ModeStructural, spec("panic.pdf"), spec("fine.pdf"))

	require.Len(t, summary.Results, 2)
	fine, panicked := summary.Results[0], summary.Results[1]
	assert.Equal(t, "fine.pdf", fine.Name)
	assert.False(t, fine.Different)
	assert.Equal(t, domain.StateFailed, panicked.State)
	assert.True(t, panicked.Different)
	assert.Contains(t, panicked.Error, "corrupt content stream")
	assert.True(t, f.logger.contains("Comparison job panicked"))
}

func TestComparisonService_VisualMode(t *testing.T) {
	f := newServiceFixture(2)
	f.pdf.add("a/same.pdf", invoicePage())
	f.pdf.add("b/same.pdf", invoicePage())
	f.pdf.add("a/changed.pdf", invoicePage())
	inked := invoicePage()
	inked.ink = []domain.Box{{X: 0, Y: 60, Width: 60, Height: 40}}
	f.pdf.add("b/changed.pdf", inked)

	summary := f.run(t, domain.ModeVisual, spec("same.pdf"), spec("changed.pdf"))

	require.Len(t, summary.Results, 2)
	changed, same := summary.Results[0], summary.Results[1]
	assert.False(t, same.Different)
	assert.True(t, changed.Different)
	assert.Equal(t, []int{1}, changed.DifferentPages)
	assert.Len(t, changed.Differences, 2)
	require.Len(t, f.artifacts.saved, 1)
	assert.Equal(t, "changed.pdf", f.artifacts.saved[0].name)
}

func TestComparisonService_RenderFailureMarksPage(t *testing.T) {
	f := newServiceFixture(1)
	f.pdf.add("a/render.pdf", invoicePage())
	broken := invoicePage()
	broken.renderErr = fmt.Errorf("no display list")
	f.pdf.add("b/render.pdf", broken)

	summary := f.run(t, domain.ModeVisual, spec("render.pdf"))

	r := summary.Results[0]
	assert.True(t, r.Different)
	assert.Equal(t, []int{1}, r.DifferentPages)
	assert.Empty(t, f.artifacts.saved)
}

func TestComparisonService_ManyPairsAllReported(t *testing.T) {
	f := newServiceFixture(4)
	var specs []domain.PairSpec
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("doc_%02d.pdf", i)
		f.pdf.add("a/"+name, invoicePage())
		if i%5 == 0 {
			f.pdf.add("b/"+name, fakePage{width: 100, height: 100})
		} else {
			f.pdf.add("b/"+name, invoicePage())
		}
		specs = append(specs, spec(name))
	}

	summary := f.run(t, domain.ModeStructural, specs...)

	require.Len(t, summary.Results, 20)
	assert.Equal(t, 4, summary.DifferentPairs)
	for i, r := range summary.Results {
		assert.Equal(t, fmt.Sprintf("doc_%02d.pdf", i), r.Name)
		assert.Equal(t, i%5 == 0, r.Different, r.Name)
	}
}

func TestComparisonService_CancelledRun(t *testing.T) {
	f := newServiceFixture(1)
	f.pdf.add("a/x.pdf", invoicePage())
	f.pdf.add("b/x.pdf", invoicePage())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.service.Run(ctx, "run-1", []domain.PairSpec{spec("x.pdf"), spec("x.pdf"), spec("x.pdf")}, domain.ModeStructural)

	require.NoError(t, err)
	require.Len(t, summary.Results, 3)
	for _, r := range summary.Results {
		assert.Equal(t, domain.StateFailed, r.State)
		assert.True(t, r.Different)
		assert.Contains(t, r.Error, context.Canceled.Error())
	}
	assert.Equal(t, 3, summary.FailedPairs)
	assert.True(t, summary.FoundDifference)
}

func TestComparisonService_InvalidMode(t *testing.T) {
	_, err := newServiceFixture(1).service.Run(context.Background(), "run-1", nil, domain.ComparisonMode(9))
	assert.Error(t, err)
}
