package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() retrieval.Config {
	cfg := retrieval.DefaultConfig()
	cfg.RerankEnabled = false
	return cfg
}

func newOrchestrator(t *testing.T, index domain.VectorIndex, expander retrieval.QueryExpander, reranker domain.Reranker, cfg retrieval.Config) *retrieval.Orchestrator {
	t.Helper()
	o, err := retrieval.NewOrchestrator(index, expander, reranker, cfg, discardLogger())
	require.NoError(t, err)
	return o
}

func TestOrchestrator_SingleVariantWithoutExpansion(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	index := new(MockVectorIndex)
	index.On("Search", mock.Anything, "What are the advantages of using RAG?", 5).
		Return([]domain.SearchHit{
			hit(a, "passage a", 0.9),
			hit(b, "passage b", 0.7),
			hit(c, "passage c", 0.5),
		}, nil)

	o := newOrchestrator(t, index, nil, nil, testConfig())
	bundle, err := o.Retrieve(context.Background(), "What are the advantages of using RAG?", false)
	require.NoError(t, err)

	require.Len(t, bundle.Entries, 3)
	assert.Equal(t, a.String(), bundle.Entries[0].ChunkID)
	assert.Equal(t, float32(0.9), bundle.Entries[0].RelevanceScore)
	index.AssertNumberOfCalls(t, "Search", 1)
}

func TestOrchestrator_FullPipelineWithRerank(t *testing.T) {
	// Reference scenario: fusion yields [a:0.9, b:0.7, c:0.5]; the reranker
	// scores [0.4, 0.95, 0.3]; the bundle comes back as [b, a, c] with the
	// fused scores preserved as original_score.
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	index := new(MockVectorIndex)
	index.On("Search", mock.Anything, mock.Anything, 5).
		Return([]domain.SearchHit{
			hit(a, "passage a", 0.9),
			hit(b, "passage b", 0.7),
			hit(c, "passage c", 0.5),
		}, nil)

	reranker := new(MockReranker)
	reranker.On("Rerank", mock.Anything, "What are the advantages of using RAG?", mock.Anything).
		Return([]domain.RerankResult{
			{ID: b.String(), Score: 0.95},
			{ID: a.String(), Score: 0.4},
			{ID: c.String(), Score: 0.3},
		}, nil)

	cfg := retrieval.DefaultConfig()
	o := newOrchestrator(t, index, nil, reranker, cfg)

	bundle, err := o.Retrieve(context.Background(), "What are the advantages of using RAG?", false)
	require.NoError(t, err)
	require.Len(t, bundle.Entries, 3)

	assert.Equal(t, []string{b.String(), a.String(), c.String()},
		[]string{bundle.Entries[0].ChunkID, bundle.Entries[1].ChunkID, bundle.Entries[2].ChunkID})
	assert.Equal(t, []float32{0.95, 0.4, 0.3},
		[]float32{bundle.Entries[0].RelevanceScore, bundle.Entries[1].RelevanceScore, bundle.Entries[2].RelevanceScore})
	assert.Equal(t, []float32{0.7, 0.9, 0.5},
		[]float32{bundle.Entries[0].OriginalScore, bundle.Entries[1].OriginalScore, bundle.Entries[2].OriginalScore})

	// Scores must be monotonically non-increasing by position.
	for i := 1; i < len(bundle.Entries); i++ {
		assert.GreaterOrEqual(t, bundle.Entries[i-1].RelevanceScore, bundle.Entries[i].RelevanceScore)
	}
}

func TestOrchestrator_ExpansionFansOutSearches(t *testing.T) {
	expander := &StaticExpander{Variants: []string{"variant one", "variant two", "variant three"}}

	index := new(MockVectorIndex)
	index.On("Search", mock.Anything, "variant one", 5).Return([]domain.SearchHit{hit(uuid.New(), "p1", 0.9)}, nil)
	index.On("Search", mock.Anything, "variant two", 5).Return([]domain.SearchHit{hit(uuid.New(), "p2", 0.8)}, nil)
	index.On("Search", mock.Anything, "variant three", 5).Return([]domain.SearchHit{hit(uuid.New(), "p3", 0.7)}, nil)

	o := newOrchestrator(t, index, expander, nil, testConfig())
	bundle, err := o.Retrieve(context.Background(), "original question", true)
	require.NoError(t, err)

	assert.Len(t, bundle.Entries, 3)
	index.AssertNumberOfCalls(t, "Search", 3)
	index.AssertNotCalled(t, "Search", mock.Anything, "original question", 5)
}

func TestOrchestrator_FailedVariantDegradesByOmission(t *testing.T) {
	expander := &StaticExpander{Variants: []string{"good variant", "bad variant"}}
	ok := uuid.New()

	index := new(MockVectorIndex)
	index.On("Search", mock.Anything, "good variant", 5).Return([]domain.SearchHit{hit(ok, "good", 0.8)}, nil)
	index.On("Search", mock.Anything, "bad variant", 5).Return(nil, errors.New("index timeout"))

	o := newOrchestrator(t, index, expander, nil, testConfig())
	bundle, err := o.Retrieve(context.Background(), "q", true)

	require.NoError(t, err)
	require.Len(t, bundle.Entries, 1)
	assert.Equal(t, ok.String(), bundle.Entries[0].ChunkID)
}

func TestOrchestrator_AllVariantsFailedSurfacesRetrievalUnavailable(t *testing.T) {
	expander := &StaticExpander{Variants: []string{"v1", "v2"}}

	index := new(MockVectorIndex)
	index.On("Search", mock.Anything, mock.Anything, 5).Return(nil, errors.New("index down"))

	o := newOrchestrator(t, index, expander, nil, testConfig())
	bundle, err := o.Retrieve(context.Background(), "q", true)

	assert.Nil(t, bundle)
	assert.ErrorIs(t, err, domain.ErrRetrievalUnavailable)
}

func TestOrchestrator_EmptyIndexResultsYieldEmptyBundle(t *testing.T) {
	index := new(MockVectorIndex)
	index.On("Search", mock.Anything, mock.Anything, 5).Return([]domain.SearchHit{}, nil)

	reranker := new(MockReranker)

	cfg := retrieval.DefaultConfig()
	o := newOrchestrator(t, index, nil, reranker, cfg)

	bundle, err := o.Retrieve(context.Background(), "q", false)
	require.NoError(t, err)
	assert.Empty(t, bundle.Entries)
	// Empty fusion output skips straight to assembly.
	reranker.AssertNotCalled(t, "Rerank", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_TopKBoundsBundleSize(t *testing.T) {
	var hits []domain.SearchHit
	for i := 0; i < 9; i++ {
		hits = append(hits, hit(uuid.New(), "p", float32(9-i)/10))
	}
	index := new(MockVectorIndex)
	index.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(hits, nil)

	cfg := testConfig()
	cfg.SearchLimit = 9
	cfg.TopK = 5
	o := newOrchestrator(t, index, nil, nil, cfg)

	bundle, err := o.Retrieve(context.Background(), "q", false)
	require.NoError(t, err)
	assert.Len(t, bundle.Entries, 5)
}

func TestOrchestrator_EmptyQueryRejected(t *testing.T) {
	index := new(MockVectorIndex)
	o := newOrchestrator(t, index, nil, nil, testConfig())

	_, err := o.Retrieve(context.Background(), "", false)
	assert.Error(t, err)
}

func TestNewOrchestrator_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TopK = 0
	_, err := retrieval.NewOrchestrator(new(MockVectorIndex), nil, nil, cfg, discardLogger())
	assert.Error(t, err)
}

func TestNewOrchestrator_RequiresRerankerWhenEnabled(t *testing.T) {
	cfg := retrieval.DefaultConfig()
	_, err := retrieval.NewOrchestrator(new(MockVectorIndex), nil, nil, cfg, discardLogger())
	assert.Error(t, err)
}
