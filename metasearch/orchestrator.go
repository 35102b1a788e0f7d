package metasearch

import (
	"context"
	"sort"
	"sync"

	"github.com/wayfind/metasearch-core/engine"
)

// MetaResult is the orchestrator's output: the full, unpaginated, deduped
// and sorted result list plus the bookkeeping the pipeline surfaces.
type MetaResult struct {
	Results            []engine.Result
	Suggestions        []string
	Corrections        []string
	TotalEngines       int
	SuccessfulEngines  int
	FailedEngines      []string
}

// Orchestrator selects engines by category and fans out to them via the
// Executor, the way the teacher's multiEngineSearcher.DeepSearch fans out
// with a WaitGroup + mutex rather than an error-group that would cancel
// siblings on first failure — here that independence is the point: one
// engine's failure must never cancel the others (§4.4).
type Orchestrator struct {
	engines  map[string]engine.Engine
	executor *engine.Executor
	vqd      *engine.VQDFetcher
}

func New(engines map[string]engine.Engine, executor *engine.Executor, vqd *engine.VQDFetcher) *Orchestrator {
	return &Orchestrator{engines: engines, executor: executor, vqd: vqd}
}

type engineOutcome struct {
	name    string
	results engine.Results
	err     error
}

// Search runs every enabled engine whose descriptor lists category,
// collects all outcomes (success or failure) before returning, dedupes
// and sorts by score descending with ties preserving first-seen order
// (P4, I2).
func (o *Orchestrator) Search(ctx context.Context, query string, category engine.Category, params engine.Params) MetaResult {
	selected := o.selectEngines(category)

	if needsVQD(selected) {
		if params.EngineData == nil {
			params.EngineData = make(map[string]any)
		}
		if token, err := o.vqd.Fetch(ctx, query, false); err == nil {
			params.EngineData["vqd"] = token
		}
	}

	outcomes := o.fanOut(ctx, selected, query, params)

	var out MetaResult
	out.TotalEngines = len(selected)

	var allResults []engine.Result
	for _, oc := range outcomes {
		if oc.err != nil {
			out.FailedEngines = append(out.FailedEngines, oc.name)
			continue
		}
		out.SuccessfulEngines++
		allResults = append(allResults, oc.results.Results...)
		out.Suggestions = append(out.Suggestions, oc.results.Suggestions...)
		out.Corrections = append(out.Corrections, oc.results.Corrections...)
	}

	merged := DedupeAndMerge(allResults)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	out.Results = merged
	out.Suggestions = dedupeStrings(out.Suggestions)
	out.Corrections = dedupeStrings(out.Corrections)

	return out
}

func (o *Orchestrator) selectEngines(category engine.Category) []engine.Engine {
	var selected []engine.Engine
	for _, e := range o.engines {
		d := e.Descriptor()
		if d.Disabled {
			continue
		}
		if d.HasCategory(category) {
			selected = append(selected, e)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Descriptor().Name < selected[j].Descriptor().Name
	})
	return selected
}

func needsVQD(selected []engine.Engine) bool {
	for _, e := range selected {
		if engine.IsDuckDuckGo(e.Descriptor().Name) {
			return true
		}
	}
	return false
}

// fanOut runs every engine to completion or its own timeout; one engine's
// error never cancels the others (settle-all / at-least-once-independent
// failure semantics, §4.4 step 2).
func (o *Orchestrator) fanOut(ctx context.Context, engines []engine.Engine, query string, params engine.Params) []engineOutcome {
	outcomes := make([]engineOutcome, len(engines))

	var wg sync.WaitGroup
	for i, e := range engines {
		wg.Add(1)
		go func(idx int, eng engine.Engine) {
			defer wg.Done()
			results, err := o.executor.Execute(ctx, eng, query, params)
			outcomes[idx] = engineOutcome{name: eng.Descriptor().Name, results: results, err: err}
		}(i, e)
	}
	wg.Wait()

	return outcomes
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
