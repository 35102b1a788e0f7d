package engine

// DefaultEngines returns every built-in adapter (C2), keyed by descriptor
// name, the way the orchestrator (C4) expects to select engines by
// category.
func DefaultEngines() map[string]Engine {
	all := []Engine{
		NewGoogleEngine(),
		NewGoogleImagesEngine(),
		NewBingEngine(),
		NewBingImagesEngine(),
		NewBingNewsEngine(),
		NewDuckDuckGoImagesEngine(),
		NewDuckDuckGoVideosEngine(),
		NewDuckDuckGoNewsEngine(),
		NewBraveEngine(),
		NewWikipediaEngine(),
		NewYouTubeEngine(),
		NewRedditEngine(),
		NewArxivEngine(),
		NewGitHubEngine(),
	}

	byName := make(map[string]Engine, len(all))
	for _, e := range all {
		byName[e.Descriptor().Name] = e
	}
	return byName
}

// IsDuckDuckGo reports whether a descriptor name belongs to one of the
// vqd-dependent DuckDuckGo JSON engines, the set the orchestrator must
// pre-fetch a vqd token for before scheduling (§4.2, §9).
func IsDuckDuckGo(name string) bool {
	switch name {
	case "duckduckgo images", "duckduckgo videos", "duckduckgo news":
		return true
	default:
		return false
	}
}
