// Package records implements the non-bang half of C6's typed CRUD:
// settings (singleton), widget settings (singleton), preferences (keyed
// by domain), lenses (keyed by id), and history (keyed by id, bounded to
// N=100) — each keyed space maintaining a secondary index array for
// enumeration (§4.6).
package records

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/wayfind/metasearch-core/apierr"
	"github.com/wayfind/metasearch-core/kv"
)

// Settings is the user's global preference singleton. Defaults per §4.6.
type Settings struct {
	SafeSearch     string `json:"safe_search"`
	ResultsPerPage int    `json:"results_per_page"`
	Region         string `json:"region"`
	Language       string `json:"language"`
	Theme          string `json:"theme"`
	OpenInNewTab   bool   `json:"open_in_new_tab"`
	ShowThumbnails bool   `json:"show_thumbnails"`
}

func DefaultSettings() Settings {
	return Settings{
		SafeSearch:     "moderate",
		ResultsPerPage: 10,
		Region:         "",
		Language:       "en",
		Theme:          "system",
		OpenInNewTab:   false,
		ShowThumbnails: true,
	}
}

// WidgetSettings toggles each instant-answer widget; all enabled by
// default (§4.6).
type WidgetSettings struct {
	Calculator bool `json:"calculator"`
	Conversion bool `json:"conversion"`
	Currency   bool `json:"currency"`
	Weather    bool `json:"weather"`
	Definition bool `json:"definition"`
	Time       bool `json:"time"`
	Knowledge  bool `json:"knowledge"`
}

func DefaultWidgetSettings() WidgetSettings {
	return WidgetSettings{
		Calculator: true, Conversion: true, Currency: true,
		Weather: true, Definition: true, Time: true, Knowledge: true,
	}
}

// Preference is a per-domain search-result ranking hint ("block",
// "demote", "boost" level against a given domain).
type Preference struct {
	Domain string `json:"domain"`
	Level  string `json:"level"`
}

// Lens is a named, persisted search configuration (a saved
// category/engine-set combination).
type Lens struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Engines    []string `json:"engines"`
}

// HistoryEntry records one past search.
type HistoryEntry struct {
	ID        string `json:"id"`
	Query     string `json:"query"`
	Results   int    `json:"results"`
	SearchedAt string `json:"searched_at"`
}

const (
	settingsKey = "settings"
	widgetsKey  = "widgets"

	preferencesIndexKey = "preferences:_index"
	lensesIndexKey      = "lenses:_index"
	historyIndexKey     = "history:_index"

	historyMaxEntries = 100
)

// Store wraps kv.Store with typed accessors for every record space C6
// names besides bangs (which has its own package).
type Store struct {
	kv kv.Store
}

func New(backing kv.Store) *Store {
	return &Store{kv: backing}
}

func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	raw, err := s.kv.Get(ctx, settingsKey)
	if err != nil {
		return DefaultSettings(), nil
	}
	var out Settings
	if json.Unmarshal(raw, &out) != nil {
		return DefaultSettings(), nil
	}
	return out, nil
}

func (s *Store) PutSettings(ctx context.Context, v Settings) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apierr.Unexpected(err)
	}
	return s.kv.Set(ctx, settingsKey, raw, 0)
}

func (s *Store) GetWidgetSettings(ctx context.Context) (WidgetSettings, error) {
	raw, err := s.kv.Get(ctx, widgetsKey)
	if err != nil {
		return DefaultWidgetSettings(), nil
	}
	var out WidgetSettings
	if json.Unmarshal(raw, &out) != nil {
		return DefaultWidgetSettings(), nil
	}
	return out, nil
}

func (s *Store) PutWidgetSettings(ctx context.Context, v WidgetSettings) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apierr.Unexpected(err)
	}
	return s.kv.Set(ctx, widgetsKey, raw, 0)
}

func (s *Store) SetPreference(ctx context.Context, p Preference) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return apierr.Unexpected(err)
	}
	if err := s.kv.Set(ctx, "preferences:"+p.Domain, raw, 0); err != nil {
		return apierr.Unexpected(err)
	}
	return s.kv.ListAppend(ctx, preferencesIndexKey, p.Domain)
}

func (s *Store) DeletePreference(ctx context.Context, domain string) error {
	if err := s.kv.Delete(ctx, "preferences:"+domain); err != nil {
		return apierr.Unexpected(err)
	}
	return s.kv.ListRemove(ctx, preferencesIndexKey, domain)
}

func (s *Store) ListPreferences(ctx context.Context) ([]Preference, error) {
	domains, err := s.kv.ListRange(ctx, preferencesIndexKey)
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	out := make([]Preference, 0, len(domains))
	for _, domain := range domains {
		raw, err := s.kv.Get(ctx, "preferences:"+domain)
		if err != nil {
			continue // crash-tolerant read (§9)
		}
		var p Preference
		if json.Unmarshal(raw, &p) == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) CreateLens(ctx context.Context, l Lens) (Lens, error) {
	l.ID = uuid.NewString()
	if err := s.putLens(ctx, l); err != nil {
		return Lens{}, err
	}
	if err := s.kv.ListAppend(ctx, lensesIndexKey, l.ID); err != nil {
		return Lens{}, apierr.Unexpected(err)
	}
	return l, nil
}

func (s *Store) UpdateLens(ctx context.Context, l Lens) error {
	if _, err := s.kv.Get(ctx, "lenses:"+l.ID); err != nil {
		return apierr.NotFound("lens not found: " + l.ID)
	}
	return s.putLens(ctx, l)
}

func (s *Store) putLens(ctx context.Context, l Lens) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return apierr.Unexpected(err)
	}
	if err := s.kv.Set(ctx, "lenses:"+l.ID, raw, 0); err != nil {
		return apierr.Unexpected(err)
	}
	return nil
}

func (s *Store) GetLens(ctx context.Context, id string) (Lens, error) {
	raw, err := s.kv.Get(ctx, "lenses:"+id)
	if err != nil {
		return Lens{}, apierr.NotFound("lens not found: " + id)
	}
	var l Lens
	if unmarshalErr := json.Unmarshal(raw, &l); unmarshalErr != nil {
		return Lens{}, apierr.Unexpected(unmarshalErr)
	}
	return l, nil
}

func (s *Store) DeleteLens(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, "lenses:"+id); err != nil {
		return apierr.Unexpected(err)
	}
	return s.kv.ListRemove(ctx, lensesIndexKey, id)
}

func (s *Store) ListLenses(ctx context.Context) ([]Lens, error) {
	ids, err := s.kv.ListRange(ctx, lensesIndexKey)
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	out := make([]Lens, 0, len(ids))
	for _, id := range ids {
		raw, err := s.kv.Get(ctx, "lenses:"+id)
		if err != nil {
			continue
		}
		var l Lens
		if json.Unmarshal(raw, &l) == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

// AppendHistory implements invariant I5: history is bounded to the
// newest 100 entries; once the index exceeds that, the oldest entry is
// evicted from both the record space and the index.
func (s *Store) AppendHistory(ctx context.Context, query string, resultCount int) error {
	entry := HistoryEntry{
		ID:         uuid.NewString(),
		Query:      query,
		Results:    resultCount,
		SearchedAt: time.Now().UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return apierr.Unexpected(err)
	}
	if err := s.kv.Set(ctx, "history:"+entry.ID, raw, 0); err != nil {
		return apierr.Unexpected(err)
	}
	if err := s.kv.ListAppend(ctx, historyIndexKey, entry.ID); err != nil {
		return apierr.Unexpected(err)
	}

	ids, err := s.kv.ListRange(ctx, historyIndexKey)
	if err != nil {
		return nil
	}
	for len(ids) > historyMaxEntries {
		oldest := ids[0]
		_ = s.kv.Delete(ctx, "history:"+oldest)
		_ = s.kv.ListRemove(ctx, historyIndexKey, oldest)
		ids = ids[1:]
	}
	return nil
}

// ListHistory returns entries newest-first (P10); the index itself is
// stored oldest-first since AppendHistory appends to its tail.
func (s *Store) ListHistory(ctx context.Context) ([]HistoryEntry, error) {
	ids, err := s.kv.ListRange(ctx, historyIndexKey)
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	out := make([]HistoryEntry, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		raw, err := s.kv.Get(ctx, "history:"+ids[i])
		if err != nil {
			continue // crash-tolerant read: dangling index entry skipped (§9)
		}
		var e HistoryEntry
		if json.Unmarshal(raw, &e) == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) DeleteHistoryEntry(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, "history:"+id); err != nil {
		return apierr.Unexpected(err)
	}
	return s.kv.ListRemove(ctx, historyIndexKey, id)
}

func (s *Store) ClearHistory(ctx context.Context) error {
	ids, err := s.kv.ListRange(ctx, historyIndexKey)
	if err != nil {
		return apierr.Unexpected(err)
	}
	for _, id := range ids {
		_ = s.kv.Delete(ctx, "history:"+id)
		_ = s.kv.ListRemove(ctx, historyIndexKey, id)
	}
	return nil
}
