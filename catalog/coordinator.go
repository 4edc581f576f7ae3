// Package catalog coordinates the paginated pokemon list, the single-result
// search and the selected detail record, keeping them consistent with the
// URL state under overlapping requests.
package catalog

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/s0up4200/pokedex/pokeapi"
	"github.com/s0up4200/pokedex/storage"
	"github.com/s0up4200/pokedex/urlstate"
)

// Options configures a Coordinator
type Options struct {
	// Storage remembers the last search term. Nil disables persistence.
	Storage *storage.Local
	// SpriteTemplate overrides the list item image pattern
	SpriteTemplate string
	// EnrichConcurrency bounds parallel detail fetches in Enrich
	EnrichConcurrency int
}

// request tracks the in-flight request of one concern. seq grows on every
// new request so that late responses from superseded ones can be dropped.
// applied grows whenever a result is committed to state, and gates the
// URL write that follows it.
type request struct {
	seq     uint64
	applied uint64
	cancel  context.CancelFunc
}

// begin supersedes the current request and returns a context for the new one
func (r *request) begin(parent context.Context) (context.Context, uint64) {
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	return ctx, r.seq
}

// finish releases the context of a completed request
func (r *request) finish() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// invalidate drops the in-flight request without starting a new one
func (r *request) invalidate() {
	r.finish()
	r.seq++
}

// commit marks a result as applied and returns its generation
func (r *request) commit() uint64 {
	r.applied++
	return r.applied
}

// Coordinator owns the result list, pagination and selection state
type Coordinator struct {
	api            pokeapi.API
	url            *urlstate.State
	store          *storage.Local
	logger         zerolog.Logger
	spriteTemplate string
	enrichLimit    int
	unsubscribe    func()

	// urlMu orders URL writes so an older result never lands after a newer one
	urlMu sync.Mutex

	mu           sync.Mutex
	results      []pokeapi.Pokemon
	totalCount   int
	currentPage  int
	mode         Mode
	search       SearchState
	list         Status
	selection    Status
	selected     *pokeapi.Pokemon
	selectedName string
	pendingName  string
	listReq      request
	selReq       request

	searching atomic.Int32
}

// New creates a Coordinator over api and the given URL state. No request is
// made until Sync or one of the actions is called.
func New(api pokeapi.API, state *urlstate.State, logger zerolog.Logger, opts Options) *Coordinator {
	c := &Coordinator{
		api:            api,
		url:            state,
		store:          opts.Storage,
		logger:         logger,
		spriteTemplate: opts.SpriteTemplate,
		enrichLimit:    opts.EnrichConcurrency,
		results:        []pokeapi.Pokemon{},
		currentPage:    state.Page(),
		mode:           ModeBrowse,
	}
	if c.spriteTemplate == "" {
		c.spriteTemplate = pokeapi.DefaultSpriteTemplate
	}
	if c.enrichLimit <= 0 {
		c.enrichLimit = 5
	}

	c.unsubscribe = state.Subscribe(func(v url.Values) {
		c.logger.Debug().Str("query", v.Encode()).Msg("URL state changed")
	})

	return c
}

// Close cancels in-flight requests and detaches from the URL state
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.listReq.invalidate()
	c.selReq.invalidate()
	c.mu.Unlock()

	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// URL returns the URL state the coordinator writes to
func (c *Coordinator) URL() *urlstate.State {
	return c.url
}

// View returns a snapshot of the current state
func (c *Coordinator) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Results:      append([]pokeapi.Pokemon(nil), c.results...),
		TotalCount:   c.totalCount,
		TotalPages:   TotalPages(c.totalCount),
		CurrentPage:  c.currentPage,
		ItemsPerPage: ItemsPerPage,
		Mode:         c.mode,
		Search:       c.search,
		SelectedName: c.selectedName,
		List:         c.list,
		Selection:    c.selection,
	}
	if v.Results == nil {
		v.Results = []pokeapi.Pokemon{}
	}
	if c.selected != nil {
		selected := *c.selected
		v.Selected = &selected
	}
	return v
}

// IsSearchInProgress reports whether a non-empty search is in flight
func (c *Coordinator) IsSearchInProgress() bool {
	return c.searching.Load() > 0
}

// LoadPage fetches one catalog page. The page is written to the URL only
// after the fetch succeeded. Failures are recorded in the list status.
func (c *Coordinator) LoadPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	reqCtx, token := c.listReq.begin(ctx)
	c.list = Status{Phase: PhaseLoading}
	c.mu.Unlock()

	c.logger.Debug().Int("page", page).Msg("Loading catalog page")

	list, err := c.api.ListPokemon(reqCtx, (page-1)*ItemsPerPage, ItemsPerPage)

	c.mu.Lock()
	if token != c.listReq.seq {
		c.mu.Unlock()
		c.logger.Debug().Int("page", page).Msg("Dropping stale page response")
		return
	}
	c.listReq.finish()

	if err != nil {
		c.results = []pokeapi.Pokemon{}
		c.totalCount = 0
		c.list = Status{Phase: PhaseError, Error: pokeapi.ErrorMessage(err, "")}
		c.mu.Unlock()

		c.logger.Warn().Err(err).Int("page", page).Msg("Failed to load catalog page")
		return
	}

	c.results = pokeapi.ParseListWithTemplate(list, c.spriteTemplate)
	c.totalCount = list.Count
	c.currentPage = page
	c.mode = ModeBrowse
	c.list = Status{Phase: PhaseSuccess}
	gen := c.listReq.commit()
	c.mu.Unlock()

	c.writeURL(&c.listReq, gen, func() { c.url.SetPage(page) })
}

// SearchPokemon looks up a single pokemon by name or id. An empty query
// returns to browse mode via LoadPage(1). A non-empty search closes the
// detail view first, since the two modes are exclusive.
func (c *Coordinator) SearchPokemon(ctx context.Context, query string) {
	trimmed := strings.TrimSpace(query)
	normalized := strings.ToLower(trimmed)

	c.mu.Lock()
	c.search = SearchState{Query: query, Normalized: normalized}
	c.mu.Unlock()

	c.persistSearch(trimmed)

	if trimmed == "" {
		c.LoadPage(ctx, 1)
		return
	}

	c.searching.Add(1)
	defer c.searching.Add(-1)

	c.ClearSelection()

	c.mu.Lock()
	reqCtx, token := c.listReq.begin(ctx)
	c.list = Status{Phase: PhaseLoading}
	c.mu.Unlock()

	c.logger.Debug().Str("query", normalized).Msg("Searching pokemon")

	details, err := c.api.GetPokemon(reqCtx, normalized)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.listReq.seq {
		c.logger.Debug().Str("query", normalized).Msg("Dropping stale search response")
		return
	}
	c.listReq.finish()

	if err != nil {
		c.results = []pokeapi.Pokemon{}
		c.totalCount = 0
		c.list = Status{Phase: PhaseError, Error: pokeapi.ErrorMessage(err, trimmed)}
		c.logger.Warn().Err(err).Str("query", normalized).Msg("Search failed")
		return
	}

	c.results = []pokeapi.Pokemon{pokeapi.ParseDetails(details)}
	c.totalCount = 1
	c.currentPage = 1
	c.mode = ModeSearch
	c.list = Status{Phase: PhaseSuccess}
	c.listReq.commit()
}

// SelectPokemon opens the detail view for name. Selecting the already
// selected pokemon (case-insensitively) closes it without a request.
func (c *Coordinator) SelectPokemon(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		c.ClearSelection()
		return
	}

	c.mu.Lock()
	if c.isSelectedLocked(name) {
		c.mu.Unlock()
		c.ClearSelection()
		return
	}

	reqCtx, token := c.selReq.begin(ctx)
	c.selection = Status{Phase: PhaseLoading}
	c.pendingName = name
	c.mu.Unlock()

	details, err := c.api.GetPokemon(reqCtx, name)

	c.mu.Lock()
	if token != c.selReq.seq {
		c.mu.Unlock()
		c.logger.Debug().Str("pokemon", name).Msg("Dropping stale details response")
		return
	}
	c.selReq.finish()
	c.pendingName = ""

	if err != nil {
		c.selected = nil
		c.selectedName = ""
		c.selection = Status{Phase: PhaseError, Error: pokeapi.ErrorMessage(err, name)}
		gen := c.selReq.commit()
		c.mu.Unlock()

		c.logger.Warn().Err(err).Str("pokemon", name).Msg("Failed to load pokemon details")
		c.writeURL(&c.selReq, gen, func() { c.url.SetSelectedPokemon("") })
		return
	}

	p := pokeapi.ParseDetails(details)
	c.selected = &p
	c.selectedName = name
	c.selection = Status{Phase: PhaseSuccess}
	gen := c.selReq.commit()
	c.mu.Unlock()

	c.writeURL(&c.selReq, gen, func() { c.url.SetSelectedPokemon(name) })
}

// ClearResults empties the result list, total, search text and list error.
// The URL is left untouched.
func (c *Coordinator) ClearResults() {
	c.mu.Lock()
	c.listReq.invalidate()
	c.results = []pokeapi.Pokemon{}
	c.totalCount = 0
	c.search = SearchState{}
	c.list = Status{}
	c.mu.Unlock()
}

// ClearSelection closes the detail view and removes it from the URL
func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	c.selReq.invalidate()
	c.selected = nil
	c.selectedName = ""
	c.pendingName = ""
	c.selection = Status{}
	gen := c.selReq.commit()
	c.mu.Unlock()

	c.writeURL(&c.selReq, gen, func() { c.url.SetSelectedPokemon("") })
}

// writeURL runs write unless a newer result of the same concern was
// committed after generation gen. Listeners run on the calling goroutine
// and must not call back into the coordinator synchronously.
func (c *Coordinator) writeURL(r *request, gen uint64, write func()) {
	c.urlMu.Lock()
	defer c.urlMu.Unlock()

	c.mu.Lock()
	stale := r.applied != gen
	c.mu.Unlock()

	if stale {
		c.logger.Debug().Uint64("generation", gen).Msg("Skipping superseded URL write")
		return
	}
	write()
}

// Navigate replaces the URL query, as when a shared link is opened, and
// reconciles state with it.
func (c *Coordinator) Navigate(ctx context.Context, rawQuery string) error {
	if err := c.url.Navigate(rawQuery); err != nil {
		return err
	}
	c.Sync(ctx)
	return nil
}

// Sync reconciles in-memory state with the URL:
//   - with no results, no search text and nothing loaded yet, the URL page is loaded
//   - in browse mode, a different URL page is loaded
//   - a details parameter that differs from the selection is loaded, unless a
//     search is in flight
//   - a missing details parameter closes the detail view
func (c *Coordinator) Sync(ctx context.Context) {
	page := c.url.Page()
	details := c.url.Details()

	c.mu.Lock()
	initialLoad := len(c.results) == 0 && c.search.Normalized == "" && c.list.Phase == PhaseIdle
	pageChanged := c.mode == ModeBrowse && c.list.Phase == PhaseSuccess && c.currentPage != page
	selectedName := c.selectedName
	pendingName := c.pendingName
	c.mu.Unlock()

	if initialLoad || pageChanged {
		c.LoadPage(ctx, page)
	}

	switch {
	case details == "":
		if selectedName != "" {
			c.ClearSelection()
		}
	case c.IsSearchInProgress():
		c.logger.Debug().Str("details", details).Msg("Search in progress, skipping details load")
	case strings.EqualFold(details, selectedName), strings.EqualFold(details, pendingName):
		// already shown or loading
	default:
		c.SelectPokemon(ctx, details)
	}
}

// LastSearch returns the persisted search term, or "" if none
func (c *Coordinator) LastSearch() string {
	if c.store == nil {
		return ""
	}
	return storage.Get(c.store, storage.KeySearchTerm, "")
}

func (c *Coordinator) persistSearch(term string) {
	if c.store == nil {
		return
	}
	if term == "" {
		c.store.Remove(storage.KeySearchTerm)
		return
	}
	c.store.Set(storage.KeySearchTerm, term)
}

// isSelectedLocked reports whether name refers to the current selection.
// Callers hold c.mu.
func (c *Coordinator) isSelectedLocked(name string) bool {
	if c.selectedName != "" && strings.EqualFold(c.selectedName, name) {
		return true
	}
	return c.selected != nil && strings.EqualFold(c.selected.Name, name)
}
