// Package urlstate mirrors the catalog's page number and selected pokemon
// into a URL query string so that a view can be reloaded or shared as a link.
package urlstate

import (
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// Query parameter names
const (
	ParamPage    = "page"
	ParamDetails = "details"
)

// Listener is called after every update with the new query values
type Listener func(url.Values)

// State holds the query string of the current view. It has no network or
// storage side effects.
type State struct {
	mu        sync.RWMutex
	values    url.Values
	listeners map[int]Listener
	nextID    int
}

// New creates a State from a raw query string. A leading '?' is accepted.
func New(rawQuery string) (*State, error) {
	values, err := parse(rawQuery)
	if err != nil {
		return nil, err
	}
	return &State{
		values:    values,
		listeners: make(map[int]Listener),
	}, nil
}

// FromValues creates a State from already parsed values
func FromValues(values url.Values) *State {
	return &State{
		values:    cloneValues(values),
		listeners: make(map[int]Listener),
	}
}

func parse(rawQuery string) (url.Values, error) {
	return url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
}

// Page returns the current page, defaulting to 1 when absent or invalid
func (s *State) Page() int {
	s.mu.RLock()
	raw := s.values.Get(ParamPage)
	s.mu.RUnlock()

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Details returns the selected pokemon name, or "" when nothing is selected
func (s *State) Details() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.TrimSpace(s.values.Get(ParamDetails))
}

// SetPage writes the page parameter. Page 1 is the default and is removed
// from the query instead of being written.
func (s *State) SetPage(page int) {
	s.update(func(v url.Values) {
		if page <= 1 {
			v.Del(ParamPage)
			return
		}
		v.Set(ParamPage, strconv.Itoa(page))
	})
}

// SetSelectedPokemon writes the details parameter, removing it for ""
func (s *State) SetSelectedPokemon(name string) {
	name = strings.TrimSpace(name)
	s.update(func(v url.Values) {
		if name == "" {
			v.Del(ParamDetails)
			return
		}
		v.Set(ParamDetails, name)
	})
}

// ClearParams deletes all named parameters in a single update
func (s *State) ClearParams(names ...string) {
	s.update(func(v url.Values) {
		for _, name := range names {
			v.Del(name)
		}
	})
}

// Navigate replaces the whole query, as when a link is opened or the page
// is reloaded with a different URL.
func (s *State) Navigate(rawQuery string) error {
	values, err := parse(rawQuery)
	if err != nil {
		return err
	}
	s.update(func(v url.Values) {
		for k := range v {
			delete(v, k)
		}
		for k, vs := range values {
			v[k] = vs
		}
	})
	return nil
}

// Encode returns the canonical query string without a leading '?'
func (s *State) Encode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Encode()
}

// Values returns a copy of the current query values
func (s *State) Values() url.Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.values)
}

// Subscribe registers fn to be called after each change. The returned
// function removes the subscription.
func (s *State) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn and notifies listeners when the encoded query changed
func (s *State) update(fn func(url.Values)) {
	s.mu.Lock()
	before := s.values.Encode()
	fn(s.values)
	after := s.values.Encode()

	if before == after {
		s.mu.Unlock()
		return
	}

	snapshot := cloneValues(s.values)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
