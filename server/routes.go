package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/s0up4200/pokedex/catalog"
	"github.com/s0up4200/pokedex/export"
	"github.com/s0up4200/pokedex/pokeapi"
	"github.com/s0up4200/pokedex/registration"
	"github.com/s0up4200/pokedex/urlstate"
)

const maxBodySize = 4 << 20

// catalogResponse is a coordinator view plus the canonical query of the
// state it was built from
type catalogResponse struct {
	View    catalog.View      `json:"view"`
	Query   string            `json:"query"`
	Filter  string            `json:"filter,omitempty"`
	Matches []pokeapi.Pokemon `json:"matches,omitempty"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// newCoordinator builds a request-scoped coordinator over the page and
// details parameters of the request
func (s *Server) newCoordinator(r *http.Request) *catalog.Coordinator {
	q := r.URL.Query()
	values := url.Values{}
	for _, key := range []string{urlstate.ParamPage, urlstate.ParamDetails} {
		if v := q.Get(key); v != "" {
			values[key] = []string{v}
		}
	}

	return catalog.New(s.deps.API, urlstate.FromValues(values), s.logger, catalog.Options{
		SpriteTemplate:    s.deps.SpriteTemplate,
		EnrichConcurrency: s.deps.EnrichConcurrency,
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.newCoordinator(r)
	defer c.Close()

	c.Sync(r.Context())

	resp := catalogResponse{View: c.View(), Query: c.URL().Encode()}

	if expression := strings.TrimSpace(r.URL.Query().Get("filter")); expression != "" && s.deps.Filters != nil {
		f, err := s.deps.Filters.Resolve(expression)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, err := c.Enrich(r.Context(), resp.View.Results)
		if err != nil {
			writeError(w, http.StatusGatewayTimeout, err.Error())
			return
		}

		matches, err := s.deps.Filters.Apply(r.Context(), expression, items)
		if err != nil {
			writeError(w, http.StatusGatewayTimeout, err.Error())
			return
		}
		resp.Filter = f.Expression()
		resp.Matches = matches
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	c := s.newCoordinator(r)
	defer c.Close()

	c.SearchPokemon(r.Context(), r.URL.Query().Get("q"))

	writeJSON(w, http.StatusOK, catalogResponse{View: c.View(), Query: c.URL().Encode()})
}

func (s *Server) handlePokemon(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	p, err := pokeapi.FetchPokemon(r.Context(), s.deps.API, name)
	if err != nil {
		writeError(w, statusFor(err), pokeapi.ErrorMessage(err, name))
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	if s.deps.Filters != nil {
		names = s.deps.Filters.ListFilters()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"filters": names})
}

type exportRequest struct {
	IDs []int `json:"ids"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.deps.Exporter.Export(r.Context(), export.IDs(req.IDs))
	if err != nil {
		if errors.Is(err, export.ErrNoIDs) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Warn().Err(err).Ints("ids", req.IDs).Msg("Export failed")
		writeError(w, statusFor(err), pokeapi.ErrorMessage(err, ""))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="pokemon.csv"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, out)
}

type countriesResponse struct {
	Countries  []string `json:"countries"`
	Suggestion string   `json:"suggestion,omitempty"`
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		limit = 10
	}

	resp := countriesResponse{Countries: s.deps.Countries.Autocomplete(q, limit)}
	if len(resp.Countries) == 0 {
		resp.Suggestion, _ = s.deps.Countries.Suggest(q)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Submissions.List())
}

func (s *Server) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	var sub registration.Submission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if sub.Source == "" {
		sub.Source = registration.SourceControlled
	}

	if errs := s.deps.Validator.Validate(sub); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: errs})
		return
	}

	stored := s.deps.Submissions.Add(sub)
	s.logger.Info().Str("id", stored.ID.String()).Str("source", string(stored.Source)).Msg("Registration stored")

	writeJSON(w, http.StatusCreated, stored)
}

func statusFor(err error) int {
	switch {
	case pokeapi.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, pokeapi.ErrEmptyName):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
