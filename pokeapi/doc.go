// Package pokeapi provides a client for the public PokéAPI REST service.
//
// The client wraps the two endpoints the catalog needs, the paginated
// pokemon list and the per-pokemon details, and converts their payloads into
// the normalized Pokemon record used everywhere else.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := pokeapi.NewClient(
//		pokeapi.DefaultBaseURL,
//		logger,
//		pokeapi.WithTimeout(10*time.Second),
//		pokeapi.WithCacheSize(512),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	list, err := client.ListPokemon(ctx, 0, 20)
//	items := pokeapi.ParseList(list)
//
// # Descriptions
//
// Detail records carry a display description of the form
//
//	Types: grass, poison | Height: 7dm | Weight: 6.9kg | Base Experience: 64 | Abilities: overgrow, chlorophyll
//
// ParseDescription splits it back into label/value pairs. New code should read
// Pokemon.Stats instead of parsing the string, and should use Pokemon.Kind
// rather than looking for ListItemHint in the description.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError with a fixed message per status.
// FetchPokemon additionally wraps a 404 in ErrPokemonNotFound, and
// ErrorMessage turns any error into a displayable string:
//
//	if _, err := pokeapi.FetchPokemon(ctx, client, name); errors.Is(err, pokeapi.ErrPokemonNotFound) {
//		// render not found
//	}
package pokeapi
