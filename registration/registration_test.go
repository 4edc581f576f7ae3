package registration

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/pokedex/storage"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	gifHeader = []byte("GIF89a\x01\x00\x01\x00")
)

func validSubmission() Submission {
	return Submission{
		Name:            "Ash",
		Age:             10,
		Email:           "ash@pallet.town",
		Password:        "Pikachu#1",
		ConfirmPassword: "Pikachu#1",
		Gender:          GenderMale,
		AcceptTerms:     true,
		Country:         "Japan",
		Image:           EncodeImage(pngHeader),
		Source:          SourceControlled,
	}
}

func TestValidate(t *testing.T) {
	v := NewValidator(NewCountries(DefaultCountries), 0)

	tests := []struct {
		name   string
		modify func(*Submission)
		field  string
	}{
		{"valid", func(*Submission) {}, ""},
		{"lowercase name", func(s *Submission) { s.Name = "ash" }, "name"},
		{"empty name", func(s *Submission) { s.Name = " " }, "name"},
		{"zero age", func(s *Submission) { s.Age = 0 }, "age"},
		{"too old", func(s *Submission) { s.Age = 151 }, "age"},
		{"bad email", func(s *Submission) { s.Email = "ash-at-pallet" }, "email"},
		{"display name email", func(s *Submission) { s.Email = "Ash <ash@pallet.town>" }, "email"},
		{"short password", func(s *Submission) { s.Password, s.ConfirmPassword = "Pk#1", "Pk#1" }, "password"},
		{"no digit", func(s *Submission) { s.Password, s.ConfirmPassword = "Pikachu#!", "Pikachu#!" }, "password"},
		{"no special", func(s *Submission) { s.Password, s.ConfirmPassword = "Pikachu12", "Pikachu12" }, "password"},
		{"mismatch", func(s *Submission) { s.ConfirmPassword = "Pikachu#2" }, "confirmPassword"},
		{"bad gender", func(s *Submission) { s.Gender = "robot" }, "gender"},
		{"terms", func(s *Submission) { s.AcceptTerms = false }, "acceptTerms"},
		{"unknown country", func(s *Submission) { s.Country = "Kanto" }, "country"},
		{"country case", func(s *Submission) { s.Country = "japan" }, ""},
		{"missing image", func(s *Submission) { s.Image = "" }, "image"},
		{"gif image", func(s *Submission) { s.Image = EncodeImage(gifHeader) }, "image"},
		{"not a data url", func(s *Submission) { s.Image = "https://img.test/a.png" }, "image"},
		{"empty email", func(s *Submission) { s.Email = "" }, "email"},
		{"empty gender", func(s *Submission) { s.Gender = "" }, "gender"},
		{"empty country", func(s *Submission) { s.Country = "" }, "country"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.modify(&s)

			errs := v.Validate(s)
			if tt.field == "" {
				assert.Empty(t, errs)
				assert.NoError(t, errs.Err())
				return
			}
			assert.Contains(t, errs, tt.field)
			assert.Len(t, errs, 1, "only %s should fail: %v", tt.field, errs)
			assert.Error(t, errs.Err())
		})
	}
}

func TestValidateMessages(t *testing.T) {
	v := NewValidator(NewCountries(DefaultCountries), 0)

	tests := []struct {
		name     string
		modify   func(*Submission)
		field    string
		expected string
	}{
		{"blank name", func(s *Submission) { s.Name = "  " }, "name", "Name is required"},
		{"lowercase name", func(s *Submission) { s.Name = "misty" }, "name", "Name must start with an uppercase letter"},
		{"negative age", func(s *Submission) { s.Age = -3 }, "age", "Age must be a positive number"},
		{"too old", func(s *Submission) { s.Age = 200 }, "age", "Age must be at most 150"},
		{"missing password", func(s *Submission) { s.Password, s.ConfirmPassword = "", "" }, "password", "Password is required"},
		{"no uppercase", func(s *Submission) { s.Password, s.ConfirmPassword = "pikachu#1", "pikachu#1" }, "password", "Password must contain an uppercase letter"},
		{"mismatch", func(s *Submission) { s.ConfirmPassword = "other" }, "confirmPassword", "Passwords must match"},
		{"robot", func(s *Submission) { s.Gender = "robot" }, "gender", "Invalid gender"},
		{"terms", func(s *Submission) { s.AcceptTerms = false }, "acceptTerms", "You must accept the terms and conditions"},
		{"kanto", func(s *Submission) { s.Country = "Kanto" }, "country", "Unknown country"},
		{"gif", func(s *Submission) { s.Image = EncodeImage(gifHeader) }, "image", "Image must be PNG or JPEG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.modify(&s)
			assert.Equal(t, tt.expected, v.Validate(s)[tt.field])
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	v := NewValidator(NewCountries(DefaultCountries), 0)

	errs := v.Validate(Submission{})
	for _, field := range []string{"name", "age", "email", "password", "gender", "acceptTerms", "country", "image"} {
		assert.Contains(t, errs, field)
	}
	assert.NotContains(t, errs, "confirmPassword", "empty passwords match")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		password string
		expected charClasses
	}{
		{"", charClasses{}},
		{"abc", charClasses{lower: true}},
		{"ABC123", charClasses{upper: true, digit: true}},
		{"Pikachu#1", charClasses{digit: true, upper: true, lower: true, special: true}},
		{"!?", charClasses{special: true}},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.expected, classify(tt.password))
		})
	}
}

func TestValidateImageSize(t *testing.T) {
	v := NewValidator(nil, 16)

	s := validSubmission()
	s.Image = EncodeImage(append(pngHeader, make([]byte, 32)...))

	errs := v.Validate(s)
	assert.Contains(t, errs["image"], "at most")
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{"name": "Name is required", "age": "Age must be a positive number"}
	assert.Equal(t, "validation failed: age: Age must be a positive number; name: Name is required", errs.Error())
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     int
	}{
		{"", 0},
		{"abc", 0},
		{"abcdefgh", 1},
		{"Abcdefgh", 2},
		{"Abcdefg1", 3},
		{"Abcdef1!", 4},
		{"a1!", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PasswordStrength(tt.password), tt.password)
	}
	assert.Equal(t, "weak", StrengthLabel(0))
	assert.Equal(t, "strong", StrengthLabel(4))
}

func TestCountriesAutocomplete(t *testing.T) {
	c := NewCountries(DefaultCountries)

	assert.Equal(t, []string{"Serbia", "Singapore", "Slovakia", "Slovenia", "South Africa", "South Korea", "Spain", "Sweden", "Switzerland"}, c.Autocomplete("s", 0))
	assert.Equal(t, []string{"Slovakia", "Slovenia"}, c.Autocomplete("SLOV", 5))
	assert.Len(t, c.Autocomplete("", 3), 3)
	assert.Empty(t, c.Autocomplete("xyz", 3))
}

func TestCountriesSuggest(t *testing.T) {
	c := NewCountries(DefaultCountries)

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"Germny", "Germany", true},
		{"japna", "Japan", true},
		{"Swedn", "Sweden", true},
		{"", "", false},
		{"qqqqqqqqqq", "", false},
	}
	for _, tt := range tests {
		got, ok := c.Suggest(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestLog(t *testing.T) {
	l := NewLog(nil)

	_, ok := l.Latest()
	assert.False(t, ok)

	first := l.Add(validSubmission())
	second := validSubmission()
	second.Name = "Misty"
	second = l.Add(second)

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Empty(t, first.Password)
	assert.Empty(t, first.ConfirmPassword)

	list := l.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Misty", list[0].Name)

	latest, ok := l.Latest()
	require.True(t, ok)
	assert.Equal(t, second.ID, latest.ID)
}

// countingBackend counts saves of the wrapped backend
type countingBackend struct {
	*storage.Memory
	saves atomic.Int32
}

func (c *countingBackend) Save(key, value string) error {
	c.saves.Add(1)
	return c.Memory.Save(key, value)
}

func TestPersisterDebounces(t *testing.T) {
	backend := &countingBackend{Memory: storage.NewMemory()}
	store := storage.NewLocal(backend, zerolog.Nop())

	l := NewLog(nil)
	NewPersister(l, store, 50*time.Millisecond, zerolog.Nop())

	for range 3 {
		l.Add(validSubmission())
	}
	assert.Equal(t, int32(0), backend.saves.Load())

	require.Eventually(t, func() bool { return backend.saves.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), backend.saves.Load())

	restored := LoadLog(store)
	assert.Equal(t, 3, restored.Len())
}

func TestPersisterFlush(t *testing.T) {
	backend := &countingBackend{Memory: storage.NewMemory()}
	store := storage.NewLocal(backend, zerolog.Nop())

	l := NewLog(nil)
	p := NewPersister(l, store, time.Hour, zerolog.Nop())

	p.Flush()
	assert.Equal(t, int32(0), backend.saves.Load(), "nothing pending")

	s := l.Add(validSubmission())
	p.Flush()
	assert.Equal(t, int32(1), backend.saves.Load())

	raw, ok, err := backend.Load(KeySubmissions)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.Contains(raw, s.ID.String()))
	assert.NotContains(t, raw, "Pikachu#1")
}
