package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/pokedex/registration"
)

var (
	regSubmission registration.Submission
	regImagePath  string
	regSource     string
	countryLimit  int
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Validate and record a registration form",
	RunE:  runRegister,
}

var registerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded registrations, newest first",
	RunE:  runRegisterList,
}

var countriesCmd = &cobra.Command{
	Use:   "countries [prefix]",
	Short: "Autocomplete country names",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCountries,
}

func init() {
	f := registerCmd.Flags()
	f.StringVar(&regSubmission.Name, "name", "", "name, starting with an uppercase letter")
	f.IntVar(&regSubmission.Age, "age", 0, "age")
	f.StringVar(&regSubmission.Email, "email", "", "email address")
	f.StringVar(&regSubmission.Password, "password", "", "password")
	f.StringVar(&regSubmission.ConfirmPassword, "confirm-password", "", "password confirmation")
	f.StringVar(&regSubmission.Gender, "gender", "", "male, female or other")
	f.BoolVar(&regSubmission.AcceptTerms, "accept-terms", false, "accept the terms and conditions")
	f.StringVar(&regSubmission.Country, "country", "", "country")
	f.StringVar(&regImagePath, "image", "", "path to a PNG or JPEG picture")
	f.StringVar(&regSource, "source", string(registration.SourceControlled), "form that produced the submission (controlled or uncontrolled)")

	countriesCmd.Flags().IntVarP(&countryLimit, "limit", "n", 10, "maximum number of suggestions")

	registerCmd.AddCommand(registerListCmd)
	registerCmd.AddCommand(countriesCmd)
}

func openSubmissionLog() (*registration.Log, *registration.Persister) {
	log := registration.LoadLog(store)
	persister := registration.NewPersister(log, store, cfg.Registration.PersistDelay, logger)
	return log, persister
}

func runRegister(cmd *cobra.Command, args []string) error {
	sub := regSubmission
	sub.Source = registration.Source(regSource)

	if regImagePath != "" {
		data, err := os.ReadFile(regImagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		sub.Image = registration.EncodeImage(data)
	}

	countries := registration.NewCountries(registration.DefaultCountries)
	validator := registration.NewValidator(countries, cfg.Registration.MaxImageSize)

	if errs := validator.Validate(sub); len(errs) > 0 {
		fmt.Println("Registration is invalid:")
		for _, field := range slices.Sorted(maps.Keys(errs)) {
			fmt.Printf("  • %s: %s\n", field, errs[field])
		}
		if _, bad := errs["country"]; bad && sub.Country != "" {
			if suggestion, ok := countries.Suggest(sub.Country); ok {
				fmt.Printf("\nDid you mean %q?\n", suggestion)
			}
		}
		return fmt.Errorf("%d field(s) failed validation", len(errs))
	}

	log, persister := openSubmissionLog()
	defer persister.Flush()

	stored := log.Add(sub)
	strength := registration.PasswordStrength(sub.Password)

	fmt.Printf("✓ Registered %s (%s)\n", stored.Name, stored.ID)
	fmt.Printf("  Password strength: %s (%d/4)\n", registration.StrengthLabel(strength), strength)
	fmt.Printf("  Total registrations: %d\n", log.Len())
	return nil
}

func runRegisterList(cmd *cobra.Command, args []string) error {
	log := registration.LoadLog(store)
	entries := log.List()
	if len(entries) == 0 {
		fmt.Println("No registrations recorded.")
		return nil
	}

	fmt.Printf("\n%d registrations:\n", len(entries))
	fmt.Println(strings.Repeat("-", 60))
	for _, s := range entries {
		fmt.Printf("• %s, %d, %s (%s)\n", s.Name, s.Age, s.Country, s.Email)
		fmt.Printf("  %s via %s form, %s\n", s.CreatedAt.Format("2006-01-02 15:04"), s.Source, s.ID)
	}
	return nil
}

func runCountries(cmd *cobra.Command, args []string) error {
	countries := registration.NewCountries(registration.DefaultCountries)

	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	matches := countries.Autocomplete(prefix, countryLimit)
	if len(matches) == 0 {
		if suggestion, ok := countries.Suggest(prefix); ok {
			fmt.Printf("No match. Did you mean %q?\n", suggestion)
			return nil
		}
		fmt.Println("No match.")
		return nil
	}

	for _, c := range matches {
		fmt.Println(c)
	}
	return nil
}
