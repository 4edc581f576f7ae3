package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// repository hosts the release binaries used by update
const repository = "s0up4200/pokedex"

var checkLatest bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{skipInit: ""},
	RunE:        runVersion,
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:         "update",
	Short:       "Update pokedex to the latest release",
	Annotations: map[string]string{skipInit: ""},
	RunE:        runUpdate,
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "check for a newer release")
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("pokedex %s (built %s, %s/%s)\n", version, buildTime, runtime.GOOS, runtime.GOARCH)

	if !checkLatest {
		return nil
	}

	latest, newer, err := latestRelease(cmd.Context())
	if err != nil {
		return err
	}
	if newer {
		fmt.Printf("A newer release is available: %s\n", latest.Version())
	} else {
		fmt.Println("You are running the latest release.")
	}
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	latest, newer, err := latestRelease(ctx)
	if err != nil {
		return err
	}
	if !newer {
		fmt.Printf("Already up to date (%s).\n", version)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	logger.Info().Str("version", latest.Version()).Str("asset", latest.AssetName).Msg("Downloading release")
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Printf("✓ Updated to %s\n", latest.Version())
	return nil
}

// latestRelease returns the newest release and whether it is newer than
// the running version. Development builds always report an update.
func latestRelease(ctx context.Context) (*selfupdate.Release, bool, error) {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
	if err != nil {
		return nil, false, fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return nil, false, fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	current, err := semver.ParseTolerant(version)
	if err != nil {
		logger.Debug().Str("version", version).Msg("Running a development build")
		return latest, true, nil
	}

	return latest, !latest.LessOrEqual(current.String()), nil
}
