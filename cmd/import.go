package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/kaleidoid/internal/config"
	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/database/mariadb"
	"github.com/kozaktomas/kaleidoid/internal/recognizer"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import people from a PhotoPrism instance",
	Long: `Reads person subjects directly from a PhotoPrism MariaDB database
and creates matching people here. Subjects whose name already exists
(ignoring case and diacritics) are skipped.

Requires PHOTOPRISM_DATABASE_URL, e.g.
  photoprism:photoprism@tcp(mariadb:3306)/photoprism

Examples:
  # Preview what would be imported
  kaleidoid import --dry-run

  # Import everyone
  kaleidoid import`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("dry-run", false, "List subjects without creating people")
}

// splitSubjectName splits a PhotoPrism subject name ("Jan Novák") into
// first and last name. A single word becomes the last name.
func splitSubjectName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun := mustGetBool(cmd, "dry-run")

	cfg := config.Load()
	if cfg.PhotoPrism.DatabaseURL == "" {
		return fmt.Errorf("PHOTOPRISM_DATABASE_URL environment variable is required")
	}

	fmt.Println("Connecting to PhotoPrism database...")
	pp, err := mariadb.NewPool(cfg.PhotoPrism.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PhotoPrism database: %w", err)
	}
	defer pp.Close()

	ctx := context.Background()
	subjects, err := pp.ListSubjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subjects: %w", err)
	}
	if len(subjects) == 0 {
		fmt.Println("No person subjects found")
		return nil
	}
	fmt.Printf("Found %d person subject(s)\n", len(subjects))

	if err := connectStorage(cfg, false); err != nil {
		return err
	}
	people, err := database.GetPersonWriter(ctx)
	if err != nil {
		return err
	}

	existing, err := people.ListPeople(ctx)
	if err != nil {
		return fmt.Errorf("failed to list people: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[recognizer.NormalizePersonName(p.DisplayName())] = true
	}

	imported, skipped := 0, 0
	for _, subject := range subjects {
		if strings.TrimSpace(subject.Name) == "" {
			skipped++
			continue
		}

		first, last := splitSubjectName(subject.Name)
		candidate := database.Person{FirstName: first, LastName: last}
		if known[recognizer.NormalizePersonName(candidate.DisplayName())] {
			fmt.Printf("  skip %s (already exists)\n", subject.Name)
			skipped++
			continue
		}

		if dryRun {
			fmt.Printf("  would import %s (%d photo(s) in PhotoPrism)\n", subject.Name, subject.PhotoCount)
			imported++
			continue
		}

		person := &database.Person{
			FirstName: first,
			LastName:  last,
			Notes:     fmt.Sprintf("imported from PhotoPrism subject %s", subject.UID),
		}
		id, err := people.AddPerson(ctx, person)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", subject.Name, err)
		}
		known[recognizer.NormalizePersonName(person.DisplayName())] = true
		fmt.Printf("  imported %s as person %d\n", subject.Name, id)
		imported++
	}

	if dryRun {
		fmt.Printf("\nDry run: %d subject(s) would be imported, %d skipped\n", imported, skipped)
	} else {
		fmt.Printf("\nImported %d subject(s), skipped %d\n", imported, skipped)
		fmt.Println("Enroll photos for the new people with: kaleidoid enroll")
	}
	return nil
}
