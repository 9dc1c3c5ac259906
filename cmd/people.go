package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/kaleidoid/internal/config"
	"github.com/kozaktomas/kaleidoid/internal/database"
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Manage enrolled people",
}

var peopleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled people",
	Long: `Lists all active people with their photo counts.

Examples:
  # List everyone
  kaleidoid people list

  # Search by name (diacritics are ignored)
  kaleidoid people list --search novak`,
	RunE: runPeopleList,
}

var peopleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new person",
	Long: `Adds a person to the database. Photos are enrolled separately
with the enroll command.

Example:
  kaleidoid people add --first Jan --last Novák --notes "office 2B"`,
	RunE: runPeopleAdd,
}

func init() {
	rootCmd.AddCommand(peopleCmd)
	peopleCmd.AddCommand(peopleListCmd)
	peopleCmd.AddCommand(peopleAddCmd)

	peopleListCmd.Flags().String("search", "", "Filter people by name")

	peopleAddCmd.Flags().String("first", "", "First name")
	peopleAddCmd.Flags().String("last", "", "Last name")
	peopleAddCmd.Flags().String("notes", "", "Free-form notes")
}

func runPeopleList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := connectStorage(cfg, false); err != nil {
		return err
	}

	ctx := context.Background()
	people, err := database.GetPersonWriter(ctx)
	if err != nil {
		return err
	}
	photos, err := database.GetPhotoWriter(ctx)
	if err != nil {
		return err
	}

	term := mustGetString(cmd, "search")
	var list []database.Person
	if term != "" {
		list, err = people.SearchPeople(ctx, term)
	} else {
		list, err = people.ListPeople(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list people: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No people found")
		return nil
	}

	for _, p := range list {
		personPhotos, err := photos.ListPhotos(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("failed to list photos for person %d: %w", p.ID, err)
		}
		vectors := 0
		for _, photo := range personPhotos {
			if photo.HasVector {
				vectors++
			}
		}
		fmt.Printf("%4d  %-30s  %d photo(s), %d vector(s)\n",
			p.ID, p.DisplayName(), len(personPhotos), vectors)
	}
	fmt.Printf("\nTotal: %d\n", len(list))
	return nil
}

func runPeopleAdd(cmd *cobra.Command, args []string) error {
	first := mustGetString(cmd, "first")
	last := mustGetString(cmd, "last")
	if first == "" && last == "" {
		return fmt.Errorf("at least one of --first and --last is required")
	}

	cfg := config.Load()
	if err := connectStorage(cfg, false); err != nil {
		return err
	}

	ctx := context.Background()
	people, err := database.GetPersonWriter(ctx)
	if err != nil {
		return err
	}

	person := &database.Person{
		FirstName: first,
		LastName:  last,
		Notes:     mustGetString(cmd, "notes"),
	}
	id, err := people.AddPerson(ctx, person)
	if err != nil {
		return fmt.Errorf("failed to add person: %w", err)
	}

	fmt.Printf("Added person %d (%s)\n", id, person.DisplayName())
	return nil
}
