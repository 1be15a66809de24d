package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Generate and manage stories",
	}

	cmd.AddCommand(newStoryListCmd())
	cmd.AddCommand(newStoryGetCmd())
	cmd.AddCommand(newStoryGenerateCmd())
	cmd.AddCommand(newStorySaveCmd())
	cmd.AddCommand(newStoryDeleteCmd())

	return cmd
}

func newStoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <world-id>",
		Short: "List the stories of a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			worldID, err := parseID("world", args[0])
			if err != nil {
				return err
			}

			var result []Story
			if err := client.Get(fmt.Sprintf("/api/world/%d/stories", worldID), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newStoryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("story", args[0])
			if err != nil {
				return err
			}

			var result Story
			if err := client.Get(fmt.Sprintf("/api/story/%d", id), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newStoryGenerateCmd() *cobra.Command {
	var (
		theme       string
		protagonist string
		setting     string
		plot        []string
		worldID     int64
		creatureIDs []int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new story",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"theme":        theme,
				"protagonist":  protagonist,
				"setting":      setting,
				"plotElements": plot,
			}
			if worldID > 0 {
				body["worldId"] = worldID
			}
			if len(creatureIDs) > 0 {
				body["creatureIds"] = creatureIDs
			}

			var result Story
			if err := client.Post("/api/story/generate", body, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Story theme")
	cmd.Flags().StringVar(&protagonist, "protagonist", "", "Who the story follows")
	cmd.Flags().StringVar(&setting, "setting", "", "Where the story takes place")
	cmd.Flags().StringSliceVar(&plot, "plot", nil, "Plot elements to include (repeatable)")
	cmd.Flags().Int64Var(&worldID, "world", 0, "World the story is set in")
	cmd.Flags().Int64SliceVar(&creatureIDs, "creature", nil, "Creatures to feature (repeatable)")

	return cmd
}

func newStorySaveCmd() *cobra.Command {
	var worldID int64

	cmd := &cobra.Command{
		Use:   "save <id>",
		Short: "Attach a story to a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("story", args[0])
			if err != nil {
				return err
			}

			body := map[string]int64{"worldId": worldID}

			var result Story
			if err := client.Post(fmt.Sprintf("/api/story/%d/save", id), body, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&worldID, "world", 0, "World to attach the story to")
	_ = cmd.MarkFlagRequired("world")

	return cmd
}

func newStoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("story", args[0])
			if err != nil {
				return err
			}

			if err := client.Delete(fmt.Sprintf("/api/story/%d", id)); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).PrintMessage(fmt.Sprintf("Deleted story %d", id))
			return nil
		},
	}
}
