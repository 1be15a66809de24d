package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creature",
		Short: "Generate and manage creatures",
	}

	cmd.AddCommand(newCreatureListCmd())
	cmd.AddCommand(newCreatureGetCmd())
	cmd.AddCommand(newCreatureGenerateCmd())
	cmd.AddCommand(newCreatureSaveCmd())
	cmd.AddCommand(newCreatureDeleteCmd())

	return cmd
}

func newCreatureListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <world-id>",
		Short: "List the creatures of a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			worldID, err := parseID("world", args[0])
			if err != nil {
				return err
			}

			var result []Creature
			if err := client.Get(fmt.Sprintf("/api/world/%d/creatures", worldID), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newCreatureGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a creature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("creature", args[0])
			if err != nil {
				return err
			}

			var result Creature
			if err := client.Get(fmt.Sprintf("/api/creature/%d", id), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newCreatureGenerateCmd() *cobra.Command {
	var (
		description  string
		creatureType string
		power        int
		intelligence int
		worldID      int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new creature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"description":  description,
				"type":         creatureType,
				"powerLevel":   power,
				"intelligence": intelligence,
			}
			if worldID > 0 {
				body["worldId"] = worldID
			}

			var result Creature
			if err := client.Post("/api/creature/generate", body, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "What the creature should be like")
	cmd.Flags().StringVarP(&creatureType, "type", "t", "", "Creature type, e.g. dragon or spirit")
	cmd.Flags().IntVar(&power, "power", 5, "Power level (1-10)")
	cmd.Flags().IntVar(&intelligence, "intelligence", 5, "Intelligence (1-10)")
	cmd.Flags().Int64Var(&worldID, "world", 0, "World the creature lives in")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newCreatureSaveCmd() *cobra.Command {
	var worldID int64

	cmd := &cobra.Command{
		Use:   "save <id>",
		Short: "Attach a creature to a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("creature", args[0])
			if err != nil {
				return err
			}

			body := map[string]int64{"worldId": worldID}

			var result Creature
			if err := client.Post(fmt.Sprintf("/api/creature/%d/save", id), body, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&worldID, "world", 0, "World to attach the creature to")
	_ = cmd.MarkFlagRequired("world")

	return cmd
}

func newCreatureDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a creature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("creature", args[0])
			if err != nil {
				return err
			}

			if err := client.Delete(fmt.Sprintf("/api/creature/%d", id)); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).PrintMessage(fmt.Sprintf("Deleted creature %d", id))
			return nil
		},
	}
}
