package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newWorldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "world",
		Short: "Generate and manage worlds",
	}

	cmd.AddCommand(newWorldListCmd())
	cmd.AddCommand(newWorldMineCmd())
	cmd.AddCommand(newWorldGetCmd())
	cmd.AddCommand(newWorldGenerateCmd())
	cmd.AddCommand(newWorldSaveCmd())
	cmd.AddCommand(newWorldFeatureCmd())
	cmd.AddCommand(newWorldDeleteCmd())

	return cmd
}

func newWorldListCmd() *cobra.Command {
	var featured string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List worlds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/worlds"
			if featured != "" {
				if _, err := strconv.ParseBool(featured); err != nil {
					return fmt.Errorf("invalid --featured value %q", featured)
				}
				path += "?" + url.Values{"featured": {featured}}.Encode()
			}

			var result []World
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&featured, "featured", "", "Filter by featured flag: true or false")

	return cmd
}

func newWorldMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List my worlds (every world while accounts are stubbed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []World
			if err := client.Get("/api/worlds/my-worlds", &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newWorldGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("world", args[0])
			if err != nil {
				return err
			}

			var result World
			if err := client.Get(fmt.Sprintf("/api/world/%d", id), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newWorldGenerateCmd() *cobra.Command {
	var description, worldType, magicSystem string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new world",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"description": description,
				"type":        worldType,
				"magicSystem": magicSystem,
			}

			var result World
			if err := client.Post("/api/world/generate", body, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "What the world should be like")
	cmd.Flags().StringVarP(&worldType, "type", "t", "", "World type, e.g. fantasy or steampunk")
	cmd.Flags().StringVarP(&magicSystem, "magic-system", "m", "", "How magic works")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newWorldSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <id>",
		Short: "Save a world to the demo owner's collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("world", args[0])
			if err != nil {
				return err
			}

			var result World
			if err := client.Post(fmt.Sprintf("/api/world/%d/save", id), nil, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newWorldFeatureCmd() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "feature <id>",
		Short: "Feature a world on the landing page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("world", args[0])
			if err != nil {
				return err
			}

			body := map[string]bool{"featured": !off}

			var result World
			if err := client.Post(fmt.Sprintf("/api/world/%d/feature", id), body, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Remove the featured flag instead")

	return cmd
}

func newWorldDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("world", args[0])
			if err != nil {
				return err
			}

			if err := client.Delete(fmt.Sprintf("/api/world/%d", id)); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).PrintMessage(fmt.Sprintf("Deleted world %d", id))
			return nil
		},
	}
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}
