package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shi-home/smart-dashboard/internal/config"
)

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a dashboard configuration in place",
	}
	cmd.AddCommand(
		moveCardCmd(),
		hideRoomCmd(),
		showRoomCmd(),
		addShortcutCmd(),
	)
	return cmd
}

// withConfig loads a configuration, applies an edit, and saves it back.
// The save is atomic, so an interrupted edit never corrupts the file.
func withConfig(path string, edit func(*config.Config) error) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := edit(cfg); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	return nil
}

func moveCardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move-card [config-file] [room] [from] [to]",
		Short: "Move a card to a new position within a room",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("from index %q is not a number", args[2])
			}
			to, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("to index %q is not a number", args[3])
			}
			return withConfig(args[0], func(cfg *config.Config) error {
				return cfg.MoveCard(args[1], from, to)
			})
		},
	}
}

func hideRoomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hide-room [config-file] [room]",
		Short: "Hide a room from the generated dashboard",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(args[0], func(cfg *config.Config) error {
				return cfg.SetRoomHidden(args[1], true)
			})
		},
	}
}

func showRoomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-room [config-file] [room]",
		Short: "Make a hidden room visible again",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(args[0], func(cfg *config.Config) error {
				return cfg.SetRoomHidden(args[1], false)
			})
		},
	}
}

func addShortcutCmd() *cobra.Command {
	var icon string

	cmd := &cobra.Command{
		Use:   "add-shortcut [config-file] [name] [view]",
		Short: "Add a sidebar shortcut to a view",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(args[0], func(cfg *config.Config) error {
				cfg.AddShortcut(args[1], icon, args[2])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "icon for the shortcut")
	return cmd
}
