package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"countdown/internal/core/alarm"

	"github.com/spf13/cobra"
)

func newExportAlarmCommand() *cobra.Command {
	var volume float64
	command := &cobra.Command{
		Use:   "export-alarm <file.wav>",
		Short: "Write the alarm melody to a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			volume = resolveVolume(command, volume)
			file, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			if err := alarm.NewPlayer(nil).Export(file, volume); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close %s: %w", args[0], err)
			}
			fmt.Fprintf(command.OutOrStdout(), "wrote %s (%s)\n", args[0], alarm.Length(alarm.Schedule(volume)))
			return nil
		},
	}
	command.Flags().Float64Var(&volume, "volume", 0, "alarm volume (0-1), default from config")
	return command
}

func newPlayAlarmCommand() *cobra.Command {
	var volume float64
	command := &cobra.Command{
		Use:   "play-alarm",
		Short: "Play the alarm melody once through the speaker",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			volume = resolveVolume(command, volume)
			ctx, cancel := context.WithTimeout(command.Context(), 5*time.Second)
			defer cancel()
			return alarm.NewPlayer(nil).PlayAndWait(ctx, volume)
		},
	}
	command.Flags().Float64Var(&volume, "volume", 0, "alarm volume (0-1), default from config")
	return command
}

// resolveVolume prefers the --volume flag and falls back to the configured volume.
func resolveVolume(command *cobra.Command, volume float64) float64 {
	if command.Flags().Changed("volume") {
		return volume
	}
	configPath, err := command.Flags().GetString("config")
	if err != nil {
		log.Printf("config: %v", err)
	}
	settings, err := loadSettings(configPath)
	if err != nil {
		log.Printf("config: %v", err)
	}
	return settings.Volume
}
