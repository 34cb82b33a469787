package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"countdown/internal/core/alarm"
	"countdown/internal/core/countdown"
	"countdown/internal/core/model"
	"countdown/internal/platform"
	"countdown/internal/storage"
	"countdown/internal/ui/panel"
	"countdown/internal/ui/tray"
	"countdown/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath    string
	minutes       int
	seconds       int
	volume        float64
	allowMultiple bool
}

func newRootCommand() *cobra.Command {
	options := &rootOptions{}

	command := &cobra.Command{
		Use:           "countdown",
		Short:         "Desktop countdown timer with a melodic alarm",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, _ []string) error {
			settings, err := loadSettings(options.configPath)
			if err != nil {
				log.Printf("config: %v", err)
			}
			settings = applyFlags(command, settings, options)
			return runApp(options, settings)
		},
	}

	flags := command.PersistentFlags()
	flags.StringVar(&options.configPath, "config", "", "path to config.yaml (default: user config dir)")

	local := command.Flags()
	local.IntVar(&options.minutes, "minutes", 0, "initial minutes (0-60)")
	local.IntVar(&options.seconds, "seconds", 0, "initial seconds (0-59)")
	local.Float64Var(&options.volume, "volume", 0, "alarm volume (0-1)")
	local.BoolVar(&options.allowMultiple, "allow-multiple", false, "do not enforce a single running instance")

	command.AddCommand(newExportAlarmCommand(), newPlayAlarmCommand())
	return command
}

func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return storage.DefaultConfigPath(appName)
}

func loadSettings(configPath string) (model.Settings, error) {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return model.DefaultSettings(), err
	}
	return storage.LoadSettings(path)
}

// applyFlags overrides settings with flags the user set explicitly.
func applyFlags(command *cobra.Command, settings model.Settings, options *rootOptions) model.Settings {
	flags := command.Flags()
	if flags.Changed("minutes") {
		settings.DefaultMinutes = options.minutes
	}
	if flags.Changed("seconds") {
		settings.DefaultSeconds = options.seconds
	}
	if flags.Changed("volume") {
		settings.Volume = options.volume
	}
	return settings.Normalize()
}

func runApp(options *rootOptions, settings model.Settings) error {
	var guard *platform.InstanceGuard
	if !options.allowMultiple {
		var err error
		guard, err = platform.AcquireSingleInstance(appName)
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if showErr := platform.RequestShow(appName); showErr == nil {
				log.Printf("%s is already running, showing its window", appName)
				return nil
			}
		}
		if err != nil {
			return fmt.Errorf("single instance: %w", err)
		}
		defer func() {
			_ = guard.Release()
		}()
	}

	fyneApp := app.NewWithID("com.countdown.app")
	idleIcon := resources.MustIcon("countdown.svg")
	runningIcon := resources.MustIcon("countdown_running.svg")
	fyneApp.SetIcon(idleIcon)

	engine := countdown.New(countdown.Config{TickInterval: settings.TickInterval})
	defer engine.Close()

	player := alarm.NewPlayer(nil)
	countdownWindow := panel.New(fyneApp, engine, player, panel.Config{
		Title:    appName,
		Settings: settings,
		OnAlarmError: func(err error) {
			log.Printf("alarm: %v", err)
		},
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, appName, settings.Presets, tray.Callbacks{
			OnShow:   countdownWindow.Show,
			OnStart:  countdownWindow.Start,
			OnStop:   countdownWindow.Stop,
			OnReset:  countdownWindow.Reset,
			OnPreset: countdownWindow.ApplyPreset,
			OnQuit:   fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(idleIcon)
		countdownWindow.Window().SetCloseIntercept(func() {
			countdownWindow.Window().Hide()
		})
	} else {
		log.Printf("system tray unsupported on this platform")
		countdownWindow.Window().SetMaster()
	}

	events := engine.Subscribe(16)
	go func() {
		for event := range events {
			fyne.Do(func() {
				countdownWindow.HandleEvent(event)
				if trayManager == nil {
					return
				}
				state := engine.Snapshot()
				trayManager.SetState(state.Remaining, state.Running)
				if desktopApp, ok := fyneApp.(desktop.App); ok {
					if state.Running {
						desktopApp.SetSystemTrayIcon(runningIcon)
					} else {
						desktopApp.SetSystemTrayIcon(idleIcon)
					}
				}
			})
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchConfig(ctx, options.configPath, countdownWindow, trayManager)

	guard.OnShow(func() {
		fyne.Do(countdownWindow.Show)
	})

	countdownWindow.Show()
	fyneApp.Run()
	return nil
}

// watchConfig applies preset and volume edits made to config.yaml while running.
func watchConfig(ctx context.Context, configPath string, countdownWindow *panel.Window, trayManager *tray.Manager) {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		log.Printf("config watch: %v", err)
		return
	}
	err = storage.Watch(ctx, path, func(settings model.Settings, err error) {
		if err != nil {
			log.Printf("config reload: %v", err)
			return
		}
		fyne.Do(func() {
			countdownWindow.SetPresets(settings.Presets)
			countdownWindow.SetVolume(settings.Volume)
			if trayManager != nil {
				trayManager.SetPresets(settings.Presets)
			}
		})
	})
	if err != nil {
		log.Printf("config watch: %v", err)
	}
}
