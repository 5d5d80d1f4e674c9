package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dlfx/config"
	telegram "dlfx/internal/api"
	"dlfx/internal/container"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var c *container.Container

	root := &cobra.Command{
		Use:           "dlfx",
		Short:         "Utilities for preparing and inspecting medical images for vision-language models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			*c = *container.NewDefault(cfg)
			return nil
		},
	}
	c = &container.Container{}

	root.AddCommand(
		newNormalizeCmd(c),
		newInspectCmd(c),
		newTagsCmd(c),
		newGridCmd(c),
		newDisplayCmd(c),
		newBatchesCmd(c),
		newAccuracyCmd(),
		newStampCmd(),
		newPromptCmd(c),
		newBotCmd(c),
	)
	return root
}

func newBotCmd(c *container.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram preview bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.TelegramToken == "" {
				return errors.New("TELEGRAM_TOKEN is required")
			}

			// Создаём бота
			bot, err := telegram.NewBot(c.Config.TelegramToken, c.UserService, c.PreviewService)
			if err != nil {
				return err
			}

			log.Println("Bot is running...")
			if err := bot.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
