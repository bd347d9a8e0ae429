package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/studenthelper/studenthelper/internal/config"
	"github.com/studenthelper/studenthelper/internal/stubserver"
)

// NewDevServerCommand runs the bundled in-memory backend, useful for trying
// the app without a deployed server. With OPENAI_API_KEY set the AI
// endpoints answer through OpenAI; otherwise they return canned text.
func NewDevServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dev-server",
		Short: "Run a local in-memory backend for development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			configureLogging(cfg.Log)

			srv := stubserver.New(stubserver.Config{
				JWTSecret:   cfg.DevServer.JWTSecret,
				OpenAIKey:   cfg.DevServer.OpenAIKey,
				OpenAIModel: cfg.DevServer.OpenAIModel,
			})

			logrus.WithField("addr", cfg.DevServer.Addr).Info("dev server listening")
			return srv.Listen(cfg.DevServer.Addr)
		},
	}
}
