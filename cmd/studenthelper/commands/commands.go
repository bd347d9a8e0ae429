// Package commands wires the screens of the student-helper app into a CLI:
// one command per screen, each building the session context and API client
// and driving the screen controller.
package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/studenthelper/studenthelper/internal/api"
	"github.com/studenthelper/studenthelper/internal/config"
	"github.com/studenthelper/studenthelper/internal/session"
	"github.com/studenthelper/studenthelper/internal/storage"
)

// ErrNotSignedIn is returned by authenticated commands without a session.
var ErrNotSignedIn = errors.New("not signed in, run `studenthelper login` first")

// NewRootCommand builds the CLI.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "studenthelper",
		Short:         "AI study companion: tutor chat, exam analysis, practice tests and a school calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewLoginCommand(),
		NewRegisterCommand(),
		NewLogoutCommand(),
		NewHomeCommand(),
		NewChatCommand(),
		NewAnalyzeCommand(),
		NewQuizCommand(),
		NewCalendarCommand(),
		NewProfileCommand(),
		NewDevServerCommand(),
		NewVersionCommand(),
	)
	return root
}

// NewVersionCommand reports the CLI version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the studenthelper version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("studenthelper v1.0.0")
		},
	}
}

// app bundles everything a screen command needs.
type app struct {
	cfg     *config.Config
	session *session.Session
	client  *api.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	configureLogging(cfg.Log)

	store, err := storage.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}

	sess := session.New(store)
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sess)

	return &app{cfg: cfg, session: sess, client: client}, nil
}

// newAuthedApp additionally requires a stored session token.
func newAuthedApp() (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if !a.session.Authenticated() {
		return nil, ErrNotSignedIn
	}
	if a.session.Expired() {
		logrus.Warn("stored session token looks expired; the backend may reject requests")
	}
	return a, nil
}

func configureLogging(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirmPrompt asks a yes/no question on stdin.
func confirmPrompt(question string) bool {
	answer, err := promptLine(question + " [y/N] ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
