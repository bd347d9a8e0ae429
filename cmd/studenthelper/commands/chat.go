package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studenthelper/studenthelper/internal/models"
	"github.com/studenthelper/studenthelper/internal/screens"
)

// NewChatCommand opens the AI tutor as an interactive prompt.
func NewChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the AI tutor",
		Long: `Chat with the AI tutor. Commands inside the prompt:
  /new              start a new conversation
  /threads          list saved conversations
  /switch <n>       switch to conversation n
  /image <path>     attach an image to the next message
  /quit             leave the chat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			chat := screens.NewChat(a.client)
			if err := chat.LoadHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Loaded %d saved conversations. Send a message!\n", len(chat.Threads()))

			var pendingImage string
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())

				switch {
				case line == "/quit":
					return nil
				case line == "/new":
					t := chat.NewThread()
					fmt.Printf("Started %q.\n", t.Title)
					continue
				case line == "/threads":
					printThreads(chat)
					continue
				case strings.HasPrefix(line, "/switch "):
					switchThread(chat, strings.TrimSpace(strings.TrimPrefix(line, "/switch ")))
					continue
				case strings.HasPrefix(line, "/image "):
					path := strings.TrimSpace(strings.TrimPrefix(line, "/image "))
					img, err := screens.EncodeImageFile(path)
					if err != nil {
						fmt.Println("Error:", err)
						continue
					}
					pendingImage = img
					fmt.Println("Image attached to your next message.")
					continue
				}

				reply, err := chat.Send(cmd.Context(), line, pendingImage)
				pendingImage = ""
				if err != nil {
					fmt.Println("Error:", err)
					continue
				}
				if reply != nil {
					fmt.Println(reply.Content)
				}
			}
		},
	}
}

func printThreads(chat *screens.Chat) {
	threads := chat.Threads()
	if len(threads) == 0 {
		fmt.Println("No saved conversations.")
		return
	}
	current := chat.Current()
	for i, t := range threads {
		marker := " "
		if current != nil && t.ID == current.ID {
			marker = "*"
		}
		fmt.Printf("%s %2d. %s (%s, %d messages)\n", marker, i+1, t.Title, t.Date, len(t.Messages))
	}
}

func switchThread(chat *screens.Chat, arg string) {
	threads := chat.Threads()
	var idx int
	if _, err := fmt.Sscanf(arg, "%d", &idx); err != nil || idx < 1 || idx > len(threads) {
		fmt.Println("Pick a conversation number from /threads.")
		return
	}
	if err := chat.SelectThread(threads[idx-1].ID); err != nil {
		fmt.Println("Error:", err)
		return
	}
	printTranscript(threads[idx-1])
}

func printTranscript(t *models.ChatThread) {
	for _, msg := range t.Messages {
		prefix := "AI"
		if msg.Role == models.RoleUser {
			prefix = "You"
		}
		suffix := ""
		if msg.Status == models.StatusFailed {
			suffix = " [failed]"
		}
		fmt.Printf("%s: %s%s\n", prefix, msg.Content, suffix)
	}
}
