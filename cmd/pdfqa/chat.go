package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pdfqa/internal/client"
)

func newChatCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <file.pdf>",
		Short: "Upload a PDF and ask questions interactively",
		Long:  "Upload a PDF, then read questions line by line. Type :upload <file> to switch documents and :quit to exit.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv := client.NewConversation(newClient(v))
			out := cmd.OutOrStdout()

			if err := uploadFile(cmd, conv, args[0]); err != nil {
				return err
			}
			printLast(out, conv)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch {
				case line == "":
					continue
				case line == ":quit" || line == ":q":
					return nil
				case strings.HasPrefix(line, ":upload "):
					before := len(conv.Messages())
					err := uploadFile(cmd, conv, strings.TrimSpace(strings.TrimPrefix(line, ":upload ")))
					report(out, conv, before, err)
				default:
					before := len(conv.Messages())
					_, err := conv.Ask(cmd.Context(), line)
					report(out, conv, before, err)
				}
			}
		},
	}
}

func uploadFile(cmd *cobra.Command, conv *client.Conversation, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return conv.Upload(cmd.Context(), path, f)
}

// report prints the newest transcript entry, or err when the action was rejected before reaching the server.
func report(out io.Writer, conv *client.Conversation, before int, err error) {
	if err != nil && len(conv.Messages()) == before {
		fmt.Fprintln(out, "error:", err)
		return
	}
	printLast(out, conv)
}

func printLast(out io.Writer, conv *client.Conversation) {
	msgs := conv.Messages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	fmt.Fprintf(out, "[%s] %s\n", last.Role, last.Content)
}
