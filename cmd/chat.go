package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactively answer tickets for one user",
	Long: `Start an interactive session that answers tickets for a single user.

The knowledge-base indexes are built once at startup and reused for every
question. Conversation history accumulates across turns, so follow-up
questions are answered in context. Type "exit" as the subject to quit.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var (
		headerColor = lipgloss.Color("#F780FF") // Bright pink
		promptColor = lipgloss.Color("#8BE9FD") // Cyan
		answerColor = lipgloss.Color("#E9E9F4") // Light purple/white
		mutedColor  = lipgloss.Color("#6272A4") // Muted purple
		errorColor  = lipgloss.Color("#FF5555") // Red
	)

	headerStyle := lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	promptStyle := lipgloss.NewStyle().Foreground(promptColor)
	answerStyle := lipgloss.NewStyle().Foreground(answerColor)
	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	errorStyle := lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	r, _, cleanup, err := buildResponder(ctx)
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}
	defer cleanup()

	fmt.Println(mutedStyle.Render("→ Building knowledge-base indexes..."))
	if err := r.Warm(ctx); err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print(promptStyle.Render("User ID: "))
	identity, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return fmt.Errorf("a user ID is required")
	}

	for {
		fmt.Println()
		fmt.Print(promptStyle.Render("Subject (or \"exit\"): "))
		subject, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		subject = strings.TrimSpace(subject)
		if strings.EqualFold(subject, "exit") {
			return nil
		}

		fmt.Print(promptStyle.Render("Body: "))
		body, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		body = strings.TrimSpace(body)

		if subject == "" && body == "" {
			fmt.Println(mutedStyle.Render("Nothing to answer, try again."))
			continue
		}

		answer, err := r.Answer(ctx, subject, body, identity)
		if err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
			continue
		}

		fmt.Println()
		fmt.Println(headerStyle.Render("Answer:"))
		fmt.Println(answerStyle.Render(answer))
	}
}
