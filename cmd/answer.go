package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	answerSubject  string
	answerBody     string
	answerUser     string
	answerCondense bool
)

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Answer a single support ticket",
	Long: `Answer a single support ticket from the command line.

This command:
1. Loads the tiered knowledge-base documents named in the configuration
2. Chunks and embeds them into per-tier vector indexes
3. Routes the ticket to the user's entitlement tier plus the expert tier
4. Generates a grounded answer with an LLM (OpenAI)

Required environment variables:
  OPENAI_API_KEY     - OpenAI API key for embeddings and the LLM

Examples:
  deskrag answer --subject "واریز" --body "حداقل واریز چقدر است؟" --user 42
  deskrag answer --subject "Deposit" --body "What is the minimum?" --user 42 --condense`,
	RunE: runAnswer,
}

func init() {
	rootCmd.AddCommand(answerCmd)
	answerCmd.Flags().StringVar(&answerSubject, "subject", "", "Ticket subject")
	answerCmd.Flags().StringVar(&answerBody, "body", "", "Ticket body")
	answerCmd.Flags().StringVar(&answerUser, "user", "", "Identity of the asking user")
	answerCmd.Flags().BoolVar(&answerCondense, "condense", false, "Condense the answer into a short reply")
	answerCmd.MarkFlagRequired("user")
}

func runAnswer(cmd *cobra.Command, args []string) error {
	if answerSubject == "" && answerBody == "" {
		return fmt.Errorf("at least one of --subject and --body is required")
	}
	ctx := context.Background()

	// Styling
	var (
		headerColor   = lipgloss.Color("#F780FF") // Bright pink
		questionColor = lipgloss.Color("#8BE9FD") // Cyan
		answerColor   = lipgloss.Color("#E9E9F4") // Light purple/white
		errorColor    = lipgloss.Color("#FF5555") // Red
	)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true)

	questionStyle := lipgloss.NewStyle().
		Foreground(questionColor).
		Italic(true)

	answerStyle := lipgloss.NewStyle().
		Foreground(answerColor)

	errorStyle := lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	r, _, cleanup, err := buildResponder(ctx)
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}
	defer cleanup()

	fmt.Println()
	fmt.Println(headerStyle.Render("Ticket:"))
	fmt.Println(questionStyle.Render(answerSubject))
	fmt.Println(questionStyle.Render(answerBody))
	fmt.Println()

	answer, err := r.Answer(ctx, answerSubject, answerBody, answerUser)
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}

	if answerCondense {
		answer, err = r.Condense(ctx, answer)
		if err != nil {
			return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
		}
	}

	fmt.Println(headerStyle.Render("Answer:"))
	fmt.Println(answerStyle.Render(answer))
	fmt.Println()
	return nil
}
