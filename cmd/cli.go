package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-todo-ai/internal/app"
	"github.com/adanyl0v/go-todo-ai/internal/models"
	"github.com/adanyl0v/go-todo-ai/internal/services"
)

var (
	nowFlag      string
	timezoneFlag string
	fileFlag     string
	periodFlag   string
)

var parseCmd = &cobra.Command{
	Use:   `parse "<text>"`,
	Short: "Parse free-form text into a structured todo.",
	Example: `  todo-ai parse "내일 오후 3시까지 회의 준비"
  todo-ai parse "submit report by friday" --now 2026-02-17T09:00 --timezone Europe/Berlin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initAssistant()

		now, err := resolveNow(nowFlag, timezoneFlag)
		if err != nil {
			return err
		}

		parsed, err := app.Assistant().ParseTodo(cmd.Context(), services.ParseTodoParams{
			Text: args[0],
			Now:  now,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), parsed)
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a JSON array of todos for today or this week.",
	Example: `  todo-ai summarize --file todos.json --period week
  cat todos.json | todo-ai summarize --file - --period today --now 2026-02-17T09:00`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		todos, err := readTodos(cmd.InOrStdin(), fileFlag)
		if err != nil {
			return err
		}

		initAssistant()

		now, err := resolveNow(nowFlag, timezoneFlag)
		if err != nil {
			return err
		}

		summary, err := app.Assistant().SummarizeTodos(cmd.Context(), services.SummarizeTodosParams{
			Todos:  todos,
			Period: models.Period(periodFlag),
			Now:    now,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{parseCmd, summarizeCmd} {
		cmd.Flags().StringVar(&nowFlag, "now", "", "current local date time as YYYY-MM-DDTHH:mm (default: system clock)")
		cmd.Flags().StringVar(&timezoneFlag, "timezone", "", "IANA time zone of --now (default: DEFAULT_TIMEZONE)")
	}

	summarizeCmd.Flags().StringVarP(&fileFlag, "file", "f", "", `JSON file with the todos, "-" for stdin`)
	summarizeCmd.Flags().StringVarP(&periodFlag, "period", "p", string(models.PeriodToday), "period to summarize: today or week")
	_ = summarizeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(parseCmd, summarizeCmd)
}

// initAssistant bootstraps logging and the model invoker with logs on stderr
// so that stdout carries only the result.
func initAssistant() {
	app.InitDefaultLogger(os.Stderr)
	app.MustReadAssistantEnv()
	app.MustInitApplicationLogger()
	app.MustLoadDefaultLocation()
	app.MustInitAssistant()
}

func resolveNow(now, timezone string) (time.Time, error) {
	loc := app.DefaultLocation()
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
		}
	}

	if now == "" {
		return time.Now().In(loc).Truncate(time.Minute), nil
	}
	return models.ParseLocalDateTime(now, loc)
}

func readTodos(stdin io.Reader, path string) ([]models.TodoSummaryInput, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open todos file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var todos []models.TodoSummaryInput
	if err := json.NewDecoder(r).Decode(&todos); err != nil {
		return nil, fmt.Errorf("failed to decode todos: %w", err)
	}
	return todos, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
