package main

import (
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-todo-ai/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "todo-ai",
	Short: "Todo service with AI-assisted parsing and summaries.",
	Long: `todo-ai serves the todo HTTP API when run without a subcommand.
The parse and summarize subcommands run the assistant pipelines once and
print the result as JSON.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func serve() {
	app.InitDefaultLogger(os.Stdout)
	app.MustReadEnv()
	app.MustInitApplicationLogger()
	app.MustLoadDefaultLocation()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()
	app.MustMigratePostgres()

	app.MustInitAssistant()
	app.MustListenAndServeHTTP()
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
