// Songbird — инструмент командной строки для отправки генетических
// метаданных и payload-файлов на пару сервисов song/score.
//
// Использование:
//
//	songbird [--json-output] <command> [flags]
//
// Команды:
//
//	submit  Запуск четырёхшагового workflow: submit → manifest → upload → publish
//	plan    Печать команд четырёх шагов без запуска
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Songbird/internal/cli"
	"github.com/shaiso/Songbird/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	telemetry.SetupLogger()

	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "songbird",
		Short:         "Songbird — genomic metadata submission tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json-output", false, "Output in JSON format")

	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewSubmitCmd(outputFn),
		cli.NewPlanCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
