// Cascade CLI — инструмент командной строки для запуска и проверки
// конвейеров.
//
// Использование:
//
//	cascade [--json] <command> [flags]
//
// Команды:
//
//	run       Запуск конвейера из файла
//	graph     Граф зависимостей конвейера
//	validate  Проверка файла конвейера
//	history   История запусков
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cascade/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "cascade",
		Short:         "Cascade — in-memory pipeline engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewRunCmd(outputFn),
		cli.NewGraphCmd(outputFn),
		cli.NewValidateCmd(outputFn),
		cli.NewHistoryCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
