package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"mission-control/board"
	"mission-control/config"
	"mission-control/database"
	"mission-control/seed"
	"mission-control/tui"
	"mission-control/utilities"
	"mission-control/workspace"

	"github.com/spf13/cobra"
)

// app guarda o que os subcomandos compartilham depois do PersistentPreRunE.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "mission-control",
		Short:        "Backend e ferramentas do painel Mission Control",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			utilities.InitLogger(cfg.LogLevel)
			a.cfg = cfg
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newSeedCmd(a),
		newNotesCmd(a),
		newBoardCmd(a),
		newTasksCmd(a),
	)
	return root
}

// signalContext é cancelado em SIGINT ou SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Inicia a API HTTP e o heartbeat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			srv, err := NewServer(ctx, a.cfg)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Apaga todas as tarefas e grava os dados iniciais",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := database.Connect(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			f, err := seed.Default()
			if err != nil {
				return err
			}
			if err := seed.Apply(ctx, store, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tarefas gravadas\n", len(f.Tasks))
			return nil
		},
	}
}

func newNotesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Navega pelas notas do workspace",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Lista as notas markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := workspace.New(a.cfg.WorkspaceRoot).ListNotes()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tUPDATED")
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", f.Name, f.Size, f.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	var raw bool
	var width int
	show := &cobra.Command{
		Use:   "show NAME",
		Short: "Mostra uma nota formatada para o terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := workspace.New(a.cfg.WorkspaceRoot).ReadNote(args[0])
			if err != nil {
				return err
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), note.Content)
				return err
			}
			out, err := workspace.RenderTerminal(note.Content, width, isTerminal(os.Stdout))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	show.Flags().BoolVar(&raw, "raw", false, "imprime o markdown sem formatação")
	show.Flags().IntVar(&width, "width", 100, "largura da quebra de linha")

	cmd.AddCommand(list, show)
	return cmd
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func apiURL(a *app, flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.APIURL
}

func newBoardCmd(a *app) *cobra.Command {
	var api string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Abre o quadro kanban no terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			// O bubbletea ocupa a tela; os logs iriam bagunçar o desenho.
			utilities.SetOutput(io.Discard)
			b := board.New(board.NewClient(apiURL(a, api), nil))
			return tui.Run(ctx, b)
		},
	}
	cmd.Flags().StringVar(&api, "api", "", "URL da API (padrão: API_URL)")
	return cmd
}

func newTasksCmd(a *app) *cobra.Command {
	var api string
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Exporta e importa tarefas pela API",
	}
	cmd.PersistentFlags().StringVar(&api, "api", "", "URL da API (padrão: API_URL)")

	var format string
	export := &cobra.Command{
		Use:   "export",
		Short: "Grava todas as tarefas em JSON ou YAML na saída padrão",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := board.NewClient(apiURL(a, api), nil)
			return board.Export(cmd.Context(), c, cmd.OutOrStdout(), format)
		},
	}
	export.Flags().StringVar(&format, "format", board.FormatJSON, "json ou yaml")

	imp := &cobra.Command{
		Use:   "import FILE",
		Short: "Recria as tarefas de um arquivo exportado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			c := board.NewClient(apiURL(a, api), nil)
			n, err := board.Import(cmd.Context(), c, f)
			if err != nil {
				return fmt.Errorf("importadas %d tarefas antes do erro: %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tarefas importadas\n", n)
			return nil
		},
	}

	cmd.AddCommand(export, imp)
	return cmd
}
