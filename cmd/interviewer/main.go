package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillcheck/interviewer/internal/archive"
	"github.com/skillcheck/interviewer/internal/evaluator"
	"github.com/skillcheck/interviewer/internal/handler"
	"github.com/skillcheck/interviewer/internal/llm"
	"github.com/skillcheck/interviewer/internal/model"
	"github.com/skillcheck/interviewer/internal/orchestrator"
	"github.com/skillcheck/interviewer/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "interviewer",
		Short: "Automated Excel skills interviewer",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd(), backupCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `interviewer --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP interview server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("bank", "questions.json", "Question bank JSON path")
	f.String("archive-db", "interviews.db", "SQLite archive path (empty disables archiving)")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for the scoring model")
	f.String("llm-model", "llama3.2", "Scoring model name")
	f.IntP("question-count", "n", 6, "Questions per interview")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export archived interviews as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("archive-db", "interviews.db", "SQLite archive path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a point-in-time copy of the question bank",
		RunE:  runBackup,
	}
	f := cmd.Flags()
	f.String("bank", "questions.json", "Question bank JSON path")
	f.StringP("output", "o", "", "Backup file path (empty derives a timestamped name)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("INTERVIEWER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("interviewer")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/interviewer")
	v.AddConfigPath("/etc/interviewer")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	bank, err := store.New(v.GetString("bank"))
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}
	slog.Info("question bank loaded", "path", v.GetString("bank"), "questions", bank.Count())

	var arch *archive.Archive
	if path := v.GetString("archive-db"); path != "" {
		arch, err = archive.New(path)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer arch.Close()
	}

	oracle := llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := oracle.Ping(ctx); err != nil {
		// The evaluator degrades to its local scorer, so a dead oracle is
		// not fatal at startup.
		slog.Warn("oracle unreachable, evaluations will use the fallback scorer",
			"url", v.GetString("llm-url"), "error", err)
	} else {
		slog.Info("oracle endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
	}
	cancel()

	var archiver orchestrator.Archiver
	if arch != nil {
		archiver = arch
	}
	orch := orchestrator.New(bank, evaluator.New(oracle), archiver)

	h := handler.New(orch, bank, arch, v.GetInt("question-count"))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"question_count", v.GetInt("question-count"),
		"archive_db", v.GetString("archive-db"),
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	arch, err := archive.New(v.GetString("archive-db"))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer arch.Close()

	results, err := arch.ExportAll()
	if err != nil {
		return fmt.Errorf("export interviews: %w", err)
	}

	export := model.InterviewExport{
		ExportedAt: time.Now(),
		Count:      len(results),
		Results:    results,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}

func runBackup(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	bank, err := store.New(v.GetString("bank"))
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}

	path, err := bank.Backup(v.GetString("output"))
	if err != nil {
		return fmt.Errorf("backup question bank: %w", err)
	}
	slog.Info("backup written", "path", path, "questions", bank.Count())
	return nil
}
