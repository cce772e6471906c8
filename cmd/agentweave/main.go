// Command agentweave runs multi-agent workflows defined in YAML against an
// LLM backend.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hallwyn/agentweave"
	"github.com/hallwyn/agentweave/config"
	"github.com/hallwyn/agentweave/core"
	"github.com/hallwyn/agentweave/logging"
	"github.com/hallwyn/agentweave/model/anthropic"
	"github.com/hallwyn/agentweave/model/openai"
	"github.com/hallwyn/agentweave/sandbox"
	"github.com/hallwyn/agentweave/tool"
)

var rootCmd = &cobra.Command{
	Use:   "agentweave",
	Short: "agentweave - multi-agent workflow runner",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the workflow from a config file",
	RunE:  runWorkflow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file without calling any backend",
	RunE:  runValidate,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the built-in tools",
	RunE:  runTools,
}

var (
	configFlag    string
	inputFlag     string
	backendFlag   string
	modelFlag     string
	logLevelFlag  string
	logFormatFlag string
	filesRootFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "agentweave.yaml", "Path to the workflow config file")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "text", "Log format (text or json)")

	runCmd.Flags().StringVarP(&inputFlag, "input", "i", "", "User input the workflow runs against")
	runCmd.Flags().StringVarP(&backendFlag, "backend", "b", "openai", "Backend (openai, anthropic, mock)")
	runCmd.Flags().StringVar(&modelFlag, "model", "", "Model id override for the selected backend")
	runCmd.Flags().StringVar(&filesRootFlag, "files-root", ".", "Root directory the read_file tool is confined to")

	rootCmd.AddCommand(runCmd, validateCmd, toolsCmd)
}

func main() {
	// Best effort: local development keys live in .env.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	if inputFlag == "" {
		return fmt.Errorf("--input is required")
	}

	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}

	logger := newLogger().WithRun(core.NewID())

	backend, err := newBackend(backendFlag, modelFlag)
	if err != nil {
		return err
	}

	orch := agentweave.New(func(o *agentweave.Options) {
		o.Backend = backend
		o.Logger = logger
		o.ToolSink = tool.LogSink{Logger: logger.WithComponent("tool")}
		if cfg.Settings.Temperature > 0 {
			o.Temperature = cfg.Settings.Temperature
		}
		if cfg.Settings.MaxToolCalls > 0 {
			o.MaxToolCalls = cfg.Settings.MaxToolCalls
		}
	})

	registerBuiltinTools(orch, logger)

	for _, agent := range cfg.Agents {
		if err := orch.RegisterAgent(agent); err != nil {
			return err
		}
	}

	if err := cfg.CheckToolReferences(orch.Tools().Has); err != nil {
		return err
	}

	start := time.Now()
	res, err := orch.Run(cmd.Context(), cfg.Workflow, inputFlag)
	if err != nil {
		return fmt.Errorf("workflow failed: %w", err)
	}

	logger.LogWorkflowRun(string(cfg.Workflow.Type), len(res.Timeline), time.Since(start), nil)

	fmt.Println(res.FinalOutput)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}

	if err := cfg.Workflow.Validate(cfg.Registry()); err != nil {
		return err
	}

	reg := builtinRegistry()
	if err := cfg.CheckToolReferences(reg.Has); err != nil {
		return err
	}

	fmt.Printf("Config OK: %d agents, %s workflow\n", len(cfg.Agents), cfg.Workflow.Type)
	return nil
}

func runTools(cmd *cobra.Command, args []string) error {
	for _, schema := range builtinRegistry().List() {
		fmt.Printf("%-14s %s\n", schema.Name, schema.Description)
	}

	return nil
}

// registerBuiltinTools wires the stock tool set into the orchestrator.
func registerBuiltinTools(orch *agentweave.Orchestrator, logger logging.Logger) {
	orch.RegisterTool(tool.NewFileReadTool(filesRootFlag))
	orch.RegisterTool(tool.NewWebSearchTool())
	orch.RegisterTool(sandbox.NewCodeExecutionTool(func(o *sandbox.Options) {
		o.Logger = logger
	}))
}

func builtinRegistry() *tool.Registry {
	reg := tool.NewRegistry()
	reg.Register(tool.NewFileReadTool("."))
	reg.Register(tool.NewWebSearchTool())
	reg.Register(sandbox.NewCodeExecutionTool())
	return reg
}

func newLogger() *logging.RunLogger {
	return logging.NewRunLogger(&logging.Config{
		Level:  parseLevel(logLevelFlag),
		Format: logFormatFlag,
		Output: os.Stderr,
	})
}

func parseLevel(s string) logging.LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}

func newBackend(name, model string) (core.Backend, error) {
	switch strings.ToLower(name) {
	case "openai":
		return openai.New(func(o *openai.Options) {
			if model != "" {
				o.Model = model
			}
		}), nil
	case "anthropic":
		return anthropic.New(func(o *anthropic.Options) {
			if model != "" {
				o.Model = anthropicsdk.Model(model)
			}
		}), nil
	case "mock":
		return core.NewMockBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want openai, anthropic or mock)", name)
	}
}
