package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/roomkangali/payloadgen/internal/callback"
	"github.com/roomkangali/payloadgen/internal/config"
	"github.com/roomkangali/payloadgen/internal/httpclient"
	"github.com/roomkangali/payloadgen/internal/logger"
	"github.com/roomkangali/payloadgen/internal/payload"
	"github.com/roomkangali/payloadgen/internal/reporter"
	"github.com/roomkangali/payloadgen/internal/runner"
)

const version = "1.0.0"

// main is the entry point of the payloadgen tool.
func main() {
	log := logger.NewLogger(logger.INFO)
	startTime := time.Now()

	// The config path can be overridden with -config; it has to be known
	// before the other flags are defined, since their defaults come from
	// the loaded file.
	configPath, args := configPathFromArgs(os.Args[1:])
	os.Args = append([]string{os.Args[0]}, args...)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Error("Failed to load config %s: %v", configPath, err)
		os.Exit(1)
	}

	// --- Custom Flag Definitions & Help Screen ---

	var vulnTypeStr, interpStr, execStr string
	var batchFile, definitionsFile, jsonOutputFile string
	var waitSeconds, settleSeconds, concurrency int
	var useCallback, oast, verify, verbose, trace bool

	flag.StringVar(&vulnTypeStr, "type", "", "Vulnerability type (reflective_rce, blind_rce, ssrf)")
	flag.StringVar(&interpStr, "interp", "", "Interpretation environment (linux_shell, java, any)")
	flag.StringVar(&execStr, "exec", "", "Execution environment (exec_interpretation_environment, exec_any)")
	flag.BoolVar(&useCallback, "callback", cfg.Callback.Enabled, "Request callback-based verification")
	flag.BoolVar(&oast, "oast", false, "Force the interactsh provider for the callback channel")
	flag.BoolVar(&verify, "verify", false, "Read captured output from stdin and verify in-band")
	flag.IntVar(&waitSeconds, "wait", cfg.Callback.TimeoutSeconds, "Maximum seconds to wait for a callback interaction")
	flag.StringVar(&batchFile, "batch", "", "YAML file with a batch of checks to run")
	flag.IntVar(&settleSeconds, "settle", 0, "Seconds between payload generation and verification in batch mode")
	flag.IntVar(&concurrency, "c", cfg.Concurrency, "Number of concurrent verification workers in batch mode")
	flag.StringVar(&definitionsFile, "definitions", cfg.Generator.DefinitionsFile, "YAML file replacing the built-in payload templates")
	flag.StringVar(&jsonOutputFile, "output-json", "", "Path to save the session report in JSON format")
	flag.StringVar(&configPath, "config", configPath, "Path to the YAML configuration file")
	flag.BoolVar(&verbose, "v", cfg.Output.Verbose, "Enable verbose output (DEBUG level)")
	flag.BoolVar(&trace, "vv", false, "Enable trace-level output (highly verbose)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "payloadgen builds verification payloads for confirmed-exploitability testing and checks whether they executed,\neither through an out-of-band callback channel or by matching a token marker in captured output.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])

		fmt.Fprintf(os.Stderr, "PAYLOAD SELECTION:\n")
		fmt.Fprintf(os.Stderr, "  -type string\n    \tVulnerability type: reflective_rce, blind_rce, ssrf\n")
		fmt.Fprintf(os.Stderr, "  -interp string\n    \tInterpretation environment: linux_shell, java, any\n")
		fmt.Fprintf(os.Stderr, "  -exec string\n    \tExecution environment: exec_interpretation_environment, exec_any\n")
		fmt.Fprintf(os.Stderr, "  -definitions string\n    \tYAML file replacing the built-in payload templates\n")

		fmt.Fprintf(os.Stderr, "\nVERIFICATION:\n")
		fmt.Fprintf(os.Stderr, "  -callback\n    \tRequest callback-based verification (falls back to in-band payloads when no channel is usable)\n")
		fmt.Fprintf(os.Stderr, "  -oast\n    \tForce the interactsh provider for the callback channel\n")
		fmt.Fprintf(os.Stderr, "  -verify\n    \tAfter printing the payload, read captured output from stdin and verify it\n")
		fmt.Fprintf(os.Stderr, "  -wait int\n    \tMaximum seconds to wait for a callback interaction (default: %d)\n", cfg.Callback.TimeoutSeconds)

		fmt.Fprintf(os.Stderr, "\nBATCH MODE:\n")
		fmt.Fprintf(os.Stderr, "  -batch string\n    \tYAML file with a batch of checks to run\n")
		fmt.Fprintf(os.Stderr, "  -settle int\n    \tSeconds between payload generation and verification in batch mode\n")
		fmt.Fprintf(os.Stderr, "  -c int\n    \tNumber of concurrent verification workers (default: %d)\n", cfg.Concurrency)

		fmt.Fprintf(os.Stderr, "\nOUTPUT & REPORTING:\n")
		fmt.Fprintf(os.Stderr, "  -output-json string\n    \tPath to save the session report in JSON format (e.g., report.json)\n")
		fmt.Fprintf(os.Stderr, "  -v\n    \tEnable verbose output (DEBUG level)\n")
		fmt.Fprintf(os.Stderr, "  -vv\n    \tEnable trace-level output (highly verbose)\n")

		fmt.Fprintf(os.Stderr, "\nCONFIGURATION:\n")
		fmt.Fprintf(os.Stderr, "  -config string\n    \tPath to the YAML configuration file (default: config.yaml)\n")
		fmt.Fprintf(os.Stderr, "  Command-line flags override settings from the configuration file.\n")

		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  # In-band RCE payload for a Linux shell, verified against piped output\n")
		fmt.Fprintf(os.Stderr, "  payloadgen -type reflective_rce -interp linux_shell -exec exec_interpretation_environment -verify\n\n")
		fmt.Fprintf(os.Stderr, "  # Callback-verified RCE payload via interactsh, waiting up to two minutes\n")
		fmt.Fprintf(os.Stderr, "  payloadgen -type reflective_rce -interp linux_shell -exec exec_interpretation_environment -callback -oast -wait 120\n\n")
		fmt.Fprintf(os.Stderr, "  # Run a batch of checks and save the session report\n")
		fmt.Fprintf(os.Stderr, "  payloadgen -batch checks.yaml -settle 60 -output-json report.json\n\n")
	}

	flag.Parse()

	if trace {
		log.SetMinLevel(logger.TRACE)
		log.Info("Trace logging enabled (-vv).")
	} else if verbose {
		log.SetMinLevel(logger.DEBUG)
		log.Info("Debug logging enabled (-v).")
	}

	if jsonOutputFile == "" && cfg.Output.JSONFile != "" {
		jsonOutputFile = cfg.Output.JSONFile
		log.Debug("Using report file from %s: %s", configPath, jsonOutputFile)
	}

	if batchFile == "" && (vulnTypeStr == "" || interpStr == "" || execStr == "") {
		log.Error("Either -batch or all of -type, -interp and -exec are required.")
		flag.Usage()
		os.Exit(1)
	}

	log.Info("Starting payloadgen session...")

	// Set up the callback channel. A channel disabled in the configuration
	// is never constructed, so callback requests degrade to in-band
	// payloads no matter what the caller asked for.
	pollInterval := time.Duration(cfg.Callback.PollIntervalSeconds) * time.Second
	var channel callback.Channel
	providerName := ""
	if cfg.Callback.Enabled || oast {
		provider := cfg.Callback.Provider
		if oast {
			provider = "interactsh"
			useCallback = true
		}
		switch provider {
		case "interactsh":
			ch, chErr := callback.NewInteractshChannel(log, pollInterval)
			if chErr != nil {
				log.Error("Could not create interactsh channel: %v. Continuing without a callback channel.", chErr)
			} else {
				channel = ch
				providerName = provider
				defer ch.Close()
			}
		case "tcs":
			hc := httpclient.NewClient(log, httpclient.ClientOptions{
				Timeout:    15 * time.Second,
				UserAgent:  cfg.UserAgent,
				MaxRetries: cfg.MaxRetries,
			})
			sc := callback.NewServerClient(log, hc, cfg.Callback.Address, cfg.Callback.HTTPPort, cfg.Callback.PollingURI)
			if !sc.Configured() {
				log.Warn("Callback server not fully configured (address and polling_uri required); payloads fall back to in-band verification.")
			}
			channel = sc
			providerName = provider
		default:
			log.Error("Unknown callback provider %q in %s.", provider, configPath)
			os.Exit(1)
		}
	}

	genOpts := []payload.Option{
		payload.WithPollInterval(pollInterval),
		payload.WithPollTimeout(time.Duration(waitSeconds) * time.Second),
	}
	if channel != nil {
		genOpts = append(genOpts, payload.WithChannel(channel))
	}

	if definitionsFile != "" {
		defs, defErr := payload.LoadDefinitions(definitionsFile)
		if defErr != nil {
			log.Error("Failed to load payload definitions: %v", defErr)
			os.Exit(1)
		}
		log.Info("Loaded %d payload definition(s) from %s.", len(defs), definitionsFile)
		genOpts = append(genOpts, payload.WithDefinitions(defs))
	}

	gen := payload.NewGenerator(log, genOpts...)
	report := reporter.NewReport(version, startTime)
	ctx := context.Background()

	if batchFile != "" {
		checks, loadErr := runner.LoadChecks(batchFile)
		if loadErr != nil {
			log.Error("Failed to load batch file: %v", loadErr)
			os.Exit(1)
		}
		log.Info("Running %d check(s) from %s...", len(checks), batchFile)
		r := runner.NewRunner(gen, log, concurrency)
		results := r.Run(ctx, checks, time.Duration(settleSeconds)*time.Second)
		report.AddResults(results)
	} else {
		result, runErr := runSingle(ctx, gen, log, singleParams{
			vulnType:    vulnTypeStr,
			interp:      interpStr,
			exec:        execStr,
			useCallback: useCallback,
			verify:      verify,
			waitSeconds: waitSeconds,
		})
		if runErr != nil {
			if errors.Is(runErr, payload.ErrNotImplemented) {
				log.Error("Unsupported request: %v", runErr)
			} else {
				log.Error("%v", runErr)
			}
			os.Exit(1)
		}
		if result != nil {
			report.AddResults([]runner.Result{*result})
		}
	}

	report.Finalize(time.Now(), providerName)
	if jsonOutputFile != "" {
		if writeErr := reporter.WriteJSONReport(report, jsonOutputFile); writeErr != nil {
			log.Error("Failed to save JSON report: %v", writeErr)
		} else {
			log.Info("JSON report saved to: %s", jsonOutputFile)
		}
	}

	log.Info("Session finished in %s.", time.Since(startTime).Round(time.Second))
}

// singleParams carries the single-check flag values.
type singleParams struct {
	vulnType    string
	interp      string
	exec        string
	useCallback bool
	verify      bool
	waitSeconds int
}

// runSingle generates one payload, prints it, and verifies it when asked.
// The returned result is nil when no verification was requested.
func runSingle(ctx context.Context, gen *payload.Generator, log *logger.Logger, params singleParams) (*runner.Result, error) {
	check := runner.Check{
		Name:           "manual",
		Vulnerability:  params.vulnType,
		Interpretation: params.interp,
		Execution:      params.exec,
		UseCallback:    params.useCallback,
	}
	cfg, err := check.ToConfig()
	if err != nil {
		return nil, err
	}

	p, err := gen.Generate(cfg)
	if err != nil {
		return nil, err
	}

	log.Info("Generated payload (template %s, callback: %t):", p.TemplateName(), p.UsesChannel())
	fmt.Println(p.String())

	result := runner.Result{
		Check:        check,
		Payload:      p.String(),
		TemplateName: p.TemplateName(),
		UsesChannel:  p.UsesChannel(),
	}

	switch {
	case p.UsesChannel():
		log.Info("Deliver the payload now. Waiting up to %d second(s) for a callback interaction...", params.waitSeconds)
		result.Executed = p.CheckExecuted(ctx, nil)
	case params.verify:
		log.Info("Paste or pipe the captured output to stdin (end with EOF)...")
		output, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			return nil, fmt.Errorf("reading output from stdin: %w", readErr)
		}
		result.Executed = p.CheckExecuted(ctx, output)
	default:
		// Generation only; nothing to verify.
		return nil, nil
	}

	if result.Executed {
		log.Success("Execution CONFIRMED for the generated payload.")
	} else {
		log.Info("Execution not confirmed.")
	}
	return &result, nil
}

// configPathFromArgs extracts the -config flag from the raw argument list
// before flag.Parse runs, and returns the remaining arguments with the flag
// removed. Both the "-config path" and "-config=path" forms are accepted.
func configPathFromArgs(args []string) (string, []string) {
	for i, arg := range args {
		if (arg == "-config" || arg == "--config") && i+1 < len(args) {
			return args[i+1], append(args[:i], args[i+2:]...)
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config="), append(args[:i], args[i+1:]...)
		}
		if strings.HasPrefix(arg, "-config=") {
			return strings.TrimPrefix(arg, "-config="), append(args[:i], args[i+1:]...)
		}
	}
	return "config.yaml", args
}
