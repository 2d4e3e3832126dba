// Package runner drives batches of generate-and-verify checks through a
// worker pool.
package runner

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/roomkangali/payloadgen/internal/logger"
	"github.com/roomkangali/payloadgen/internal/payload"

	"gopkg.in/yaml.v3"
)

// Check is one entry of a batch file: which payload to build and, for
// in-band verification, where to find the captured output.
type Check struct {
	Name           string `yaml:"name"`
	Vulnerability  string `yaml:"vulnerability"`
	Interpretation string `yaml:"interpretation"`
	Execution      string `yaml:"execution"`
	UseCallback    bool   `yaml:"use_callback"`
	// OutputFile is read at verification time, after the delivery window, so
	// output captured during the window is seen.
	OutputFile string `yaml:"output_file"`
}

// ToConfig translates the wire names into a payload request.
func (c Check) ToConfig() (payload.Config, error) {
	vt, err := payload.ParseVulnerabilityType(c.Vulnerability)
	if err != nil {
		return payload.Config{}, err
	}
	interp, err := payload.ParseInterpretationEnvironment(c.Interpretation)
	if err != nil {
		return payload.Config{}, err
	}
	exec, err := payload.ParseExecutionEnvironment(c.Execution)
	if err != nil {
		return payload.Config{}, err
	}
	return payload.Config{
		VulnerabilityType:         vt,
		InterpretationEnvironment: interp,
		ExecutionEnvironment:      exec,
		UseCallbackChannel:        c.UseCallback,
	}, nil
}

// batchFile is the on-disk shape of a batch definition.
type batchFile struct {
	Checks []Check `yaml:"checks"`
}

// LoadChecks reads a batch file.
func LoadChecks(path string) ([]Check, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}
	if len(file.Checks) == 0 {
		return nil, fmt.Errorf("batch file %s contains no checks", path)
	}
	return file.Checks, nil
}

// Result is the outcome of one check.
type Result struct {
	Check        Check
	Payload      string
	TemplateName string
	UsesChannel  bool
	Executed     bool
	Err          error
}

// Runner generates payloads for a batch of checks, waits a delivery window,
// then verifies them concurrently.
type Runner struct {
	gen         *payload.Generator
	log         *logger.Logger
	concurrency int
}

// NewRunner creates a batch runner.
func NewRunner(gen *payload.Generator, log *logger.Logger, concurrency int) *Runner {
	return &Runner{gen: gen, log: log, concurrency: concurrency}
}

// pending pairs a check with its generated payload for the verify phase.
type pending struct {
	check Check
	p     *payload.Payload
}

// Run executes the batch. Phase one generates and announces every payload;
// after the settle window passes, phase two verifies them through the
// worker pool. Checks that fail generation are reported without being
// verified, and a cancellation during the settle window reports every
// remaining check unverified, so each check yields exactly one result.
func (r *Runner) Run(ctx context.Context, checks []Check, settle time.Duration) []Result {
	if len(checks) == 0 {
		return nil
	}

	var results []Result
	var resultsMu sync.Mutex
	var toVerify []pending

	for _, check := range checks {
		cfg, err := check.ToConfig()
		if err != nil {
			r.log.Error("Check %s: %v", check.Name, err)
			results = append(results, Result{Check: check, Err: err})
			continue
		}
		p, err := r.gen.Generate(cfg)
		if err != nil {
			r.log.Error("Check %s: %v", check.Name, err)
			results = append(results, Result{Check: check, Err: err})
			continue
		}
		r.log.Info("Check %s payload (%s): %s", check.Name, p.TemplateName(), p.String())
		toVerify = append(toVerify, pending{check: check, p: p})
	}

	if len(toVerify) == 0 {
		return results
	}

	if settle > 0 {
		r.log.Info("Deliver the payloads now. Verification starts in %v...", settle)
		select {
		case <-ctx.Done():
			r.log.Warn("Batch cancelled during delivery window; %d check(s) left unverified.", len(toVerify))
			for _, job := range toVerify {
				results = append(results, Result{
					Check:        job.check,
					Payload:      job.p.String(),
					TemplateName: job.p.TemplateName(),
					UsesChannel:  job.p.UsesChannel(),
					Err:          fmt.Errorf("verification skipped: %w", ctx.Err()),
				})
			}
			return results
		case <-time.After(settle):
		}
	}

	jobs := make(chan pending, len(toVerify))
	var wg sync.WaitGroup
	numWorkers := r.concurrency
	if numWorkers > len(toVerify) {
		numWorkers = len(toVerify)
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	r.log.Debug("Runner: verifying %d check(s) with %d worker(s).", len(toVerify), numWorkers)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res := r.verify(ctx, job)
				resultsMu.Lock()
				results = append(results, res)
				resultsMu.Unlock()
			}
		}()
	}

	for _, job := range toVerify {
		jobs <- job
	}
	close(jobs)
	wg.Wait()

	return results
}

// verify runs one check's verification and logs the verdict.
func (r *Runner) verify(ctx context.Context, job pending) Result {
	res := Result{
		Check:        job.check,
		Payload:      job.p.String(),
		TemplateName: job.p.TemplateName(),
		UsesChannel:  job.p.UsesChannel(),
	}

	var output []byte
	if !job.p.UsesChannel() && job.check.OutputFile != "" {
		data, err := os.ReadFile(job.check.OutputFile)
		if err != nil {
			r.log.Warn("Check %s: cannot read output file: %v", job.check.Name, err)
			res.Err = err
			return res
		}
		output = data
	}

	res.Executed = job.p.CheckExecuted(ctx, output)
	if res.Executed {
		r.log.Success("Check %s: execution CONFIRMED.", job.check.Name)
	} else {
		r.log.Info("Check %s: execution not confirmed.", job.check.Name)
	}
	return res
}
