// Package monitor wires the triage pipeline together. Each requested run is
// retrieved through the polarshift CLI, its failed records fan out to a
// worker pool for console-log classification and owner lookup, and the
// results are aggregated into a single report keyed by owner, automation
// script and case id.
package monitor

import (
	"context"
	"time"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/fetch"
	"github.com/openshift-eng/ci-monitor/internal/issues"
	"github.com/openshift-eng/ci-monitor/internal/ownership"
	"github.com/openshift-eng/ci-monitor/internal/polarshift"
	"github.com/openshift-eng/ci-monitor/internal/report"
	"github.com/openshift-eng/ci-monitor/internal/telemetry"
	"github.com/openshift-eng/ci-monitor/internal/worker"
	"github.com/openshift-eng/ci-monitor/options"
	"github.com/openshift-eng/ci-monitor/pkg/log"
	"github.com/openshift-eng/ci-monitor/util"
)

// Monitor drives the triage of one or more test runs.
type Monitor struct {
	opts       *options.MonitorOptions
	client     *polarshift.Client
	fetcher    *fetch.Fetcher
	classifier *issues.Classifier
	resolver   *ownership.Resolver
}

// NewMonitor builds a Monitor from normalized options.
func NewMonitor(opts *options.MonitorOptions) (*Monitor, error) {
	client, err := polarshift.NewClient(opts.Logger, opts.PolarshiftCommand, opts.DownloadDir, opts.Env)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.NewFetcher(
		opts.Logger,
		fetch.WithMaxRetries(opts.RetryMaxAttempts),
		fetch.WithRetrySleep(opts.RetrySleepInterval, 3*opts.RetrySleepInterval),
	)

	return &Monitor{
		opts:       opts,
		client:     client,
		fetcher:    fetcher,
		classifier: issues.NewClassifier(issues.DefaultRules()...),
		resolver:   ownership.NewResolver(opts.Logger, opts.WorkspaceDir),
	}, nil
}

// RunAndReport triages all configured runs, writes the report file atomically
// and prints a summary to the configured writer.
func (monitor *Monitor) RunAndReport(ctx context.Context) error {
	startTime := time.Now()

	triageReport, err := monitor.Run(ctx)
	if err != nil {
		return err
	}

	if err := triageReport.WriteToFile(ctx, monitor.opts.Logger, monitor.opts.OutputPath); err != nil {
		return err
	}

	monitor.opts.Logger.Infof("Report written to %s", monitor.opts.OutputPath)

	return triageReport.WriteSummary(monitor.opts.Writer, !monitor.opts.NoColor, time.Since(startTime))
}

// Run triages every configured run and returns the aggregated report. Run
// ids are deduplicated and processed in order, so when the same case fails
// in several runs the record from the last run wins.
func (monitor *Monitor) Run(ctx context.Context) (*report.Report, error) {
	triageReport := report.NewReport(monitor.opts.ReportVersion)

	runIDs := util.RemoveDuplicatesFromList(util.RemoveEmptyElements(monitor.opts.RunIDs))

	for _, runID := range runIDs {
		if err := monitor.processRun(ctx, runID, triageReport); err != nil {
			return nil, err
		}
	}

	return triageReport, nil
}

// failureResult is the outcome of triaging a single failed record.
type failureResult struct {
	owner            string
	automationScript string
	record           *report.FailureRecord
}

func (monitor *Monitor) processRun(ctx context.Context, runID string, triageReport *report.Report) error {
	return telemetry.TelemeterFromContext(ctx).Collect(ctx, "process_run", map[string]any{"run": runID}, func(ctx context.Context) error {
		logger := monitor.opts.Logger.WithFields(log.Fields{
			log.FieldKeyPrefix: runID,
			log.FieldKeyRunID:  runID,
		})

		testRun, err := monitor.client.GetRun(ctx, runID)
		if err != nil {
			return err
		}

		profile, err := testRun.Profile()
		if err != nil {
			return err
		}

		records := testRun.FailedRecords()
		logger.Infof("Triaging run %s on profile %s with %d failed cases", runID, profile, len(records))

		if len(records) == 0 {
			return nil
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Results are collected by index and inserted in record order once
		// the pool drains, so collisions within a run resolve the same way
		// regardless of parallelism.
		results := make([]*failureResult, len(records))

		pool := worker.NewPool(monitor.opts.Parallelism)
		pool.Start()

		for i, record := range records {
			pool.Submit(func() error {
				result, err := monitor.processRecord(ctx, logger, profile, record)
				if err != nil {
					cancel()
					return err
				}

				results[i] = result

				return nil
			})
		}

		if err := pool.Wait(); err != nil {
			return err
		}

		for _, result := range results {
			triageReport.Insert(result.owner, result.automationScript, result.record.CaseID, result.record)
		}

		return nil
	})
}

func (monitor *Monitor) processRecord(ctx context.Context, logger log.Logger, profile string, testRecord polarshift.TestRecord) (*failureResult, error) {
	caseID := testRecord.TestCase.ID
	logger = logger.WithField(log.FieldKeyCaseID, caseID)

	automationScript, err := testRecord.AutomationScript()
	if err != nil {
		return nil, err
	}

	failureRecord := report.NewFailureRecord(caseID, profile)

	if logURL := testRecord.LogURL(); logURL != "" {
		failureRecord.SetLogURL(logURL)

		if monitor.opts.FetchLogs {
			failureRecord.KnownIssues = monitor.classifyLog(ctx, logger, logURL)
		}
	} else {
		logger.Debugf("Case %s has no console log link", caseID)
	}

	return &failureResult{
		owner:            monitor.resolveOwner(ctx, automationScript, caseID),
		automationScript: automationScript,
		record:           failureRecord,
	}, nil
}

// classifyLog downloads the console log and matches it against the known
// issue rules. Classification never fails the record: any error or panic is
// logged and the record is aggregated without known issues.
func (monitor *Monitor) classifyLog(ctx context.Context, logger log.Logger, logURL string) (knownIssues []string) {
	defer errors.Recover(func(cause error) {
		logger.Warnf("Skipping known-issue classification for %s: %v", logURL, cause)
		knownIssues = nil
	})

	err := telemetry.TelemeterFromContext(ctx).Collect(ctx, "classify_log", map[string]any{"url": logURL}, func(ctx context.Context) error {
		logText, err := monitor.fetcher.Fetch(ctx, logURL)
		if err != nil {
			return err
		}

		knownIssues = monitor.classifier.Classify(logText)

		return nil
	})
	if err != nil {
		logger.Warnf("Skipping known-issue classification for %s: %v", logURL, err)
		return nil
	}

	return knownIssues
}

// resolveOwner looks up the case owner in the workspace checkout. A failed
// lookup is not an error: the record is filed under the "Not found" owner.
func (monitor *Monitor) resolveOwner(ctx context.Context, automationScript, caseID string) string {
	owner := report.OwnerNotFound

	err := telemetry.TelemeterFromContext(ctx).Collect(ctx, "resolve_owner", map[string]any{"case": caseID}, func(ctx context.Context) error {
		resolved, err := monitor.resolver.Resolve(ctx, automationScript, caseID)
		if err != nil {
			return err
		}

		owner = resolved

		return nil
	})
	if err != nil {
		return report.OwnerNotFound
	}

	return owner
}
