// Package ownership attributes a failed test case to the author of its
// automation script. Feature files in the test workspace annotate each
// scenario with an author tag on the line preceding its case id:
//
//	# @author xzha@redhat.com
//	# @case_id OCP-12345
//
// The resolver scans the script for the case id and reads the author from
// the preceding line. When the script path no longer exists, a recursive
// glob by file name locates moved feature files before giving up.
package ownership

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mattn/go-zglob"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/pkg/log"
	"github.com/openshift-eng/ci-monitor/util"
)

var authorPattern = regexp.MustCompile(`author\s*(.*)@redhat\.com`)

// OwnerNotFoundError means no author annotation could be located for the
// case. The orchestrator maps it to the report's "Not found" owner key.
type OwnerNotFoundError struct {
	AutomationScript string
	CaseID           string
}

func (err OwnerNotFoundError) Error() string {
	return fmt.Sprintf("no author found for case %s in %s", err.CaseID, err.AutomationScript)
}

// Resolver looks up automation-script authors in the test workspace.
// Lookups are cached per (script, case), so repeated failures of the same
// case across runs cost one scan. Safe for concurrent use.
type Resolver struct {
	workspaceDir string
	logger       log.Logger
	cache        *xsync.MapOf[string, resolution]
}

type resolution struct {
	owner string
	found bool
}

// NewResolver creates a resolver scanning feature files under workspaceDir.
func NewResolver(logger log.Logger, workspaceDir string) *Resolver {
	return &Resolver{
		workspaceDir: workspaceDir,
		logger:       logger,
		cache:        xsync.NewMapOf[string, resolution](),
	}
}

// Resolve returns the author identifier, the portion before the
// @redhat.com suffix, of the case's author annotation.
func (resolver *Resolver) Resolve(ctx context.Context, automationScript, caseID string) (string, error) {
	key := automationScript + "|" + caseID

	res, _ := resolver.cache.LoadOrCompute(key, func() resolution {
		owner, err := resolver.lookup(ctx, automationScript, caseID)
		if err != nil {
			resolver.logger.Debugf("Owner lookup for case %s failed: %s", caseID, err)

			return resolution{}
		}

		return resolution{owner: owner, found: true}
	})

	if !res.found {
		return "", errors.New(OwnerNotFoundError{AutomationScript: automationScript, CaseID: caseID})
	}

	return res.owner, nil
}

func (resolver *Resolver) lookup(ctx context.Context, automationScript, caseID string) (string, error) {
	path := filepath.Join(resolver.workspaceDir, automationScript)

	if util.FileExists(path) {
		if owner, found := scanFeatureFile(path, caseID); found {
			return owner, nil
		}

		return "", errors.Errorf("case %s not annotated in %s", caseID, path)
	}

	// The script recorded in the test-management system may be stale after a
	// feature file moved; search the workspace by file name.
	matches, err := zglob.Glob(filepath.Join(resolver.workspaceDir, "**", filepath.Base(automationScript)))
	if err != nil {
		return "", errors.New(err)
	}

	sort.Strings(matches)

	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return "", errors.New(err)
		}

		if owner, found := scanFeatureFile(match, caseID); found {
			return owner, nil
		}
	}

	return "", errors.Errorf("case %s not found under %s", caseID, resolver.workspaceDir)
}

// scanFeatureFile looks for caseID in the file and reads the author tag on
// the immediately preceding line.
func scanFeatureFile(path, caseID string) (string, bool) {
	content, err := util.ReadFileAsString(path)
	if err != nil {
		return "", false
	}

	lines := strings.Split(content, "\n")

	for i, line := range lines {
		if i == 0 || !strings.Contains(line, caseID) {
			continue
		}

		if match := authorPattern.FindStringSubmatch(lines[i-1]); match != nil {
			return strings.TrimSpace(match[1]), true
		}
	}

	return "", false
}
