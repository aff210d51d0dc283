package integrity

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quangdng/spotline/internal/core/link"
	"github.com/quangdng/spotline/internal/platform/validate"
)

// Fetcher retrieves an affiliate target page for the plausibility check.
// Satisfied by the affiliate package's paced fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// OrphanLister is the slice of the linker the validator needs.
type OrphanLister interface {
	ListOrphans(ctx context.Context) ([]link.Orphan, error)
}

// trailingNumber extracts the episode number heuristic: the last run of
// digits at the end of a title, e.g. "Street Food Tour #14" or "Hanoi Ep 3".
var trailingNumber = regexp.MustCompile(`(\d+)\s*$`)

// Validator runs read-only consistency checks across the catalogue. Each
// check is independent; one failing query never hides another check's
// findings.
type Validator struct {
	store   Store
	orphans OrphanLister
	fetch   Fetcher
	domain  string
	logger  *slog.Logger
	now     func() time.Time
}

func NewValidator(store Store, orphans OrphanLister, fetch Fetcher, domain string, logger *slog.Logger) *Validator {
	return &Validator{
		store:   store,
		orphans: orphans,
		fetch:   fetch,
		domain:  domain,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes the full pass and returns the report. checkPlausibility
// gates the network-bound name/URL check; a scheduled run enables it, an
// interactive one may skip it.
func (validator *Validator) Run(ctx context.Context, checkPlausibility bool) (*Report, error) {
	startedAt := validator.now()
	var findings []Finding

	checks := []struct {
		name string
		run  func(context.Context) ([]Finding, error)
	}{
		{"duplicate_names", validator.checkDuplicateNames},
		{"orphans", validator.checkOrphans},
		{"affiliate_urls", func(ctx context.Context) ([]Finding, error) {
			return validator.checkAffiliateURLs(ctx, checkPlausibility)
		}},
		{"numbering_gaps", validator.checkNumberingGaps},
	}
	for _, check := range checks {
		found, err := check.run(ctx)
		if err != nil {
			validator.logger.Error("integrity_check_failed",
				slog.String("check", check.name),
				slog.String("error", err.Error()),
			)
			continue
		}
		findings = append(findings, found...)
	}

	report := newReport(startedAt, findings)
	report.FinishedAt = validator.now()

	validator.logger.Info("integrity_run_finished",
		slog.Int("findings", len(findings)),
		slog.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

// RunForEntity re-checks a single entity after a correction. Only checks
// that can be scoped to one row run here; the batch-shaped ones (duplicate
// grouping, numbering gaps) stay with the full pass.
func (validator *Validator) RunForEntity(ctx context.Context, entityKind, entityID string) ([]Finding, error) {
	if entityKind != "place" {
		return nil, nil
	}

	row, err := validator.store.AffiliateRow(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return validator.checkURLRow(ctx, *row, false), nil
}

func (validator *Validator) checkDuplicateNames(ctx context.Context) ([]Finding, error) {
	var findings []Finding
	for _, probe := range []struct {
		kind string
		run  func(context.Context) ([]DuplicateName, error)
	}{
		{"place", validator.store.DuplicatePlaceNames},
		{"product", validator.store.DuplicateProductNames},
	} {
		duplicates, err := probe.run(ctx)
		if err != nil {
			return nil, err
		}
		for _, d := range duplicates {
			creator := "(none)"
			if d.CreatorID != nil {
				creator = *d.CreatorID
			}
			findings = append(findings, Finding{
				EntityKind: probe.kind,
				EntityID:   creator,
				Kind:       KindDuplicateName,
				Severity:   SeverityError,
				Detail:     fmt.Sprintf("%d live rows named %q under creator %s", d.Count, d.Name, creator),
			})
		}
	}
	return findings, nil
}

func (validator *Validator) checkOrphans(ctx context.Context) ([]Finding, error) {
	orphans, err := validator.orphans.ListOrphans(ctx)
	if err != nil {
		return nil, err
	}

	findings := make([]Finding, 0, len(orphans))
	for _, orphan := range orphans {
		findings = append(findings, Finding{
			EntityKind: string(orphan.Kind),
			EntityID:   orphan.ID,
			Kind:       KindOrphaned,
			Severity:   SeverityWarning,
			Detail:     fmt.Sprintf("%q is not linked to any episode", orphan.Name),
		})
	}
	return findings, nil
}

func (validator *Validator) checkAffiliateURLs(ctx context.Context, checkPlausibility bool) ([]Finding, error) {
	rows, err := validator.store.AffiliateRows(ctx)
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, row := range rows {
		findings = append(findings, validator.checkURLRow(ctx, row, checkPlausibility)...)
	}
	return findings, nil
}

// checkURLRow validates one place's stored URL. The plausibility fetch is
// best effort: an unreachable page is reported as a finding, never treated
// as a validator failure.
func (validator *Validator) checkURLRow(ctx context.Context, row AffiliateRow, checkPlausibility bool) []Finding {
	if row.URL == "" {
		return nil
	}

	if !validate.IsURL(row.URL) {
		return []Finding{{
			EntityKind: "place",
			EntityID:   row.PlaceID,
			Kind:       KindMalformedURL,
			Severity:   SeverityError,
			Detail:     fmt.Sprintf("stored affiliate URL %q does not parse", row.URL),
		}}
	}
	if !validate.IsOnDomain(row.URL, validator.domain) {
		return []Finding{{
			EntityKind: "place",
			EntityID:   row.PlaceID,
			Kind:       KindForeignURL,
			Severity:   SeverityError,
			Detail:     fmt.Sprintf("affiliate URL %q is not on %s", row.URL, validator.domain),
		}}
	}

	if !checkPlausibility || row.Status != "active" || validator.fetch == nil {
		return nil
	}

	body, err := validator.fetch.Fetch(ctx, row.URL)
	if err != nil {
		return []Finding{{
			EntityKind: "place",
			EntityID:   row.PlaceID,
			Kind:       KindURLMismatch,
			Severity:   SeverityWarning,
			Detail:     "affiliate target unreachable: " + err.Error(),
		}}
	}
	if !strings.Contains(strings.ToLower(body), strings.ToLower(row.Name)) {
		return []Finding{{
			EntityKind: "place",
			EntityID:   row.PlaceID,
			Kind:       KindURLMismatch,
			Severity:   SeverityWarning,
			Detail:     fmt.Sprintf("affiliate target does not mention %q", row.Name),
		}}
	}
	return nil
}

// checkNumberingGaps groups episodes per creator, reads the trailing number
// out of each title and reports missing values between the observed min and
// max. Titles without a trailing number opt out of the heuristic.
func (validator *Validator) checkNumberingGaps(ctx context.Context) ([]Finding, error) {
	rows, err := validator.store.EpisodeRows(ctx)
	if err != nil {
		return nil, err
	}

	numbersByCreator := map[string][]int{}
	for _, row := range rows {
		match := trailingNumber.FindStringSubmatch(strings.TrimSpace(row.Title))
		if match == nil {
			continue
		}
		number, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		numbersByCreator[row.CreatorID] = append(numbersByCreator[row.CreatorID], number)
	}

	var findings []Finding
	for creatorID, numbers := range numbersByCreator {
		missing := missingNumbers(numbers)
		if len(missing) == 0 {
			continue
		}
		findings = append(findings, Finding{
			EntityKind: "creator",
			EntityID:   creatorID,
			Kind:       KindNumberingGap,
			Severity:   SeverityWarning,
			Detail:     fmt.Sprintf("episode numbering has gaps: missing %v", missing),
		})
	}

	sort.Slice(findings, func(i, j int) bool { return findings[i].EntityID < findings[j].EntityID })
	return findings, nil
}

func missingNumbers(numbers []int) []int {
	if len(numbers) < 2 {
		return nil
	}

	present := map[int]bool{}
	min, max := numbers[0], numbers[0]
	for _, n := range numbers {
		present[n] = true
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}

	var missing []int
	for n := min + 1; n < max; n++ {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	return missing
}
