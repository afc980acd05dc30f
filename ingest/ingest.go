package ingest

import (
	"context"
	"strings"

	"github.com/inab/BP-Model/errs"
	"github.com/inab/BP-Model/log"
	"github.com/inab/BP-Model/model"
	"github.com/inab/BP-Model/typreg"
)

// DefaultBatchSize is the number of records validated per batch when the
// caller does not override it (§5).
const DefaultBatchSize = 20000

// Record is one raw input record: column name to raw string value. Only
// present keys are considered set; a column with no entry is treated as
// absent, not as an explicit null.
type Record map[string]string

// RecordError reports one record's validation failure without aborting
// the batch it belongs to (§7): every other record in the same batch is
// still validated and reported on its own terms.
type RecordError struct {
	Index int
	Err   error
}

// BatchResult summarizes one Ingest run. It never carries partial-batch
// state: Attempted/Succeeded/Failed always describe whole, completed
// batches, per §5's "no partial batch state exposed" rule.
type BatchResult struct {
	Attempted int
	Succeeded int
	Failed    int
	Errors    []RecordError
}

// Ingest validates records against concept's resolved column-set in
// batches of batchSize (DefaultBatchSize if <= 0), publishing a Progress
// event to notifier after each batch. It stops between batches — never
// mid-batch — if ctx is canceled, returning the partial result gathered so
// far alongside ctx.Err().
func Ingest(ctx context.Context, m *model.Model, concept *model.Concept, records []Record, batchSize int, notifier *Notifier) (*BatchResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	logger := log.Root
	if notifier != nil {
		logger = log.Or(notifier.Logger)
	}
	logger = logger.With("concept", concept.Qualified(), "records", len(records), "batchSize", batchSize)

	result := &BatchResult{}
	for start := 0; start < len(records); start += batchSize {
		select {
		case <-ctx.Done():
			logger.Error("ingest canceled between batches", "attempted", result.Attempted, "err", ctx.Err())
			return result, ctx.Err()
		default:
		}
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]
		for i, rec := range batch {
			result.Attempted++
			if err := validateRecord(m, concept, rec); err != nil {
				result.Failed++
				result.Errors = append(result.Errors, RecordError{Index: start + i, Err: err})
				continue
			}
			result.Succeeded++
		}
		logger.Debug("batch validated", "batchIndex", start/batchSize, "succeeded", result.Succeeded, "failed", result.Failed)
		if notifier != nil {
			notifier.Publish(&Event{Subj: "progress", Data: Progress{
				BatchIndex: start / batchSize,
				Attempted:  result.Attempted,
				Succeeded:  result.Succeeded,
				Failed:     result.Failed,
			}})
		}
	}
	if result.Failed > 0 {
		logger.Error("ingest finished with per-record failures", "attempted", result.Attempted, "failed", result.Failed)
	}
	if notifier != nil {
		notifier.Publish(&Event{Subj: "done", Data: result})
	}
	return result, nil
}

// validateRecord checks one record against every column of concept's
// resolved column-set.
func validateRecord(m *model.Model, concept *model.Concept, rec Record) error {
	for _, col := range concept.Columns.Columns() {
		v, present := rec[col.Name]
		if !present {
			switch col.Type.Usage {
			case model.UsageIdref, model.UsageRequired:
				if col.Type.Default != nil {
					continue
				}
				return errs.New(errs.SchemaViolation, "concept %q: missing required column %q", concept.Qualified(), col.Name)
			default:
				continue
			}
		}
		if err := validateValue(m, concept, col, v); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(m *model.Model, concept *model.Concept, col *model.Column, v string) error {
	values := []string{v}
	if col.Type.IsArray() {
		values = splitArray(v, col.Type.Separators)
	}
	for _, item := range values {
		if err := validateScalar(m, concept, col, item); err != nil {
			return err
		}
	}
	return nil
}

func validateScalar(m *model.Model, concept *model.Concept, col *model.Column, v string) error {
	// A value registered as a null sentinel is always accepted, bypassing
	// type and restriction checks (I7).
	if m.IsValidNull(v) {
		return nil
	}

	pt, ok := typreg.Lookup(col.Type.Primitive)
	if ok && pt.Check != nil && !pt.Valid(v) {
		return errs.New(errs.SchemaViolation, "concept %q: column %q: value %q is not a valid %s", concept.Qualified(), col.Name, v, col.Type.Primitive)
	}

	if r := col.Type.Restriction; r != nil {
		switch {
		case r.Pattern != nil && !r.Pattern.Match(v):
			return errs.New(errs.SchemaViolation, "concept %q: column %q: value %q does not match pattern %q", concept.Qualified(), col.Name, v, r.Pattern.Name)
		case r.CV != nil && !r.CV.Validate(v):
			return errs.New(errs.CvTermNotFound, "concept %q: column %q: value %q is not a term of %q", concept.Qualified(), col.Name, v, r.CV.ID())
		}
	}
	return nil
}

func splitArray(v string, seps []rune) []string {
	if len(seps) == 0 || v == "" {
		return []string{v}
	}
	return strings.Split(v, string(seps[0]))
}
