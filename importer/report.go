package importer

// OutcomeKind is the terminal state a row reached.
type OutcomeKind string

const (
	OutcomeImported OutcomeKind = "imported"
	OutcomeUpdated  OutcomeKind = "updated"
	OutcomeSkipped  OutcomeKind = "skipped"
	OutcomeErrored  OutcomeKind = "errored"
)

const (
	ReasonMissingFields = "missing name/category"
	ReasonNothingNew    = "nothing new to update"
)

// Outcome is the result of reconciling a single row.
type Outcome struct {
	Row       int         `json:"row"`
	Name      string      `json:"name,omitempty"`
	Kind      OutcomeKind `json:"outcome"`
	ProductID string      `json:"productId,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	Message   string      `json:"message,omitempty"`
	Warnings  []string    `json:"warnings,omitempty"`
}

// BatchReport summarises a whole import. Errors carries, in row order, the
// warnings and error messages of every row.
type BatchReport struct {
	Total          int       `json:"total"`
	Imported       int       `json:"imported"`
	Updated        int       `json:"updated"`
	Skipped        int       `json:"skipped"`
	Errored        int       `json:"errored"`
	Errors         []string  `json:"errors"`
	ImagesUploaded int       `json:"imagesUploaded"`
	DryRun         bool      `json:"dryRun,omitempty"`
	Outcomes       []Outcome `json:"rows"`
}

func newBatchReport(total int) *BatchReport {
	return &BatchReport{
		Total:    total,
		Errors:   []string{},
		Outcomes: make([]Outcome, 0, total),
	}
}

func (r *BatchReport) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Errors = append(r.Errors, o.Warnings...)
	switch o.Kind {
	case OutcomeImported:
		r.Imported++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeErrored:
		r.Errored++
		r.Errors = append(r.Errors, o.Message)
	}
}
