package nav

// Result is a single corpus item returned by executing a compiled query.
type Result struct {
	id       string
	itemType string
	score    float64
	label    string
	content  string
	fields   map[string]string
}

// NewResult creates a corpus result.
func NewResult(id, itemType string, score float64, label, content string, fields map[string]string) Result {
	return Result{id: id, itemType: itemType, score: score, label: label, content: content, fields: fields}
}

// ID returns the item identifier.
func (r *Result) ID() string { return r.id }

// Type returns the corpus item type (entity, semantic_unit, ...).
func (r *Result) Type() string { return r.itemType }

// Score returns the executor-assigned score.
func (r *Result) Score() float64 { return r.score }

// Label returns the item label.
func (r *Result) Label() string { return r.label }

// Content returns the item content.
func (r *Result) Content() string { return r.content }

// Fields returns any additional returned fields.
func (r *Result) Fields() map[string]string { return r.fields }

// WithScore returns a copy with a replaced score, used by the similarity
// post-pass.
func (r Result) WithScore(score float64) Result {
	r.score = score
	return r
}
