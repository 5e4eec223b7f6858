package zoom

// Level is the abstraction level of a corpus view.
type Level string

// Zoom level constants, coarsest to finest.
const (
	// Corpus views the whole knowledge corpus as a single summary.
	Corpus    Level = "corpus"
	Community Level = "community"
	Unit      Level = "unit"
	Text      Level = "text"
	Entity    Level = "entity"
	// Micro views sub-entity detail (individual claims and attributes).
	Micro Level = "micro"
)

// Levels lists every supported zoom level in granularity order.
func Levels() []Level {
	return []Level{Corpus, Community, Unit, Text, Entity, Micro}
}

// IsValid checks if the level is one of the supported values.
func (l Level) IsValid() bool {
	switch l {
	case Corpus, Community, Unit, Text, Entity, Micro:
		return true
	}
	return false
}

func (l Level) String() string { return string(l) }
