package domain

// PrepType classifies a prep task; used only for sort ordering.
type PrepType string

const (
	PrepWash     PrepType = "wash"
	PrepChop     PrepType = "chop"
	PrepMarinate PrepType = "marinate"
	PrepMeasure  PrepType = "measure"
	PrepCook     PrepType = "cook"
	PrepOther    PrepType = "other"
)

// PrepTask is a pre-cooking preparation action derived from the
// ingredient lists of upcoming planned meals. Tasks with the same label
// are merged across meals; Days is the union of the day abbreviations
// the task is needed for.
type PrepTask struct {
	ID         string
	Label      string
	Emoji      string
	Minutes    int
	Days       []string // "Mon", "Tue", ... deduplicated
	Completed  bool
	Ingredient string // source ingredient name, "" if synthetic
	Type       PrepType
}
