package models

// WriteMode controls how the loader treats existing rows in the destination
// table.
type WriteMode int

const (
	// Replace drops the destination table before inserting.
	Replace WriteMode = iota
	// Append keeps existing rows and inserts after them.
	Append
)

func (m WriteMode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Append:
		return "append"
	default:
		return "unknown"
	}
}

// BatchResult records the outcome of one city's run through the pipeline.
type BatchResult struct {
	City  City
	Mode  WriteMode
	Rows  int
	Stage string
	Err   error
}

// Failed reports whether the batch stopped before loading.
func (r BatchResult) Failed() bool {
	return r.Err != nil
}
