package importer

// Kind selects the column layout of an import.
type Kind string

const (
	KindCustomers Kind = "customers"
	KindBoxing    Kind = "boxing"
)

// Text fallbacks written for cells an import sheet does not carry.
const (
	DefaultPhone         = "N/A"
	DefaultGender        = "Unknown"
	DefaultAddress       = "Imported from Excel"
	DefaultHeight        = "N/A"
	DefaultBloodGroup    = "N/A"
	DefaultShift         = "General"
	DefaultDuration      = 1
	DefaultPerMonthClass = "0+0+0+0"
)

// Sheet is one decoded worksheet. Rows[0] is the header.
type Sheet struct {
	Name string
	Rows [][]string
}

// Result counts what happened to every row read. Interrupted is set when the
// context ended before the last row; rows counted as imported are committed.
type Result struct {
	Kind        Kind      `json:"kind"`
	Sheets      int       `json:"sheets"`
	Rows        int       `json:"rows"`
	Imported    int       `json:"imported"`
	Skipped     int       `json:"skipped"`
	Blank       int       `json:"blank"`
	Failed      int       `json:"failed"`
	Interrupted bool      `json:"interrupted"`
	Warnings    []Warning `json:"warnings"`
}

// Warning describes a cell that was replaced by a default, or a row that
// could not be stored. Row is the 1-indexed worksheet row.
type Warning struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type rowOutcome int

const (
	outcomeImported rowOutcome = iota
	outcomeDuplicate
)
