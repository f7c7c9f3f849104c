package enum

type Commitment string
type OutputFormat string
type ViewKind string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ViewKind tags which branch of an account view is populated.
const (
	ViewParsed   ViewKind = "parsed"
	ViewRaw      ViewKind = "raw"
	ViewNotFound ViewKind = "not_found"
)

func (c Commitment) Valid() bool {
	switch c {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
		return true
	}
	return false
}

func (f OutputFormat) Valid() bool {
	switch f {
	case OutputText, OutputJSON, OutputYAML:
		return true
	}
	return false
}
