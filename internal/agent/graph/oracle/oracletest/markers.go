package oracletest

// Markers that identify each prompt kind.
const (
	ConfirmCategory = "System asked:"
	ClassifyExtract = `"switch_detected"`
	BulkQuestions   = "NUMBERED LIST"
	SinglePolicy    = "ONLY ONE relevant policy"
	MultiPolicy     = "DISTINCT policies"
	Sales           = "You are an insurance expert"
)
