package entity

// PipelineResult carries the two output tables of a validation run.
type PipelineResult struct {
	Invoices      []LineItem           `json:"invoices"`
	Verifications []VerificationRecord `json:"verifications"`
}

// Empty reports whether the run produced no usable output at all.
func (r PipelineResult) Empty() bool {
	return len(r.Invoices) == 0 && len(r.Verifications) == 0
}
