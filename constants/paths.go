package constants

// Fixed folder layout relative to the working directory.
const (
	InvoicesDirName       = "invoices"
	SupportingDocsDirName = "supporting_docs"
	DataDirName           = "data"
)

// Artifact file names under the data directory.
const (
	ExtractedCSVName    = "extracted_invoices.csv"
	VerificationCSVName = "verification_results.csv"
	ConvertedCSVName    = "converted_invoices.csv"
	ReportFileName      = "validation_report.xlsx"
	JournalFileName     = "validation.db"
)
