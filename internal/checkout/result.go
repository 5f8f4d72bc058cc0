package checkout

// ResultKind is how the hosted widget finished.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultFailure
	ResultCancelled // widget closed without a result
)

const providerSuccessful = "successful"

// Result is the widget's report, delivered by the browser.
type Result struct {
	Kind          ResultKind
	TxRef         string
	TransactionID string
	Status        string
}

// FromCallback classifies a widget callback. Anything but "successful" is a
// failure.
func FromCallback(status, transactionID, txRef string) Result {
	kind := ResultFailure
	if status == providerSuccessful {
		kind = ResultSuccess
	}
	return Result{Kind: kind, TxRef: txRef, TransactionID: transactionID, Status: status}
}

func Cancelled() Result {
	return Result{Kind: ResultCancelled}
}

type Outcome string

const (
	OutcomePaid               Outcome = "paid"
	OutcomeDeclined           Outcome = "declined"
	OutcomeCancelled          Outcome = "cancelled"
	OutcomeVerificationFailed Outcome = "verification_failed"
	OutcomeVerificationError  Outcome = "verification_error"
)

// Report is what the customer is told after a result is handled.
type Report struct {
	Outcome        Outcome `json:"outcome"`
	Message        string  `json:"message"`
	TransactionRef string  `json:"tx_ref"`
	Notified       bool    `json:"notified,omitempty"`
}
