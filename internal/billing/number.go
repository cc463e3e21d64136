package billing

import "fmt"

// NextDocumentNumber builds a human-readable document number in the form
// {PREFIX}-{year}-{sequence}, e.g. "Q-2024-001" or "INV-2024-1000". The
// sequence is existingCount+1, zero-padded to at least three digits and
// growing naturally beyond that.
//
// The function is pure: it trusts the caller's count. Under concurrent
// creation two callers can observe the same count, so the persistence layer
// enforces uniqueness (unique index on the number column) and the service
// retries once with a refreshed count.
func NextDocumentNumber(kind DocumentKind, year int, existingCount int) string {
	return fmt.Sprintf("%s-%d-%03d", numberPrefix(kind), year, existingCount+1)
}

func numberPrefix(kind DocumentKind) string {
	switch kind {
	case KindQuote:
		return "Q"
	case KindInvoice:
		return "INV"
	case KindChangeOrder:
		return "CO"
	}
	return "DOC"
}
