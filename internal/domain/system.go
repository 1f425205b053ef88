package domain

// Reserved line item ids for system requests. These are wire contract points
// shared with the dashboard and KDS clients; do not rename.
const (
	BillRequestItemID = "bill-req"
	HelpRequestItemID = "help-req"
)

// DefaultHelpMessage is shown when a help request arrives with no note.
const DefaultHelpMessage = "Un cliente solicita asistencia"

// IsBillRequest reports whether the order is a synthetic bill request.
func IsBillRequest(o Order) bool { return hasLine(o, BillRequestItemID) }

// IsHelpRequest reports whether the order is a synthetic help request.
func IsHelpRequest(o Order) bool { return hasLine(o, HelpRequestItemID) }

// IsSystemRequest reports whether the order is any synthetic request rather
// than a food order. System requests route to the bill printer role, never
// to a food station.
func IsSystemRequest(o Order) bool { return IsBillRequest(o) || IsHelpRequest(o) }

// HelpMessage returns the free-text note of a help request, or the default
// message when blank.
func HelpMessage(o Order) string {
	for _, l := range o.Items {
		if l.ItemID == HelpRequestItemID {
			if l.Notes != "" {
				return l.Notes
			}
			return DefaultHelpMessage
		}
	}
	return ""
}

func hasLine(o Order, itemID string) bool {
	for _, l := range o.Items {
		if l.ItemID == itemID {
			return true
		}
	}
	return false
}

// IsSystemLine reports whether a single line is a synthetic request line.
func IsSystemLine(l OrderLine) bool {
	return l.ItemID == BillRequestItemID || l.ItemID == HelpRequestItemID
}
