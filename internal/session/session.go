// Package session owns per-caller conversation state and its lifecycle.
package session

// Stage is the current position of a caller in the dialogue state machine.
type Stage string

const (
	StageWelcome         Stage = "welcome"
	StageMenu            Stage = "menu"
	StageAskPrice        Stage = "ask_price"
	StageAskStock        Stage = "ask_stock"
	StageAskFaq          Stage = "ask_faq"
	StageBuying          Stage = "buying"
	StageConfirmPurchase Stage = "confirm_purchase"
	StageUpsell          Stage = "upsell"
)

// Session is the mutable per-caller record. Cart holds catalog product names
// in purchase order; duplicates are allowed and each occurrence counts toward
// the total. PendingProduct is the last product the caller referenced, used to
// resolve "yes/no" replies.
type Session struct {
	Stage          Stage
	Cart           []string
	PendingProduct string
}

// New returns the initial session for a first-contact caller.
func New() Session {
	return Session{Stage: StageWelcome}
}

// Clone returns a deep copy so that no caller of the store can alias the
// stored cart slice.
func (s Session) Clone() Session {
	out := s
	if s.Cart != nil {
		out.Cart = make([]string, len(s.Cart))
		copy(out.Cart, s.Cart)
	}
	return out
}
