// Package dialogue implements the per-session conversation state machine.
// The engine is a pure decision function: it performs no I/O, never blocks,
// and is total over its input domain — every (stage, text) pair yields a
// defined next session and a non-empty reply list.
package dialogue

import (
	"fmt"
	"strings"

	"github.com/savastore/whatsbot/internal/catalog"
	"github.com/savastore/whatsbot/internal/faq"
	"github.com/savastore/whatsbot/internal/session"
	"github.com/shopspring/decimal"
)

// Engine computes dialogue transitions against the shared, immutable catalog
// and FAQ indexes.
type Engine struct {
	catalog  *catalog.Index
	faq      *faq.Index
	keywords Keywords
	replies  Replies
	upsells  []UpsellRule
}

// Purchase describes a completed checkout: the exact multiset of cart items
// and their exact decimal total.
type Purchase struct {
	Items []string
	Total decimal.Decimal
}

// Result is the outcome of one engine invocation. Session replaces the
// caller's prior state; Purchase is non-nil only when the turn settled a cart.
type Result struct {
	Session  session.Session
	Replies  []string
	Purchase *Purchase
}

func NewEngine(cat *catalog.Index, faqIdx *faq.Index, kw Keywords, rep Replies, upsells []UpsellRule) *Engine {
	return &Engine{
		catalog:  cat,
		faq:      faqIdx,
		keywords: kw,
		replies:  rep,
		upsells:  upsells,
	}
}

// Process runs one transition of the state machine. The inbound text is
// normalized (lowercased, trimmed) before matching, exactly as keyed replies
// such as "sim" expect.
func (e *Engine) Process(s session.Session, text string) Result {
	msg := strings.ToLower(strings.TrimSpace(text))

	switch s.Stage {
	case session.StageMenu:
		return e.fromMenu(s, msg)
	case session.StageAskPrice:
		return e.fromAskPrice(s, msg)
	case session.StageAskStock:
		return e.fromAskStock(s, msg)
	case session.StageAskFaq:
		return e.fromAskFaq(s, msg)
	case session.StageBuying:
		return e.fromBuying(s, msg)
	case session.StageConfirmPurchase:
		return e.fromConfirmPurchase(s, msg)
	case session.StageUpsell:
		return e.fromUpsell(s, msg)
	default:
		// Welcome, and any stage value we do not recognize: greet and settle
		// into the menu.
		s.Stage = session.StageMenu
		return Result{Session: s, Replies: []string{e.replies.Greeting}}
	}
}

func (e *Engine) fromMenu(s session.Session, msg string) Result {
	switch {
	case containsAny(msg, e.keywords.Price):
		s.Stage = session.StageAskPrice
		return Result{Session: s, Replies: []string{e.replies.AskPrice}}
	case containsAny(msg, e.keywords.Stock):
		s.Stage = session.StageAskStock
		return Result{Session: s, Replies: []string{e.replies.AskStock}}
	case containsAny(msg, e.keywords.Faq):
		s.Stage = session.StageAskFaq
		return Result{Session: s, Replies: []string{e.replies.AskFaq}}
	case containsAny(msg, e.keywords.Buy):
		s.Stage = session.StageBuying
		return Result{Session: s, Replies: []string{e.replies.ChooseProduct}}
	case containsAny(msg, e.keywords.Agent):
		s.Stage = session.StageWelcome
		return Result{Session: s, Replies: []string{e.replies.AgentHandoff}}
	default:
		return Result{Session: s, Replies: []string{e.replies.DidNotUnderstand}}
	}
}

func (e *Engine) fromAskPrice(s session.Session, msg string) Result {
	var info string
	if p, err := e.catalog.Lookup(msg); err == nil {
		info = fmt.Sprintf(e.replies.PriceInfo, p.Name, money(p.Price), p.Stock, p.Specification)
	} else {
		info = e.replies.ProductNotFound
	}
	s.PendingProduct = msg
	s.Stage = session.StageConfirmPurchase
	return Result{Session: s, Replies: []string{info + "\n" + e.replies.BuyPrompt}}
}

func (e *Engine) fromAskStock(s session.Session, msg string) Result {
	var info string
	if p, err := e.catalog.Lookup(msg); err == nil {
		info = fmt.Sprintf(e.replies.StockInfo, p.Stock, p.Name)
	} else {
		info = e.replies.StockNotFound
	}
	s.Stage = session.StageMenu
	return Result{Session: s, Replies: []string{info, e.replies.Menu}}
}

func (e *Engine) fromAskFaq(s session.Session, msg string) Result {
	answer, err := e.faq.Answer(msg)
	if err != nil {
		answer = e.replies.FaqFallback
	}
	s.Stage = session.StageMenu
	return Result{Session: s, Replies: []string{answer + "\n" + e.replies.Menu}}
}

func (e *Engine) fromBuying(s session.Session, msg string) Result {
	p, err := e.catalog.Lookup(msg)
	if err != nil {
		return Result{Session: s, Replies: []string{e.replies.RetryProduct}}
	}
	s.Cart = append(s.Cart, p.Name)
	s.PendingProduct = msg
	s.Stage = session.StageUpsell
	return Result{Session: s, Replies: []string{
		fmt.Sprintf(e.replies.CartAdded, p.Name, money(p.Price)),
		e.upsellOffer(msg),
	}}
}

func (e *Engine) fromConfirmPurchase(s session.Session, msg string) Result {
	if !containsAny(msg, e.keywords.Affirmative) {
		s.Stage = session.StageMenu
		return Result{Session: s, Replies: []string{e.replies.DeclinePurchase}}
	}
	p, err := e.catalog.Lookup(s.PendingProduct)
	if err != nil {
		// The pending product never resolved in the catalog, so there is
		// nothing to buy. Back to the menu without touching the cart.
		s.Stage = session.StageMenu
		return Result{Session: s, Replies: []string{e.replies.ProductNotFound, e.replies.Menu}}
	}
	s.Cart = append(s.Cart, p.Name)
	s.Stage = session.StageUpsell
	return Result{Session: s, Replies: []string{
		fmt.Sprintf(e.replies.CartAdded, p.Name, money(p.Price)),
		e.upsellOffer(s.PendingProduct),
	}}
}

func (e *Engine) fromUpsell(s session.Session, msg string) Result {
	var first string
	if containsAny(msg, e.keywords.Affirmative) {
		if up, ok := e.resolveUpsell(s.PendingProduct); ok {
			s.Cart = append(s.Cart, up.Name)
			total := e.cartTotal(s.Cart)
			first = fmt.Sprintf(e.replies.UpsellTotal, up.Name, money(total))
			return e.checkout(s, total, first)
		}
		// No upsell rule matched the pending product: explicit no-upsell
		// branch, settle the cart as-is.
	}
	total := e.cartTotal(s.Cart)
	first = fmt.Sprintf(e.replies.Total, money(total))
	return e.checkout(s, total, first)
}

// checkout settles the cart: the total is computed from the pre-clear cart
// and the purchase record snapshots that same multiset.
func (e *Engine) checkout(s session.Session, total decimal.Decimal, first string) Result {
	items := make([]string, len(s.Cart))
	copy(items, s.Cart)

	s.Cart = nil
	s.PendingProduct = ""
	s.Stage = session.StageMenu
	return Result{
		Session:  s,
		Replies:  []string{first, e.replies.Menu},
		Purchase: &Purchase{Items: items, Total: total},
	}
}

// resolveUpsell returns the catalog product the static rule table associates
// with the pending product, if any.
func (e *Engine) resolveUpsell(pendingProduct string) (catalog.Product, bool) {
	pending := strings.ToLower(pendingProduct)
	for _, rule := range e.upsells {
		if !strings.Contains(pending, rule.Marker) {
			continue
		}
		if p, err := e.catalog.Lookup(rule.Product); err == nil {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// upsellOffer returns the offer text for the matched rule, or the generic
// "anything else?" prompt.
func (e *Engine) upsellOffer(pendingProduct string) string {
	pending := strings.ToLower(pendingProduct)
	for _, rule := range e.upsells {
		if strings.Contains(pending, rule.Marker) {
			return rule.Offer
		}
	}
	return e.replies.UpsellGeneric
}

// cartTotal sums the catalog price of every cart occurrence, exactly.
func (e *Engine) cartTotal(cart []string) decimal.Decimal {
	total := decimal.Zero
	for _, name := range cart {
		if p, err := e.catalog.Lookup(name); err == nil {
			total = total.Add(p.Price)
		}
	}
	return total
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
