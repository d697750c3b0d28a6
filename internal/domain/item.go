package domain

// Category is the hazard/storage class an item is shelved under.
type Category string

const (
	Category_Flammable Category = "flammable"
	Category_Corrosive Category = "corrosive"
	Category_ColdChain Category = "coldchain"
	Category_Other     Category = "other"
	Category_User      Category = "user"
)

func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case Category_Flammable, Category_Corrosive, Category_ColdChain, Category_Other, Category_User:
		return Category(s), true
	}
	return "", false
}

// Item is a single inventory record. (Name, Category) is unique and
// Quantity never drops below zero.
type Item struct {
	ID       int      `db:"id" json:"id"`
	Name     string   `db:"name" json:"name"`
	Category Category `db:"category" json:"category"`
	Quantity int      `db:"quantity" json:"quantity"`
	Tag      string   `db:"tag" json:"tag,omitempty"`
}

// ScanEvent is the latest-wins mailbox record for a physical tag read.
// An empty Tag is the "no scan yet" sentinel.
type ScanEvent struct {
	Tag      string `db:"tag" json:"tag"`
	Quantity int    `db:"quantity" json:"quantity"`
}

func NewScanEvent(tag string, quantity int) ScanEvent {
	if quantity < 1 {
		quantity = 1
	}
	return ScanEvent{Tag: tag, Quantity: quantity}
}

func (s ScanEvent) Pending() bool {
	return s.Tag != ""
}
