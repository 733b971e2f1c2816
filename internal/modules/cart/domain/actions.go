package domain

// Action is a cart mutation. Reduce applies it to a snapshot and returns the next snapshot.
type Action interface {
	apply(items []LineItem) []LineItem
	Name() string
}

// AddLine adds a line or increments an existing line with the same identity.
// A quantity below one counts as one.
type AddLine struct {
	Item LineItem
}

// SetQuantity sets a line's quantity, clamped to at least one. Unknown ids are ignored.
type SetQuantity struct {
	ID       string
	Quantity int
}

// ChangeQuantityBy adjusts a line's quantity by Delta; reaching zero or below removes the line.
type ChangeQuantityBy struct {
	ID    string
	Delta int
}

// RemoveLine drops the line with ID.
type RemoveLine struct {
	ID string
}

// Clear empties the cart.
type Clear struct{}

// RemoveOrdered takes the quantities of Lines out of the cart after they were ordered. Lines
// added while the order was in flight, and units added to an ordered line, stay in the cart.
type RemoveOrdered struct {
	Lines []LineItem
}

func (AddLine) Name() string          { return "add" }
func (SetQuantity) Name() string      { return "setQuantity" }
func (ChangeQuantityBy) Name() string { return "changeQuantityBy" }
func (RemoveLine) Name() string       { return "remove" }
func (Clear) Name() string            { return "clear" }
func (RemoveOrdered) Name() string    { return "removeOrdered" }

// Reduce applies action to s. The input snapshot is never modified.
func Reduce(s Snapshot, action Action) Snapshot {
	if action == nil {
		return s
	}
	items := action.apply(s.Clone().Items)
	if items == nil {
		items = []LineItem{}
	}
	return Snapshot{Items: items, Total: ComputeTotal(items)}
}

func (a AddLine) apply(items []LineItem) []LineItem {
	incoming := canonicalLine(a.Item)
	if incoming.ID == "" {
		return items
	}
	if incoming.Quantity < 1 {
		incoming.Quantity = 1
	}
	for i := range items {
		if items[i].ID == incoming.ID {
			items[i].Quantity += incoming.Quantity
			return items
		}
	}
	return append(items, incoming)
}

func (a SetQuantity) apply(items []LineItem) []LineItem {
	quantity := a.Quantity
	if quantity < 1 {
		quantity = 1
	}
	for i := range items {
		if items[i].ID == a.ID {
			items[i].Quantity = quantity
			break
		}
	}
	return items
}

func (a ChangeQuantityBy) apply(items []LineItem) []LineItem {
	for i := range items {
		if items[i].ID != a.ID {
			continue
		}
		next := items[i].Quantity + a.Delta
		if next <= 0 {
			return append(items[:i], items[i+1:]...)
		}
		items[i].Quantity = next
		break
	}
	return items
}

func (a RemoveLine) apply(items []LineItem) []LineItem {
	kept := items[:0]
	for _, item := range items {
		if item.ID != a.ID {
			kept = append(kept, item)
		}
	}
	return kept
}

func (Clear) apply([]LineItem) []LineItem {
	return []LineItem{}
}

func (a RemoveOrdered) apply(items []LineItem) []LineItem {
	ordered := make(map[string]int, len(a.Lines))
	for _, line := range a.Lines {
		ordered[line.ID] += line.Quantity
	}
	kept := items[:0]
	for _, item := range items {
		item.Quantity -= ordered[item.ID]
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	return kept
}
