package roster

import "github.com/ward-roster/roster/backend/internal/domain"

type wishKey struct {
	staffID string
	date    string
	shift   string
}

// WishIndex 用于计算 wishGranted，结果只用于展示，不会写回 Assignment
type WishIndex struct {
	set map[wishKey]struct{}
}

func NewWishIndex(wishes []domain.Wish) *WishIndex {
	idx := &WishIndex{set: make(map[wishKey]struct{}, len(wishes))}
	for _, w := range wishes {
		idx.set[wishKey{staffID: w.StaffID, date: w.Date, shift: w.Shift}] = struct{}{}
	}
	return idx
}

func (w *WishIndex) Granted(staffID, date, shiftKey string) bool {
	if w == nil || staffID == "" {
		return false
	}
	_, ok := w.set[wishKey{staffID: staffID, date: date, shift: shiftKey}]
	return ok
}

func (w *WishIndex) Len() int {
	if w == nil {
		return 0
	}
	return len(w.set)
}
