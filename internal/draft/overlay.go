// Package draft holds the staged-edit state the schedule and assignment
// editors maintain on top of their persisted baselines.
package draft

import (
	"sort"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
)

// Status classifies a pending mutation relative to baseline. It is fixed at
// staging time so publishing never has to re-derive intent from payload shape.
type Status string

const (
	StatusCreate Status = "CREATE"
	StatusUpdate Status = "UPDATE"
	StatusDelete Status = "DELETE"
)

// Entry is one pending mutation keyed by slot.
type Entry struct {
	Key    string
	Status Status
	// Slot is the staged payload. For deletions it is a copy of the original
	// with IsActive cleared.
	Slot models.ScheduleSlot
	// Original is the pre-edit baseline entity, nil for creations.
	Original *models.ScheduleSlot
}

// BaselineLookup resolves a slot key against the baseline store.
type BaselineLookup func(key string) (models.ScheduleSlot, bool)

// Resolution is the answer to "what should this cell display".
type Resolution struct {
	Slot      *models.ScheduleSlot
	IsDraft   bool
	IsDeleted bool
}

// Overlay records pending local mutations keyed by slot.
type Overlay struct {
	entries map[string]Entry
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{entries: make(map[string]Entry)}
}

// Stage records a create or update for key, overwriting any prior draft
// there. The status is determined by whether the baseline already holds an
// entity for the key: update when it does, create when it does not.
func (o *Overlay) Stage(key string, slot models.ScheduleSlot, baseline BaselineLookup) {
	if original, ok := baseline(key); ok {
		cp := original
		slot.ID = cp.ID
		o.entries[key] = Entry{Key: key, Status: StatusUpdate, Slot: slot, Original: &cp}
		return
	}
	slot.ID = ""
	o.entries[key] = Entry{Key: key, Status: StatusCreate, Slot: slot}
}

// MarkDeleted records a deletion for key. Deleting a staged creation removes
// the draft entirely: the entity was never persisted, so there is nothing to
// delete server-side.
func (o *Overlay) MarkDeleted(key string, original models.ScheduleSlot) {
	if existing, ok := o.entries[key]; ok && existing.Status == StatusCreate {
		delete(o.entries, key)
		return
	}
	cp := original
	removed := cp
	removed.IsActive = false
	o.entries[key] = Entry{Key: key, Status: StatusDelete, Slot: removed, Original: &cp}
}

// Revert drops the draft at key, restoring baseline visibility.
func (o *Overlay) Revert(key string) {
	delete(o.entries, key)
}

// DiscardAll clears every draft. Baseline is untouched.
func (o *Overlay) DiscardAll() {
	o.entries = make(map[string]Entry)
}

// Resolve returns the entity to display for key: the staged payload when a
// non-delete draft exists, the original when a deletion is pending, else the
// plain baseline entity.
func (o *Overlay) Resolve(key string, baseline BaselineLookup) Resolution {
	if entry, ok := o.entries[key]; ok {
		if entry.Status == StatusDelete {
			return Resolution{Slot: entry.Original, IsDraft: true, IsDeleted: true}
		}
		slot := entry.Slot
		return Resolution{Slot: &slot, IsDraft: true}
	}
	if slot, ok := baseline(key); ok {
		return Resolution{Slot: &slot}
	}
	return Resolution{}
}

// Entry returns the draft at key, if any.
func (o *Overlay) Entry(key string) (Entry, bool) {
	entry, ok := o.entries[key]
	return entry, ok
}

// Entries returns all drafts ordered by key.
func (o *Overlay) Entries() []Entry {
	out := make([]Entry, 0, len(o.entries))
	for _, entry := range o.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len reports the number of pending drafts.
func (o *Overlay) Len() int {
	return len(o.entries)
}

// HasChanges reports whether any draft is pending; any entry counts,
// regardless of status.
func (o *Overlay) HasChanges() bool {
	return len(o.entries) > 0
}
