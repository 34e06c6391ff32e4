package registry

import "github.com/google/uuid"

// Transaction is a handle returned by Registry.Begin. It snapshots the
// registry's mutable state on creation and either discards the
// snapshot (Commit) or restores it (Rollback). Mutating Registry
// methods enlist implicitly into whatever transaction is current; there
// is no separate enlist call.
//
// Nested transactions are rejected rather than supported: a registry
// already enlisted in a transaction returns a TransactionError from a
// second Begin. This mirrors a two-phase-commit resource manager
// collapsed to the single-registry case, trading the generality of
// nested scopes for a model simple enough to reason about directly.
type Transaction struct {
	id       string
	reg      *Registry
	snapshot registrySnapshot
	done     bool
}

// registrySnapshot holds a deep-enough copy of every piece of Registry
// state a mutating operation can touch, taken once at Begin so Rollback
// can restore it without replaying individual operations.
type registrySnapshot struct {
	available      map[string]*AvailableModule
	provides       *ProvidesIndex
	installed      map[string]*InstalledModule
	ownership      fileOwnership
	sorter         *compatibilitySorter
	repositories   *repositoryList
	dlls           map[string]ModuleVersion
	dlc            map[string]ModuleVersion
	downloadCounts map[string]int64
}

// Begin starts a transaction against r, snapshotting its current state.
// Returns a TransactionError if r is already inside a transaction.
func (r *Registry) Begin() (*Transaction, error) {
	if r.currentTx != nil {
		return nil, &TransactionError{Reason: "registry already enlisted in transaction " + r.currentTx.id}
	}
	tx := &Transaction{
		id:       uuid.NewString(),
		reg:      r,
		snapshot: r.snapshotState(),
	}
	r.currentTx = tx
	return tx, nil
}

// ID returns the transaction's identifier.
func (tx *Transaction) ID() string { return tx.id }

// Commit discards the snapshot, making every mutation performed since
// Begin permanent.
func (tx *Transaction) Commit() error {
	if tx.done {
		return &TransactionError{Reason: "transaction " + tx.id + " already completed"}
	}
	tx.done = true
	tx.reg.currentTx = nil
	return nil
}

// Rollback restores the registry to its state at Begin, discarding
// every mutation performed since.
func (tx *Transaction) Rollback() error {
	if tx.done {
		return &TransactionError{Reason: "transaction " + tx.id + " already completed"}
	}
	tx.done = true
	tx.reg.restoreState(tx.snapshot)
	tx.reg.currentTx = nil
	return nil
}

// snapshotState deep-copies every field a mutating operation can touch.
// AvailableModule and InstalledModule values are themselves replaced
// wholesale on every mutating call (never edited in place), so a
// shallow copy of the top-level maps combined with clones of the index
// and ownership structures is sufficient: a pointer swapped out of the
// live map after the snapshot was taken is simply absent from the
// snapshot's copy, and a pointer still present is never mutated through
// after being swapped in.
func (r *Registry) snapshotState() registrySnapshot {
	available := make(map[string]*AvailableModule, len(r.available))
	for k, v := range r.available {
		available[k] = v
	}
	installed := make(map[string]*InstalledModule, len(r.installed))
	for k, v := range r.installed {
		installed[k] = v
	}
	dlls := make(map[string]ModuleVersion, len(r.dlls))
	for k, v := range r.dlls {
		dlls[k] = v
	}
	dlc := make(map[string]ModuleVersion, len(r.dlc))
	for k, v := range r.dlc {
		dlc[k] = v
	}
	counts := make(map[string]int64, len(r.downloadCounts))
	for k, v := range r.downloadCounts {
		counts[k] = v
	}

	return registrySnapshot{
		available:      available,
		provides:       r.provides.clone(),
		installed:      installed,
		ownership:      r.ownership.clone(),
		sorter:         r.sorter,
		repositories:   r.repositories.clone(),
		dlls:           dlls,
		dlc:            dlc,
		downloadCounts: counts,
	}
}

// restoreState replaces the registry's mutable fields with s.
func (r *Registry) restoreState(s registrySnapshot) {
	r.available = s.available
	r.provides = s.provides
	r.installed = s.installed
	r.ownership = s.ownership
	r.sorter = s.sorter
	r.repositories = s.repositories
	r.dlls = s.dlls
	r.dlc = s.dlc
	r.downloadCounts = s.downloadCounts
}

// inTransaction reports whether r currently has an open transaction.
func (r *Registry) inTransaction() bool {
	return r.currentTx != nil
}
