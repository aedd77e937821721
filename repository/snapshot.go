package repository

// Named storage keys under which manager snapshots are persisted, matching
// one key per state container.
const (
	SnapshotSession     = "authenticate-store"
	SnapshotCart        = "cart-store"
	SnapshotProduct     = "product-store"
	SnapshotDebt        = "debt-store"
	SnapshotExpenditure = "expenditure-store"
	SnapshotDashboard   = "dashboard-store"
	SnapshotReport      = "report-store"
)

// SnapshotStore persists manager state across process restarts. Loading a
// key that was never written is not an error; Load reports whether a value
// was found.
type SnapshotStore interface {
	Save(key string, value interface{}) error
	Load(key string, out interface{}) (bool, error)
	Delete(key string) error
	Close() error
}
