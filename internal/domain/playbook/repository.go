package playbook

// Catalog is the static lookup table of intervention entries. It is
// external, swappable configuration data; implementations live in
// infrastructure (embedded YAML, YAML file).
type Catalog interface {
	// Entries returns the catalog entries in declaration order.
	Entries() []Entry
}
