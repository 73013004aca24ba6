package storage

// Store is the line-oriented record store the repositories persist through.
// A name addresses one collection. Implementations must make ReadAllLines
// return an empty slice for an absent or empty collection, never an error.
type Store interface {
	EnsureExists(name string) error
	ReadAllLines(name string) ([]string, error)
	WriteAll(name string, content string, appendMode bool) error
	Exists(name string) bool
	Copy(src, dst string) error
	Delete(name string) error
}
