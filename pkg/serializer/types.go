package serializer

import "context"

// Serializer writes a value to some destination in a given format.
// Implementations of this interface can serialize data to various formats
// such as JSON, YAML, or plain text.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is an optional interface that Serializers can implement
// if they need to release resources (e.g., close file handles).
type Closer interface {
	Close() error
}

// Tabular values render as a multi-column table in FormatTable instead of
// the default FIELD/VALUE listing.
type Tabular interface {
	// Columns returns the column names in display order.
	Columns() []string
	// Rows returns one slice of cell values per row, aligned with Columns.
	Rows() [][]string
}
