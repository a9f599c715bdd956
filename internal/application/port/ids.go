package port

// IDGenerator returns fresh unique identifiers for tabs and panes.
type IDGenerator func() string
