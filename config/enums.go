package config

// How literal ignore rules are compared with selectors.
// ENUM(contains, exact)
type LiteralMatchMode int
