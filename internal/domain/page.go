package domain

// PageSize is the number of rows a result page would hold.
// Searches currently return every matching row; nothing offsets by this value.
const PageSize = 200
