package domain

// DefaultStartDate is the lower bound used for a parent that has no
// checkpoint yet and whose source does not configure its own start date.
const DefaultStartDate = "2024-01-01T00:00:00Z"
