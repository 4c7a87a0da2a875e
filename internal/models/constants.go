package models

// Default category bucket for entries that carry none.
const CategoryUncategorized = "Uncategorized"

// Tolerance used when comparing a transaction remainder to zero.
const DefaultRemainderTolerance = "0.001"

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
