package domain

const (
	// Feed ID constants
	PERSONAL_FEED_PREFIX = "user_"
	LIST_FEED_PREFIX     = "list_"
	DISCOVER_FEED_ID     = "discover"

	// Similarity group ID prefix
	SIMILARITY_GROUP_PREFIX = "sg_"

	// Pagination constants
	DEFAULT_PAGE_SIZE = 20
	MAX_PAGE_SIZE     = 100
)
