package rotation

import "strconv"

const (
	// GlobalKey partitions the rotation of the public moderator pool.
	GlobalKey = "moderation:rotation:global"

	// groupKeyPrefix partitions the rotation of one management group.
	groupKeyPrefix = "moderation:rotation:group:"

	indexSuffix = ":index"
	lastSuffix  = ":last"
)

// GroupKey returns the rotation key of a management group.
func GroupKey(groupID int64) string {
	return groupKeyPrefix + strconv.FormatInt(groupID, 10)
}

// IndexKey returns where the last rotation index of a rotation key is stored.
func IndexKey(rotationKey string) string {
	return rotationKey + indexSuffix
}

// LastSelectedKey returns where the last selected moderator of a rotation key is stored.
func LastSelectedKey(rotationKey string) string {
	return rotationKey + lastSuffix
}
