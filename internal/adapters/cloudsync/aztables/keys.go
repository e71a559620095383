package aztables

import "strings"

// sharedPartition holds keys that are not scoped to a user namespace. escapeKey
// turns every '%' into "%25", so no user partition can equal it.
const sharedPartition = "%shared"

// Characters that Table Storage forbids in PartitionKey and RowKey are percent-encoded.
// '/' becomes '|' so that RowKey ordering follows the original key ordering within a segment.
var (
	keyEscaper = strings.NewReplacer(
		"%", "%25",
		"|", "%7C",
		"/", "|",
		"\\", "%5C",
		"#", "%23",
		"?", "%3F",
	)
	keyUnescaper = strings.NewReplacer(
		"|", "/",
		"%7C", "|",
		"%5C", "\\",
		"%23", "#",
		"%3F", "?",
		"%25", "%",
	)
)

func escapeKey(s string) string   { return keyEscaper.Replace(s) }
func unescapeKey(s string) string { return keyUnescaper.Replace(s) }

// splitKey maps a ledger key of the form u/{user}/{rest} to an entity address.
// Each user namespace is one partition; anything else lands in sharedPartition.
func splitKey(key string) (partitionKey, rowKey string) {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) == 3 && parts[0] == "u" && parts[1] != "" {
		return escapeKey(parts[1]), escapeKey(parts[2])
	}
	return sharedPartition, escapeKey(key)
}

// joinKey is the inverse of splitKey.
func joinKey(partitionKey, rowKey string) string {
	if partitionKey == sharedPartition {
		return unescapeKey(rowKey)
	}
	return "u/" + unescapeKey(partitionKey) + "/" + unescapeKey(rowKey)
}

// prefixFilter builds the OData filter that selects every key starting with prefix.
// ok is false when prefix does not pin a single partition; callers then scan and filter client side.
func prefixFilter(prefix string) (filter string, ok bool) {
	parts := strings.SplitN(prefix, "/", 3)
	if len(parts) < 3 || parts[0] != "u" || parts[1] == "" {
		return "", false
	}
	pk := escapeKey(parts[1])
	filter = "PartitionKey eq " + quote(pk)
	rowPrefix := escapeKey(parts[2])
	if rowPrefix == "" {
		return filter, true
	}
	upper := []byte(rowPrefix)
	if upper[len(upper)-1] == 0xff {
		return "", false
	}
	upper[len(upper)-1]++
	filter += " and RowKey ge " + quote(rowPrefix) + " and RowKey lt " + quote(string(upper))
	return filter, true
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
