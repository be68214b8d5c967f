package repositories

import "strconv"

// keySegment length-prefixes a user supplied id ("5#alice") so that no id,
// whatever characters it holds, can spill into the next part of a key.
// Concatenated segments are prefix free.
func keySegment(id string) string {
	return strconv.Itoa(len(id)) + "#" + id
}
