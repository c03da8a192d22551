package docconv

import "strings"

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize splits text into lines on \n, \r\n and \r, trims each line and
// wraps every non-empty line as a {text: line} record, in order. Lines are
// never merged or reordered. The empty string yields an empty set.
func Normalize(text string) RecordSet {
	rs := RecordSet{Fields: []string{TextField}}
	for _, line := range strings.Split(lineBreaks.Replace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rs.Records = append(rs.Records, Record{{Name: TextField, Value: line}})
	}
	return rs
}
