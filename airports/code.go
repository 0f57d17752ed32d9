// airports/code.go
package airports

import "strings"

// NormalizeAirportCode is the key form used by Table: trimmed, upper-cased,
// and with the K dropped from US ICAO codes so "kjfk" and "JFK" hit the same row.
func NormalizeAirportCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) == 4 && code[0] == 'K' {
		return code[1:]
	}
	return code
}
