package chrome

import "strings"

// netErrorCodes maps Chromium net error names to their numeric codes.
var netErrorCodes = map[string]int{
	"ERR_FAILED":                   -2,
	"ERR_ABORTED":                  -3,
	"ERR_TIMED_OUT":                -7,
	"ERR_FILE_NOT_FOUND":           -6,
	"ERR_BLOCKED_BY_CLIENT":        -20,
	"ERR_BLOCKED_BY_RESPONSE":      -27,
	"ERR_CONNECTION_CLOSED":        -100,
	"ERR_CONNECTION_RESET":         -101,
	"ERR_CONNECTION_REFUSED":       -102,
	"ERR_CONNECTION_ABORTED":       -103,
	"ERR_CONNECTION_FAILED":        -104,
	"ERR_NAME_NOT_RESOLVED":        -105,
	"ERR_INTERNET_DISCONNECTED":    -106,
	"ERR_SSL_PROTOCOL_ERROR":       -107,
	"ERR_ADDRESS_UNREACHABLE":      -109,
	"ERR_CONNECTION_TIMED_OUT":     -118,
	"ERR_CERT_COMMON_NAME_INVALID": -200,
	"ERR_CERT_DATE_INVALID":        -201,
	"ERR_CERT_AUTHORITY_INVALID":   -202,
	"ERR_CERT_INVALID":             -207,
	"ERR_EMPTY_RESPONSE":           -324,
	"ERR_INSECURE_RESPONSE":        -501,
}

// parseNetError turns a CDP error text such as "net::ERR_NAME_NOT_RESOLVED"
// into a code and a bare description.
func parseNetError(text string, canceled bool) (int, string) {
	desc := strings.TrimPrefix(strings.TrimSpace(text), "net::")
	if canceled && desc == "" {
		desc = "ERR_ABORTED"
	}
	code, ok := netErrorCodes[desc]
	if !ok {
		code = netErrorCodes["ERR_FAILED"]
	}
	return code, desc
}
