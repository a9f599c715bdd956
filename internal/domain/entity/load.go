package entity

import "slices"

// LoadPhase is where a pane is in its current load cycle.
type LoadPhase int

const (
	// LoadIdle means no load is in flight.
	LoadIdle LoadPhase = iota
	// LoadLoading means a main-frame navigation has started.
	LoadLoading
	// LoadReceivingAssets means the main frame committed and subresources are arriving.
	LoadReceivingAssets
)

// String returns a human-readable representation of the load phase.
func (p LoadPhase) String() string {
	switch p {
	case LoadLoading:
		return "loading"
	case LoadReceivingAssets:
		return "receiving-assets"
	default:
		return "idle"
	}
}

// Network error codes reported by the content host (Chromium net error numbering).
const (
	ErrCodeNone              = 0
	ErrCodeAborted           = -3
	ErrCodeConnectionRefused = -102
	ErrCodeInsecureResponse  = -501
)

// tlsErrorCodes are the handshake and certificate-transparency failures that
// mark a response as insecure.
var tlsErrorCodes = []int{
	-112, // ERR_NO_SSL_VERSIONS_ENABLED
	-113, // ERR_SSL_VERSION_OR_CIPHER_MISMATCH
	-114, // ERR_SSL_RENEGOTIATION_REQUESTED
	-115, // ERR_PROXY_AUTH_UNSUPPORTED
	-116, // ERR_CERT_ERROR_IN_SSL_RENEGOTIATION
	-117, // ERR_BAD_SSL_CLIENT_AUTH_CERT
	-123, // ERR_SSL_NO_RENEGOTIATION
	-129, // ERR_SSL_WEAK_SERVER_EPHEMERAL_DH_KEY
	-136, // ERR_PROXY_CERTIFICATE_INVALID
	-148, // ERR_SSL_HANDSHAKE_NOT_COMPLETED
	-149, // ERR_SSL_BAD_PEER_PUBLIC_KEY
	-150, // ERR_SSL_PINNED_KEY_NOT_IN_CERT_CHAIN
	-151, // ERR_CLIENT_AUTH_CERT_TYPE_UNSUPPORTED
	-153, // ERR_SSL_DECRYPT_ERROR_ALERT
	-156, // ERR_SSL_SERVER_CERT_CHANGED
	-159, // ERR_SSL_UNRECOGNIZED_NAME_ALERT
	-167, // ERR_SSL_SERVER_CERT_BAD_FORMAT
	-168, // ERR_CT_STH_PARSING_FAILED
	-169, // ERR_CT_STH_INCOMPLETE
	-171, // ERR_CT_CONSISTENCY_PROOF_PARSING_FAILED
	-172, // ERR_SSL_OBSOLETE_CIPHER
	-175, // ERR_SSL_VERSION_INTERFERENCE
	-178, // ERR_EARLY_DATA_REJECTED
	-179, // ERR_WRONG_VERSION_ON_EARLY_DATA
	-180, // ERR_TLS13_DOWNGRADE_DETECTED
}

// IsInsecureResponseCode reports whether a failure code means the connection
// was refused or the TLS/certificate layer rejected the response.
// The -200..-299 range is Chromium's certificate error block.
func IsInsecureResponseCode(code int) bool {
	switch {
	case code == ErrCodeConnectionRefused, code == ErrCodeInsecureResponse:
		return true
	case code <= -200 && code > -300:
		return true
	default:
		return slices.Contains(tlsErrorCodes, code)
	}
}

// LoadError describes a failed main-frame navigation.
type LoadError struct {
	IsInsecureResponse bool   `json:"isInsecureResponse"`
	ErrorCode          int    `json:"errorCode"`
	ErrorDescription   string `json:"errorDescription"`
	ValidatedURL       string `json:"validatedURL"`
}

// LoadFailure is the raw failure reported by the content host.
type LoadFailure struct {
	Code         int
	Description  string
	ValidatedURL string
	IsMainFrame  bool
}

// Classify turns a raw failure into a LoadError.
// It returns nil for failures that must leave no visible trace: subframe
// failures, user/redirect aborts and zero (non-)errors.
func (f LoadFailure) Classify() *LoadError {
	if !f.IsMainFrame {
		return nil
	}
	if f.Code == ErrCodeAborted || f.Description == "ERR_ABORTED" {
		return nil
	}
	if f.Code == ErrCodeNone {
		return nil
	}
	return &LoadError{
		IsInsecureResponse: IsInsecureResponseCode(f.Code),
		ErrorCode:          f.Code,
		ErrorDescription:   f.Description,
		ValidatedURL:       f.ValidatedURL,
	}
}
