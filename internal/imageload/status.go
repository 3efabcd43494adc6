package imageload

// LoadStatus classifies the outcome of loading one dataset member.
// Every failure mode maps to a status; loading never raises a fault
// past the loader.
type LoadStatus int

const (
	StatusLoaded LoadStatus = iota
	StatusNotFound
	StatusPermissionDenied
	StatusTooLarge
	StatusUnrecognizedFormat
	StatusCannotDecode
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoaded:
		return "Loaded"
	case StatusNotFound:
		return "Not Found"
	case StatusPermissionDenied:
		return "Permission Denied"
	case StatusTooLarge:
		return "Too Large"
	case StatusUnrecognizedFormat:
		return "Unrecognized Format"
	case StatusCannotDecode:
		return "Cannot Decode"
	default:
		return "Unknown"
	}
}
