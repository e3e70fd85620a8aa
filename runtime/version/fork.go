package version

const (
	Phase0 = iota
	Altair
)

func String(version int) string {
	switch version {
	case Phase0:
		return "phase0"
	case Altair:
		return "altair"
	default:
		return "unknown version"
	}
}

// FromString returns the version matching the given fork name.
func FromString(name string) (int, bool) {
	switch name {
	case "phase0":
		return Phase0, true
	case "altair":
		return Altair, true
	default:
		return 0, false
	}
}
