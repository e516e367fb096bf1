package types

// Stage is one of the four ordered phases of the application journey.
type Stage int

const (
	StageProfileBuilding Stage = 1
	StageDiscovery       Stage = 2
	StageFinalizing      Stage = 3
	StageApplicationPrep Stage = 4
)

func (s Stage) Valid() bool {
	return s >= StageProfileBuilding && s <= StageApplicationPrep
}

func (s Stage) String() string {
	switch s {
	case StageProfileBuilding:
		return "profile_building"
	case StageDiscovery:
		return "discovery"
	case StageFinalizing:
		return "finalizing"
	case StageApplicationPrep:
		return "application_prep"
	default:
		return "unknown"
	}
}
