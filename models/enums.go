package models

// Region is a Riot game server region
type Region string

const (
	RegionBR  Region = "BR"
	RegionEUN Region = "EUN"
	RegionEUW Region = "EUW"
	RegionLAN Region = "LAN"
	RegionLAS Region = "LAS"
	RegionNA  Region = "NA"
	RegionOCE Region = "OCE"
	RegionRU  Region = "RU"
	RegionTR  Region = "TR"
	RegionJP  Region = "JP"
	RegionKR  Region = "KR"
	RegionPH  Region = "PH"
	RegionSG  Region = "SG"
	RegionTH  Region = "TH"
	RegionTW  Region = "TW"
	RegionVN  Region = "VN"
)

var regions = map[Region]bool{
	RegionBR: true, RegionEUN: true, RegionEUW: true, RegionLAN: true,
	RegionLAS: true, RegionNA: true, RegionOCE: true, RegionRU: true,
	RegionTR: true, RegionJP: true, RegionKR: true, RegionPH: true,
	RegionSG: true, RegionTH: true, RegionTW: true, RegionVN: true,
}

// Valid reports whether r is a known region
func (r Region) Valid() bool {
	return regions[r]
}

// CompetitionStatus is the lifecycle state shared by tournaments and leagues
type CompetitionStatus string

const (
	StatusDraft        CompetitionStatus = "draft"
	StatusRegistration CompetitionStatus = "registration"
	StatusInProgress   CompetitionStatus = "in_progress"
	StatusCompleted    CompetitionStatus = "completed"
	StatusCancelled    CompetitionStatus = "cancelled"
)
