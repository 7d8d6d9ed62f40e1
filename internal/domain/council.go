package domain

// Council represents one of the governance bodies of the Collective.
// The set is fixed: exactly seven bodies, known at compile time.
type Council string

const (
	CouncilTokenHouse         Council = "Token House"
	CouncilCitizenHouse       Council = "Citizen House"
	CouncilGrantsCouncil      Council = "Grants Council"
	CouncilGrantsSubcommittee Council = "Grants Council (Milestone & Metrics Sub-committee)"
	CouncilSecurityCouncil    Council = "Security Council"
	CouncilCodeOfConduct      Council = "Code of Conduct Council"
	CouncilDevAdvisoryBoard   Council = "Developer Advisory Board"
)

// Councils returns every governance body in display order.
// Callers must not mutate the returned slice.
func Councils() []Council {
	return councils
}

var councils = []Council{
	CouncilTokenHouse,
	CouncilCitizenHouse,
	CouncilGrantsCouncil,
	CouncilGrantsSubcommittee,
	CouncilSecurityCouncil,
	CouncilCodeOfConduct,
	CouncilDevAdvisoryBoard,
}

var councilDescriptions = map[Council]string{
	CouncilTokenHouse:         "Oversees voting on governance proposals by OP token holders or their delegates.",
	CouncilCitizenHouse:       "Allocates funding for public goods and votes on certain governance vetoes.",
	CouncilGrantsCouncil:      "Reviews and approves grant applications, ensuring milestone adherence and transparency.",
	CouncilGrantsSubcommittee: "Specializes in defining and tracking project milestones to measure grant impact.",
	CouncilSecurityCouncil:    "Protects protocol integrity by managing security upgrades and coordinating emergency responses.",
	CouncilCodeOfConduct:      "Enforces community conduct standards by reviewing and addressing violation reports.",
	CouncilDevAdvisoryBoard:   "Advises on technical decisions and reviews mission proposals, supporting technical governance.",
}

// Description returns the one-line summary of the council's role.
func (c Council) Description() string {
	return councilDescriptions[c]
}

// Valid reports whether c is one of the seven known councils.
func (c Council) Valid() bool {
	_, ok := councilDescriptions[c]
	return ok
}
