package program

import "strings"

// Program is the 40-day sprint recommended for a respondent's weakest pillar.
type Program struct {
	Code    string `json:"code"`
	Pillar  string `json:"pillar"`
	Heading string `json:"heading"`
	Summary string `json:"summary"`
	CTA     string `json:"cta"`
	Weeks   int    `json:"weeks"`
}

var programs = []Program{
	{
		Code:    "H40",
		Pillar:  "Health",
		Heading: "Your Health Matters",
		Summary: "A free 40-day challenge with one short video lesson a day covering energy, strength, nutrition and mental health.",
		CTA:     "Join H40",
		Weeks:   6,
	},
	{
		Code:    "F40",
		Pillar:  "Financial",
		Heading: "Financial Freedom Awaits",
		Summary: "A free 40-day challenge with one short video lesson a day on increasing your income, your independence and your impact.",
		CTA:     "Join F40",
		Weeks:   6,
	},
	{
		Code:    "R40",
		Pillar:  "Relationships",
		Heading: "Transform Every Relationship in Your Life",
		Summary: "Six weeks to connect with others, reflect on your relationship with yourself and grow in your relationship with your Creator.",
		CTA:     "Join R40",
		Weeks:   6,
	},
}

// ForPillar finds the program for a pillar by id or display name, ignoring case.
// Pillar ids such as "financial" match the "Financial" program.
func ForPillar(pillar string) (Program, bool) {
	pillar = strings.TrimSpace(pillar)
	for _, p := range programs {
		if strings.EqualFold(p.Pillar, pillar) || strings.EqualFold(p.Code, pillar) {
			return p, true
		}
	}
	return Program{}, false
}

// All returns every program in pillar order.
func All() []Program {
	out := make([]Program, len(programs))
	copy(out, programs)
	return out
}
