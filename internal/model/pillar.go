package model

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const UnknownPillarTitle = "Unknown Pillar"

type Pillar struct {
	Number int    `json:"number"`
	ID     string `json:"id"`
	Title  string `json:"title"`
}

// Pillars lists the twelve leadership pillars in canonical order.
var Pillars = []Pillar{
	{Number: 1, ID: "pillar1_leadership_identity", Title: "Leadership Identity"},
	{Number: 2, ID: "pillar2_emotional_intelligence", Title: "Emotional Intelligence"},
	{Number: 3, ID: "pillar3_communication_mastery", Title: "Communication Mastery"},
	{Number: 4, ID: "pillar4_strategic_thinking", Title: "Strategic Thinking"},
	{Number: 5, ID: "pillar5_decision_making", Title: "Decision Making"},
	{Number: 6, ID: "pillar6_team_building", Title: "Team Building"},
	{Number: 7, ID: "pillar7_delegation_empowerment", Title: "Delegation & Empowerment"},
	{Number: 8, ID: "pillar8_conflict_resolution", Title: "Conflict Resolution"},
	{Number: 9, ID: "pillar9_change_leadership", Title: "Change Leadership"},
	{Number: 10, ID: "pillar10_coaching_development", Title: "Coaching & Development"},
	{Number: 11, ID: "pillar11_accountability_performance", Title: "Accountability & Performance"},
	{Number: 12, ID: "pillar12_vision_execution", Title: "Vision & Execution"},
}

var (
	pillarIDPrefix  = regexp.MustCompile(`^pillar(\d+)`)
	answerKeyPillar = regexp.MustCompile(`(?:^|[-_])p(\d+)(?:[-_]|$)`)
)

func PillarByID(id string) (Pillar, bool) {
	for _, p := range Pillars {
		if p.ID == id {
			return p, true
		}
	}
	return Pillar{}, false
}

func PillarByNumber(n int) (Pillar, bool) {
	if n < 1 || n > len(Pillars) {
		return Pillar{}, false
	}
	return Pillars[n-1], true
}

// ResolvePillar looks the id up in the canonical table first, then falls back
// to the number in a "pillar<N>..." prefix; stored ids are not always canonical.
func ResolvePillar(id string) (Pillar, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pillar{}, false
	}
	if p, ok := PillarByID(id); ok {
		return p, true
	}
	m := pillarIDPrefix.FindStringSubmatch(strings.ToLower(id))
	if m == nil {
		return Pillar{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Pillar{}, false
	}
	return PillarByNumber(n)
}

func PillarTitle(id string) string {
	if p, ok := ResolvePillar(id); ok {
		return p.Title
	}
	return UnknownPillarTitle
}

// PillarIDFromAnswerKey reads the "p<N>" infix used in worksheet question ids,
// e.g. "p3-listening-rating".
func PillarIDFromAnswerKey(key string) (string, bool) {
	m := answerKeyPillar.FindStringSubmatch(strings.ToLower(key))
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	p, ok := PillarByNumber(n)
	if !ok {
		return "", false
	}
	return p.ID, true
}

var pillarNumberMention = regexp.MustCompile(`(?i)\bpillar[\s_#-]*(\d+)\b`)

// PillarIDsMentioned returns the canonical ids of pillars named in free text,
// by id, by "Pillar N", or by title, in order of first mention.
func PillarIDsMentioned(text string) []string {
	type hit struct {
		pos int
		id  string
	}
	lower := strings.ToLower(text)
	first := make(map[string]int)
	note := func(id string, pos int) {
		if p, ok := first[id]; !ok || pos < p {
			first[id] = pos
		}
	}

	for _, p := range Pillars {
		if i := strings.Index(lower, strings.ToLower(p.ID)); i >= 0 {
			note(p.ID, i)
		}
		if i := strings.Index(lower, strings.ToLower(p.Title)); i >= 0 {
			note(p.ID, i)
		}
	}
	for _, m := range pillarNumberMention.FindAllStringSubmatchIndex(text, -1) {
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		if p, ok := PillarByNumber(n); ok {
			note(p.ID, m[0])
		}
	}

	hits := make([]hit, 0, len(first))
	for id, pos := range first {
		hits = append(hits, hit{pos: pos, id: id})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}
