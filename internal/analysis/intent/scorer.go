package intent

// intentWeights rank how valuable each intent is as a sales signal.
var intentWeights = map[Category]int{
	Pricing:         30,
	ComplexQueries:  25,
	HumanAssistance: 20,
	DetailedInfo:    15,
	GeneralInquiry:  10,
}

// Score maps a captured lead's context to a 0-100 priority:
//
//	confidence/2 + intent weight + min(historyLength*2, 20)
//
// Longer conversations mean a more engaged prospect, capped so history
// alone cannot dominate. Unknown intents score like general inquiries.
func Score(category Category, confidence, historyLength int) int {
	weight, ok := intentWeights[category]
	if !ok {
		weight = intentWeights[GeneralInquiry]
	}

	engagement := historyLength * 2
	if engagement > 20 {
		engagement = 20
	}

	return clamp(confidence/2+weight+engagement, 0, 100)
}
